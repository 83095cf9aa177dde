package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/menucloud/menucloud/models"
	"github.com/menucloud/menucloud/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Tenant{},
		&models.Settings{},
		&models.User{},
		&models.Category{},
		&models.AllergenIcon{},
		&models.MenuItem{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createTenant(t *testing.T, db *gorm.DB, subdomain, status string) *models.Tenant {
	t.Helper()
	tenant := models.Tenant{
		Name:      subdomain,
		Subdomain: subdomain,
		Status:    status,
	}
	if err := db.Create(&tenant).Error; err != nil {
		t.Fatalf("failed to create tenant: %v", err)
	}
	return &tenant
}

func floatPtr(v float64) *float64 { return &v }

func uintPtr(v uint) *uint { return &v }
