package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/menucloud/menucloud/config"
	"github.com/menucloud/menucloud/models"
	"github.com/menucloud/menucloud/router"
	"github.com/menucloud/menucloud/services"
	"github.com/menucloud/menucloud/utils"
)

func main() {
	utils.InitLogger()

	if err := godotenv.Load(); err != nil {
		// Not fatal: production runs on real environment variables.
		utils.InfoLogger.Println("Warning: .env file not found")
	}

	cfg := config.Load()

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	store := config.InitCache(cfg)
	utils.InfoLogger.Printf("Cache backend: %s", cfg.CacheBackend)

	resolver := services.NewTenantResolver(db, cfg.BaseDomain, cfg.Environment, cfg.FallbackSubdomain)
	defer resolver.Stop()

	r := router.SetupRouter(db, store, resolver)

	utils.InfoLogger.Printf("Listening on port %s (base domain %s)", cfg.Port, cfg.BaseDomain)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Tenant{},
		&models.Settings{},
		&models.User{},
		&models.Category{},
		&models.AllergenIcon{},
		&models.MenuItem{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
