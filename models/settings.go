package models

import "time"

// Settings is the 1:1 display configuration of a tenant. The public
// settings endpoint serves DefaultSettings when no row exists yet.
type Settings struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	TenantID            uint      `gorm:"uniqueIndex;not null" json:"tenant_id"`
	Currency            string    `gorm:"type:varchar(8);not null;default:SAR" json:"currency"`
	DefaultLanguage     string    `gorm:"type:varchar(8);not null;default:en" json:"default_language"`
	ShowPriceWithoutVat bool      `gorm:"not null;default:false" json:"show_price_without_vat"`
	ShowCalories        bool      `gorm:"not null;default:true" json:"show_calories"`
	BrandName           string    `gorm:"type:varchar(255)" json:"brand_name"`
	BrandColor          string    `gorm:"type:varchar(16)" json:"brand_color"`
	LogoUrl             string    `gorm:"type:varchar(255)" json:"logo_url"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// DefaultSettings is what a freshly provisioned tenant gets before its
// first settings write.
func DefaultSettings(tenantID uint) Settings {
	return Settings{
		TenantID:        tenantID,
		Currency:        "SAR",
		DefaultLanguage: "en",
		ShowCalories:    true,
	}
}
