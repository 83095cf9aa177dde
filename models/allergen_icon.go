package models

import "time"

// AllergenIcon is tenant-owned reference data attached to menu items
// (many-to-many). The public assembler expands it to the full record.
type AllergenIcon struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TenantID  uint      `gorm:"index;not null" json:"tenant_id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	NameAr    string    `gorm:"type:varchar(100)" json:"name_ar"`
	Icon      string    `gorm:"type:varchar(255)" json:"icon"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
