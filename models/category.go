package models

import "time"

// Category groups menu items inside one tenant. Value is the stable slug
// referenced by clients; Label/LabelAr are the localized display names.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TenantID  uint      `gorm:"index;not null" json:"tenant_id"`
	Value     string    `gorm:"type:varchar(100);not null" json:"value"`
	Label     string    `gorm:"type:varchar(255);not null" json:"label"`
	LabelAr   string    `gorm:"type:varchar(255)" json:"label_ar"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
