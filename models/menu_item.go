package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrComboSubItemConflict is returned when an item claims to be a combo
// container and a sub-item of another combo at the same time.
var ErrComboSubItemConflict = errors.New("menu item cannot be a multi-item and a sub-item at once")

// MenuItem is either a plain item, a combo container (IsMultiItem) or a
// sub-item of exactly one combo (ParentItemID set). The two roles are
// mutually exclusive, enforced in BeforeSave.
//
// PriceMin/PriceMax on a combo are derived from the live sub-item set and
// are rewritten inside the same transaction as any write that changes
// membership or a sub-item price. They are never authoritative on their own.
type MenuItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TenantID      uint      `gorm:"index;not null" json:"tenant_id"`
	CategoryID    *uint     `gorm:"index" json:"category_id,omitempty"`
	Category      *Category `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	NameAr        string    `gorm:"type:varchar(255)" json:"name_ar"`
	Description   string    `gorm:"type:text" json:"description"`
	DescriptionAr string    `gorm:"type:text" json:"description_ar"`
	Price         *float64  `gorm:"type:decimal(10,2)" json:"price,omitempty"`
	Calories      *int      `json:"calories,omitempty"`
	ImageUrl      *string   `gorm:"type:varchar(255)" json:"image_url,omitempty"`
	IsAvailable   bool      `gorm:"not null;default:true" json:"is_available"`
	SortOrder     int       `gorm:"not null;default:0" json:"sort_order"`

	IsMultiItem  bool     `gorm:"not null;default:false" json:"is_multi_item"`
	ParentItemID *uint    `gorm:"index" json:"parent_item_id,omitempty"`
	SubItemOrder int      `gorm:"not null;default:0" json:"sub_item_order"`
	PriceMin     *float64 `gorm:"type:decimal(10,2)" json:"price_min,omitempty"`
	PriceMax     *float64 `gorm:"type:decimal(10,2)" json:"price_max,omitempty"`

	Allergens []AllergenIcon `gorm:"many2many:menu_item_allergens" json:"allergens,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *MenuItem) BeforeSave(tx *gorm.DB) error {
	if m.IsMultiItem && m.ParentItemID != nil {
		return ErrComboSubItemConflict
	}
	return nil
}
