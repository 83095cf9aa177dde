package models

import "time"

const (
	TenantStatusActive   = "active"
	TenantStatusInactive = "inactive"
)

// Tenant is the unit of data partitioning: every category, menu item,
// allergen icon and settings row belongs to exactly one tenant, and every
// cache key is namespaced by its subdomain.
type Tenant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Subdomain string    `gorm:"type:varchar(63);uniqueIndex;not null" json:"subdomain"`
	Domain    *string   `gorm:"type:varchar(255);uniqueIndex" json:"domain,omitempty"`
	Status    string    `gorm:"type:varchar(20);not null;default:active" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}
