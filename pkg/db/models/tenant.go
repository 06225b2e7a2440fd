package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is a business namespace; every scoped request carries its slug in
// the X-Tenant header.
type Tenant struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug         string    `gorm:"column:slug;not null;uniqueIndex"`
	Name         string    `gorm:"column:name;not null"`
	CurrencyCode string    `gorm:"column:currency_code;not null;default:'USD'"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
