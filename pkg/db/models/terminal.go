package models

import (
	"time"

	"github.com/google/uuid"
)

// Terminal is a registered POS device at a location.
type Terminal struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID   uuid.UUID  `gorm:"column:tenant_id;type:uuid;not null;index"`
	LocationID uuid.UUID  `gorm:"column:location_id;type:uuid;not null;index"`
	Name       string     `gorm:"column:name;not null"`
	DeviceCode string     `gorm:"column:device_code;not null;uniqueIndex"`
	IsActive   bool       `gorm:"column:is_active;not null;default:true"`
	LastSeenAt *time.Time `gorm:"column:last_seen_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
