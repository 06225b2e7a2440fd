package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calderapos/caldera-backend/pkg/enums"
)

// Discount is a named reduction applied at the register.
type Discount struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID  uuid.UUID           `gorm:"column:tenant_id;type:uuid;not null;index"`
	Name      string              `gorm:"column:name;not null"`
	Kind      enums.DiscountKind  `gorm:"column:kind;not null"`
	Value     decimal.Decimal     `gorm:"column:value;type:numeric(12,4);not null"`
	Scope     enums.DiscountScope `gorm:"column:scope;not null;default:'order'"`
	StartsAt  *time.Time          `gorm:"column:starts_at"`
	EndsAt    *time.Time          `gorm:"column:ends_at"`
	IsActive  bool                `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
