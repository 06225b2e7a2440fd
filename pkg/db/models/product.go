package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is a sellable catalog entry.
type Product struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID       uuid.UUID         `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:products_tenant_sku"`
	SKU            string            `gorm:"column:sku;not null;uniqueIndex:products_tenant_sku"`
	Name           string            `gorm:"column:name;not null"`
	Description    *string           `gorm:"column:description"`
	Category       string            `gorm:"column:category;not null;default:''"`
	PriceCents     int               `gorm:"column:price_cents;not null"`
	TaxRatePercent decimal.Decimal   `gorm:"column:tax_rate_percent;type:numeric(5,2);not null;default:0"`
	Barcode        *string           `gorm:"column:barcode"`
	Modifiers      pq.StringArray    `gorm:"column:modifiers;type:text[];not null;default:ARRAY[]::text[]"`
	IsActive       bool              `gorm:"column:is_active;not null;default:true"`
	Recipe         []RecipeComponent `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
