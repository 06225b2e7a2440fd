package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calderapos/caldera-backend/pkg/enums"
)

// StockItem tracks the on-hand quantity for a product at one location.
type StockItem struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID          uuid.UUID         `gorm:"column:tenant_id;type:uuid;not null;index"`
	ProductID         uuid.UUID         `gorm:"column:product_id;type:uuid;not null;uniqueIndex:stock_product_location"`
	LocationID        uuid.UUID         `gorm:"column:location_id;type:uuid;not null;uniqueIndex:stock_product_location"`
	OnHandQty         decimal.Decimal   `gorm:"column:on_hand_qty;type:numeric(14,4);not null;default:0"`
	Unit              enums.MeasureUnit `gorm:"column:unit;not null;default:'each'"`
	LowStockThreshold decimal.Decimal   `gorm:"column:low_stock_threshold;type:numeric(14,4);not null;default:0"`
	UnitCostCents     decimal.Decimal   `gorm:"column:unit_cost_cents;type:numeric(12,4);not null;default:0"`
	Product           *Product          `gorm:"foreignKey:ProductID"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
}

// StockAdjustment is an immutable movement applied to a stock item.
type StockAdjustment struct {
	ID          uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StockItemID uuid.UUID              `gorm:"column:stock_item_id;type:uuid;not null;index"`
	Delta       decimal.Decimal        `gorm:"column:delta;type:numeric(14,4);not null"`
	Reason      enums.AdjustmentReason `gorm:"column:reason;not null"`
	Note        *string                `gorm:"column:note"`
	UserID      uuid.UUID              `gorm:"column:user_id;type:uuid;not null"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
}
