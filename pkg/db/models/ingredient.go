package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calderapos/caldera-backend/pkg/enums"
)

// Ingredient is a purchasable input used by recipes. Cost is tracked at the
// pack level; unit cost derives from pack_cost_cents / pack_size.
type Ingredient struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID      uuid.UUID         `gorm:"column:tenant_id;type:uuid;not null;index"`
	Name          string            `gorm:"column:name;not null"`
	PurchaseUnit  enums.MeasureUnit `gorm:"column:purchase_unit;not null"`
	PackSize      decimal.Decimal   `gorm:"column:pack_size;type:numeric(14,4);not null"`
	PackCostCents decimal.Decimal   `gorm:"column:pack_cost_cents;type:numeric(12,2);not null"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// RecipeComponent links a menu product to one ingredient with a quantity.
type RecipeComponent struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID    uuid.UUID         `gorm:"column:product_id;type:uuid;not null;uniqueIndex:recipe_product_ingredient"`
	IngredientID uuid.UUID         `gorm:"column:ingredient_id;type:uuid;not null;uniqueIndex:recipe_product_ingredient"`
	Qty          decimal.Decimal   `gorm:"column:qty;type:numeric(14,4);not null"`
	Unit         enums.MeasureUnit `gorm:"column:unit;not null"`
	Ingredient   *Ingredient       `gorm:"foreignKey:IngredientID"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
}
