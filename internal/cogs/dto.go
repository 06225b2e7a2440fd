package cogs

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calderapos/caldera-backend/pkg/db/models"
	"github.com/calderapos/caldera-backend/pkg/enums"
)

// IngredientDTO is the transport shape for purchasable inputs.
type IngredientDTO struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	PurchaseUnit  enums.MeasureUnit `json:"purchase_unit"`
	PackSize      decimal.Decimal   `json:"pack_size"`
	PackCostCents decimal.Decimal   `json:"pack_cost_cents"`
	UnitCostCents decimal.Decimal   `json:"unit_cost_cents"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// CreateIngredientInput holds the fields accepted on ingredient creation.
type CreateIngredientInput struct {
	Name          string
	PurchaseUnit  enums.MeasureUnit
	PackSize      decimal.Decimal
	PackCostCents decimal.Decimal
}

// UpdateIngredientInput carries partial updates; nil fields are left untouched.
type UpdateIngredientInput struct {
	Name          *string
	PurchaseUnit  *enums.MeasureUnit
	PackSize      *decimal.Decimal
	PackCostCents *decimal.Decimal
}

// RecipeComponentInput is one ingredient line in a menu item's recipe.
type RecipeComponentInput struct {
	IngredientID uuid.UUID
	Qty          decimal.Decimal
	Unit         enums.MeasureUnit
}

// ComponentCost is the costed view of one recipe line.
type ComponentCost struct {
	IngredientID   uuid.UUID         `json:"ingredient_id"`
	IngredientName string            `json:"ingredient_name"`
	Qty            decimal.Decimal   `json:"qty"`
	Unit           enums.MeasureUnit `json:"unit"`
	CostCents      decimal.Decimal   `json:"cost_cents"`
}

// MenuItemCost is the cost breakdown for one menu product.
type MenuItemCost struct {
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	ProductSKU     string          `json:"product_sku"`
	PriceCents     int             `json:"price_cents"`
	Components     []ComponentCost `json:"components"`
	TotalCostCents decimal.Decimal `json:"total_cost_cents"`
	MarginCents    decimal.Decimal `json:"margin_cents"`
	MarginPercent  decimal.Decimal `json:"margin_percent"`
}

// FromIngredientModel maps a persisted ingredient into a DTO, deriving the
// per-unit cost from pack cost and size.
func FromIngredientModel(m *models.Ingredient) *IngredientDTO {
	if m == nil {
		return nil
	}
	return &IngredientDTO{
		ID:            m.ID,
		Name:          m.Name,
		PurchaseUnit:  m.PurchaseUnit,
		PackSize:      m.PackSize,
		PackCostCents: m.PackCostCents,
		UnitCostCents: unitCostCents(m),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func unitCostCents(m *models.Ingredient) decimal.Decimal {
	if m == nil || m.PackSize.IsZero() {
		return decimal.Zero
	}
	return m.PackCostCents.Div(m.PackSize)
}
