package client

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ingredient is one purchasable input with derived per-unit cost.
type Ingredient struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	PurchaseUnit  string          `json:"purchase_unit"`
	PackSize      decimal.Decimal `json:"pack_size"`
	PackCostCents decimal.Decimal `json:"pack_cost_cents"`
	UnitCostCents decimal.Decimal `json:"unit_cost_cents"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateIngredientParams is the payload for IngredientCreate.
type CreateIngredientParams struct {
	Name          string          `json:"name"`
	PurchaseUnit  string          `json:"purchase_unit"`
	PackSize      decimal.Decimal `json:"pack_size"`
	PackCostCents decimal.Decimal `json:"pack_cost_cents"`
}

// UpdateIngredientParams is a partial update; nil fields are left untouched.
type UpdateIngredientParams struct {
	Name          *string          `json:"name,omitempty"`
	PurchaseUnit  *string          `json:"purchase_unit,omitempty"`
	PackSize      *decimal.Decimal `json:"pack_size,omitempty"`
	PackCostCents *decimal.Decimal `json:"pack_cost_cents,omitempty"`
}

// RecipeComponent is one ingredient line in a menu item's recipe.
type RecipeComponent struct {
	IngredientID uuid.UUID       `json:"ingredient_id"`
	Qty          decimal.Decimal `json:"qty"`
	Unit         string          `json:"unit"`
}

// ComponentCost is the costed view of one recipe line.
type ComponentCost struct {
	IngredientID   uuid.UUID       `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Qty            decimal.Decimal `json:"qty"`
	Unit           string          `json:"unit"`
	CostCents      decimal.Decimal `json:"cost_cents"`
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

type recipePutRequest struct {
	Components []RecipeComponent `json:"components"`
}

// IngredientList returns the ingredient catalog.
func (c *Client) IngredientList(ctx context.Context) ([]Ingredient, error) {
	var payload struct {
		Ingredients []Ingredient `json:"ingredients"`
	}
	if err := c.get(ctx, "/cogs/ingredients/", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Ingredients, nil
}

// IngredientCreate adds an ingredient.
func (c *Client) IngredientCreate(ctx context.Context, params CreateIngredientParams) (*Ingredient, error) {
	var ingredient Ingredient
	if err := c.post(ctx, "/cogs/ingredients/", params, &ingredient); err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// IngredientUpdate applies a partial update.
func (c *Client) IngredientUpdate(ctx context.Context, id uuid.UUID, params UpdateIngredientParams) (*Ingredient, error) {
	var ingredient Ingredient
	if err := c.patch(ctx, "/cogs/ingredients/"+id.String()+"/", params, &ingredient); err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// IngredientDelete removes an ingredient no recipe uses.
func (c *Client) IngredientDelete(ctx context.Context, id uuid.UUID) error {
	return c.delete(ctx, "/cogs/ingredients/"+id.String()+"/", nil)
}

// MenuItemList returns costed menu items.
func (c *Client) MenuItemList(ctx context.Context) ([]MenuItemCost, error) {
	var payload struct {
		MenuItems []MenuItemCost `json:"menu_items"`
	}
	if err := c.get(ctx, "/cogs/menu-items/", nil, &payload); err != nil {
		return nil, err
	}
	return payload.MenuItems, nil
}

// MenuItemGet returns the cost breakdown for one menu item.
func (c *Client) MenuItemGet(ctx context.Context, productID uuid.UUID) (*MenuItemCost, error) {
	var item MenuItemCost
	if err := c.get(ctx, "/cogs/menu-items/"+productID.String()+"/", nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// RecipeSet replaces a menu item's recipe and returns the new breakdown.
func (c *Client) RecipeSet(ctx context.Context, productID uuid.UUID, components []RecipeComponent) (*MenuItemCost, error) {
	var item MenuItemCost
	if err := c.put(ctx, "/cogs/menu-items/"+productID.String()+"/recipe/", recipePutRequest{Components: components}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}
