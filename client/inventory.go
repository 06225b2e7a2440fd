package client

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItem is one product's stock at the active store location.
type StockItem struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name,omitempty"`
	ProductSKU        string          `json:"product_sku,omitempty"`
	LocationID        uuid.UUID       `json:"location_id"`
	OnHandQty         decimal.Decimal `json:"on_hand_qty"`
	Unit              string          `json:"unit"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	UnitCostCents     decimal.Decimal `json:"unit_cost_cents"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// StockAdjustment is one immutable stock movement.
type StockAdjustment struct {
	ID          uuid.UUID       `json:"id"`
	StockItemID uuid.UUID       `json:"stock_item_id"`
	Delta       decimal.Decimal `json:"delta"`
	Reason      string          `json:"reason"`
	Note        *string         `json:"note,omitempty"`
	UserID      uuid.UUID       `json:"user_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AdjustStockParams is the payload for StockAdjust.
type AdjustStockParams struct {
	ProductID         uuid.UUID        `json:"product_id"`
	Delta             decimal.Decimal  `json:"delta"`
	Reason            string           `json:"reason"`
	Note              *string          `json:"note,omitempty"`
	Unit              *string          `json:"unit,omitempty"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold,omitempty"`
	UnitCostCents     *decimal.Decimal `json:"unit_cost_cents,omitempty"`
}

// AdjustStockResult is the updated item plus the recorded movement.
type AdjustStockResult struct {
	StockItem  StockItem       `json:"stock_item"`
	Adjustment StockAdjustment `json:"adjustment"`
}

type stockListEnvelope struct {
	StockItems []StockItem `json:"stock_items"`
}

// StockList returns stock at the selected store location.
func (c *Client) StockList(ctx context.Context) ([]StockItem, error) {
	var payload stockListEnvelope
	if err := c.get(ctx, "/inventory/stock/", nil, &payload); err != nil {
		return nil, err
	}
	return payload.StockItems, nil
}

// LowStockList returns items at or below their alert threshold.
func (c *Client) LowStockList(ctx context.Context) ([]StockItem, error) {
	var payload stockListEnvelope
	if err := c.get(ctx, "/inventory/stock/low/", nil, &payload); err != nil {
		return nil, err
	}
	return payload.StockItems, nil
}

// AdjustmentList returns recent movements for one product's stock.
func (c *Client) AdjustmentList(ctx context.Context, productID uuid.UUID) ([]StockAdjustment, error) {
	var payload struct {
		Adjustments []StockAdjustment `json:"adjustments"`
	}
	if err := c.get(ctx, "/inventory/stock/"+productID.String()+"/adjustments/", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Adjustments, nil
}

// StockAdjust records a stock movement.
func (c *Client) StockAdjust(ctx context.Context, params AdjustStockParams) (*AdjustStockResult, error) {
	var result AdjustStockResult
	if err := c.post(ctx, "/inventory/adjustments/", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
