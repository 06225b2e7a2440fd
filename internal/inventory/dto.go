package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calderapos/caldera-backend/pkg/db/models"
	"github.com/calderapos/caldera-backend/pkg/enums"
)

// StockItemDTO is the transport shape for one product's stock at a location.
type StockItemDTO struct {
	ID                uuid.UUID         `json:"id"`
	ProductID         uuid.UUID         `json:"product_id"`
	ProductName       string            `json:"product_name,omitempty"`
	ProductSKU        string            `json:"product_sku,omitempty"`
	LocationID        uuid.UUID         `json:"location_id"`
	OnHandQty         decimal.Decimal   `json:"on_hand_qty"`
	Unit              enums.MeasureUnit `json:"unit"`
	LowStockThreshold decimal.Decimal   `json:"low_stock_threshold"`
	UnitCostCents     decimal.Decimal   `json:"unit_cost_cents"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// AdjustmentDTO is one immutable stock movement.
type AdjustmentDTO struct {
	ID          uuid.UUID              `json:"id"`
	StockItemID uuid.UUID              `json:"stock_item_id"`
	Delta       decimal.Decimal        `json:"delta"`
	Reason      enums.AdjustmentReason `json:"reason"`
	Note        *string                `json:"note,omitempty"`
	UserID      uuid.UUID              `json:"user_id"`
	CreatedAt   time.Time              `json:"created_at"`
}

// AdjustInput carries one requested stock adjustment.
type AdjustInput struct {
	ProductID uuid.UUID
	Delta     decimal.Decimal
	Reason    enums.AdjustmentReason
	Note      *string
	UserID    uuid.UUID

	// Unit, threshold, and cost seed the stock item when the adjustment
	// creates it; nil leaves existing rows untouched.
	Unit              *enums.MeasureUnit
	LowStockThreshold *decimal.Decimal
	UnitCostCents     *decimal.Decimal
}

// AdjustResult returns the updated stock item and the recorded movement.
type AdjustResult struct {
	StockItem  StockItemDTO  `json:"stock_item"`
	Adjustment AdjustmentDTO `json:"adjustment"`
}

// FromStockModel maps a persisted stock item into a DTO.
func FromStockModel(m *models.StockItem) *StockItemDTO {
	if m == nil {
		return nil
	}
	dto := &StockItemDTO{
		ID:                m.ID,
		ProductID:         m.ProductID,
		LocationID:        m.LocationID,
		OnHandQty:         m.OnHandQty,
		Unit:              m.Unit,
		LowStockThreshold: m.LowStockThreshold,
		UnitCostCents:     m.UnitCostCents,
		UpdatedAt:         m.UpdatedAt,
	}
	if m.Product != nil {
		dto.ProductName = m.Product.Name
		dto.ProductSKU = m.Product.SKU
	}
	return dto
}

// FromAdjustmentModel maps a persisted adjustment into a DTO.
func FromAdjustmentModel(m *models.StockAdjustment) *AdjustmentDTO {
	if m == nil {
		return nil
	}
	return &AdjustmentDTO{
		ID:          m.ID,
		StockItemID: m.StockItemID,
		Delta:       m.Delta,
		Reason:      m.Reason,
		Note:        m.Note,
		UserID:      m.UserID,
		CreatedAt:   m.CreatedAt,
	}
}
