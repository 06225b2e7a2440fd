package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/calderapos/caldera-backend/pkg/db/models"
	"github.com/calderapos/caldera-backend/pkg/enums"
	"github.com/calderapos/caldera-backend/pkg/pagination"
	"github.com/calderapos/caldera-backend/pkg/square"
)

// OrderSummaryDTO is the list-view shape for one ticket.
type OrderSummaryDTO struct {
	ID            uuid.UUID         `json:"id"`
	LocationID    uuid.UUID         `json:"location_id"`
	Number        string            `json:"number"`
	Status        enums.OrderStatus `json:"status"`
	SubtotalCents int               `json:"subtotal_cents"`
	DiscountCents int               `json:"discount_cents"`
	TaxCents      int               `json:"tax_cents"`
	TotalCents    int               `json:"total_cents"`
	PlacedAt      time.Time         `json:"placed_at"`
}

// LineItemDTO is a snapshot of a sold product at sale time.
type LineItemDTO struct {
	ID             uuid.UUID  `json:"id"`
	ProductID      *uuid.UUID `json:"product_id,omitempty"`
	Name           string     `json:"name"`
	Qty            int        `json:"qty"`
	UnitPriceCents int        `json:"unit_price_cents"`
	TotalCents     int        `json:"total_cents"`
}

// PaymentDTO is one tender applied to an order.
type PaymentDTO struct {
	ID          uuid.UUID           `json:"id"`
	Method      enums.PaymentMethod `json:"method"`
	AmountCents int                 `json:"amount_cents"`
	Status      enums.PaymentStatus `json:"status"`
	Reference   *string             `json:"reference,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// OrderDetailDTO is the full ticket with line items, payments, and the
// optional Square customer resolved from the order's customer reference.
type OrderDetailDTO struct {
	OrderSummaryDTO
	TerminalID  *uuid.UUID              `json:"terminal_id,omitempty"`
	CustomerRef *string                 `json:"customer_ref,omitempty"`
	LineItems   []LineItemDTO           `json:"line_items"`
	Payments    []PaymentDTO            `json:"payments"`
	Customer    *square.CustomerSummary `json:"customer,omitempty"`
}

// ListFilters describe order browsing filters.
type ListFilters struct {
	Status       enums.OrderStatus
	LocationID   *uuid.UUID
	PlacedAfter  *time.Time
	PlacedBefore *time.Time
}

// ListInput captures pagination plus filters for one tenant's orders.
type ListInput struct {
	TenantID   uuid.UUID
	Filters    ListFilters
	Pagination pagination.Params
}

// ListResult is one page of orders plus the cursor for the next page.
type ListResult struct {
	Orders     []OrderSummaryDTO `json:"orders"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

func summaryFromModel(m *models.Order) OrderSummaryDTO {
	return OrderSummaryDTO{
		ID:            m.ID,
		LocationID:    m.LocationID,
		Number:        m.Number,
		Status:        m.Status,
		SubtotalCents: m.SubtotalCents,
		DiscountCents: m.DiscountCents,
		TaxCents:      m.TaxCents,
		TotalCents:    m.TotalCents,
		PlacedAt:      m.PlacedAt,
	}
}

func detailFromModel(m *models.Order) *OrderDetailDTO {
	if m == nil {
		return nil
	}
	lineItems := make([]LineItemDTO, 0, len(m.LineItems))
	for _, item := range m.LineItems {
		lineItems = append(lineItems, LineItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Name:           item.Name,
			Qty:            item.Qty,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     item.TotalCents,
		})
	}
	payments := make([]PaymentDTO, 0, len(m.Payments))
	for _, payment := range m.Payments {
		payments = append(payments, PaymentDTO{
			ID:          payment.ID,
			Method:      payment.Method,
			AmountCents: payment.AmountCents,
			Status:      payment.Status,
			Reference:   payment.Reference,
			CreatedAt:   payment.CreatedAt,
		})
	}
	return &OrderDetailDTO{
		OrderSummaryDTO: summaryFromModel(m),
		TerminalID:      m.TerminalID,
		CustomerRef:     m.CustomerRef,
		LineItems:       lineItems,
		Payments:        payments,
	}
}
