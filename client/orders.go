package client

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// OrderSummary is one row in the order browser.
type OrderSummary struct {
	ID            uuid.UUID `json:"id"`
	LocationID    uuid.UUID `json:"location_id"`
	Number        string    `json:"number"`
	Status        string    `json:"status"`
	SubtotalCents int       `json:"subtotal_cents"`
	DiscountCents int       `json:"discount_cents"`
	TaxCents      int       `json:"tax_cents"`
	TotalCents    int       `json:"total_cents"`
	PlacedAt      time.Time `json:"placed_at"`
}

// LineItem is a snapshot of a sold product at sale time.
type LineItem struct {
	ID             uuid.UUID  `json:"id"`
	ProductID      *uuid.UUID `json:"product_id,omitempty"`
	Name           string     `json:"name"`
	Qty            int        `json:"qty"`
	UnitPriceCents int        `json:"unit_price_cents"`
	TotalCents     int        `json:"total_cents"`
}

// Payment is one tender applied to an order.
type Payment struct {
	ID          uuid.UUID `json:"id"`
	Method      string    `json:"method"`
	AmountCents int       `json:"amount_cents"`
	Status      string    `json:"status"`
	Reference   *string   `json:"reference,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Customer is the Square profile linked to an order, when resolvable.
type Customer struct {
	SquareID    string `json:"square_id"`
	GivenName   string `json:"given_name,omitempty"`
	FamilyName  string `json:"family_name,omitempty"`
	Email       string `json:"email,omitempty"`
	ReferenceID string `json:"reference_id,omitempty"`
}

// OrderDetail is the full ticket.
type OrderDetail struct {
	OrderSummary
	TerminalID  *uuid.UUID `json:"terminal_id,omitempty"`
	CustomerRef *string    `json:"customer_ref,omitempty"`
	LineItems   []LineItem `json:"line_items"`
	Payments    []Payment  `json:"payments"`
	Customer    *Customer  `json:"customer,omitempty"`
}

// OrderPage is one page of order history.
type OrderPage struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// OrderListParams filter and page the order history.
type OrderListParams struct {
	Status       string
	LocationID   *uuid.UUID
	PlacedAfter  *time.Time
	PlacedBefore *time.Time
	Limit        int
	Cursor       string
}

// OrderList pages through the order history.
func (c *Client) OrderList(ctx context.Context, params OrderListParams) (*OrderPage, error) {
	query := url.Values{}
	if params.Status != "" {
		query.Set("status", params.Status)
	}
	if params.LocationID != nil {
		query.Set("location_id", params.LocationID.String())
	}
	if params.PlacedAfter != nil {
		query.Set("placed_after", params.PlacedAfter.Format(time.RFC3339))
	}
	if params.PlacedBefore != nil {
		query.Set("placed_before", params.PlacedBefore.Format(time.RFC3339))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Cursor != "" {
		query.Set("cursor", params.Cursor)
	}

	var page OrderPage
	if err := c.get(ctx, "/orders/", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// OrderGet returns the full ticket.
func (c *Client) OrderGet(ctx context.Context, id uuid.UUID) (*OrderDetail, error) {
	var detail OrderDetail
	if err := c.get(ctx, "/orders/"+id.String()+"/", nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}
