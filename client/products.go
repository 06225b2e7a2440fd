package client

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is one catalog entry.
type Product struct {
	ID             uuid.UUID       `json:"id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Description    *string         `json:"description,omitempty"`
	Category       string          `json:"category"`
	PriceCents     int             `json:"price_cents"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
	Barcode        *string         `json:"barcode,omitempty"`
	Modifiers      []string        `json:"modifiers"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductPage is one page of catalog results.
type ProductPage struct {
	Products   []Product `json:"products"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// ProductListParams filter and page the catalog list.
type ProductListParams struct {
	Query    string
	Category string
	IsActive *bool
	Limit    int
	Cursor   string
}

// CreateProductParams is the payload for ProductCreate.
type CreateProductParams struct {
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Description    *string         `json:"description,omitempty"`
	Category       string          `json:"category"`
	PriceCents     int             `json:"price_cents"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
	Barcode        *string         `json:"barcode,omitempty"`
	Modifiers      []string        `json:"modifiers,omitempty"`
}

// UpdateProductParams is a partial update; nil fields are left untouched.
type UpdateProductParams struct {
	Name           *string          `json:"name,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Category       *string          `json:"category,omitempty"`
	PriceCents     *int             `json:"price_cents,omitempty"`
	TaxRatePercent *decimal.Decimal `json:"tax_rate_percent,omitempty"`
	Barcode        *string          `json:"barcode,omitempty"`
	Modifiers      *[]string        `json:"modifiers,omitempty"`
	IsActive       *bool            `json:"is_active,omitempty"`
}

// ProductList pages through the catalog.
func (c *Client) ProductList(ctx context.Context, params ProductListParams) (*ProductPage, error) {
	query := url.Values{}
	if params.Query != "" {
		query.Set("q", params.Query)
	}
	if params.Category != "" {
		query.Set("category", params.Category)
	}
	if params.IsActive != nil {
		query.Set("active", strconv.FormatBool(*params.IsActive))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Cursor != "" {
		query.Set("cursor", params.Cursor)
	}

	var page ProductPage
	if err := c.get(ctx, "/products/", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ProductCreate adds a catalog entry.
func (c *Client) ProductCreate(ctx context.Context, params CreateProductParams) (*Product, error) {
	var product Product
	if err := c.post(ctx, "/products/", params, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductGet returns one catalog entry.
func (c *Client) ProductGet(ctx context.Context, id uuid.UUID) (*Product, error) {
	var product Product
	if err := c.get(ctx, "/products/"+id.String()+"/", nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductUpdate applies a partial update.
func (c *Client) ProductUpdate(ctx context.Context, id uuid.UUID, params UpdateProductParams) (*Product, error) {
	var product Product
	if err := c.patch(ctx, "/products/"+id.String()+"/", params, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductDeactivate soft-disables one catalog entry.
func (c *Client) ProductDeactivate(ctx context.Context, id uuid.UUID) error {
	return c.delete(ctx, "/products/"+id.String()+"/", nil)
}
