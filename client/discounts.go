package client

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Discount is one pricing rule.
type Discount struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Kind      string          `json:"kind"`
	Value     decimal.Decimal `json:"value"`
	Scope     string          `json:"scope"`
	StartsAt  *time.Time      `json:"starts_at,omitempty"`
	EndsAt    *time.Time      `json:"ends_at,omitempty"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateDiscountParams is the payload for DiscountCreate.
type CreateDiscountParams struct {
	Name     string          `json:"name"`
	Kind     string          `json:"kind"`
	Value    decimal.Decimal `json:"value"`
	Scope    string          `json:"scope,omitempty"`
	StartsAt *time.Time      `json:"starts_at,omitempty"`
	EndsAt   *time.Time      `json:"ends_at,omitempty"`
}

// UpdateDiscountParams is a partial update; nil fields are left untouched.
type UpdateDiscountParams struct {
	Name     *string          `json:"name,omitempty"`
	Kind     *string          `json:"kind,omitempty"`
	Value    *decimal.Decimal `json:"value,omitempty"`
	Scope    *string          `json:"scope,omitempty"`
	StartsAt *time.Time       `json:"starts_at,omitempty"`
	EndsAt   *time.Time       `json:"ends_at,omitempty"`
	IsActive *bool            `json:"is_active,omitempty"`
}

// DiscountList returns the tenant's discounts.
func (c *Client) DiscountList(ctx context.Context, activeOnly bool) ([]Discount, error) {
	query := url.Values{}
	if activeOnly {
		query.Set("active", "true")
	}
	var payload struct {
		Discounts []Discount `json:"discounts"`
	}
	if err := c.get(ctx, "/discounts/", query, &payload); err != nil {
		return nil, err
	}
	return payload.Discounts, nil
}

// DiscountCreate adds a discount rule.
func (c *Client) DiscountCreate(ctx context.Context, params CreateDiscountParams) (*Discount, error) {
	var discount Discount
	if err := c.post(ctx, "/discounts/", params, &discount); err != nil {
		return nil, err
	}
	return &discount, nil
}

// DiscountGet returns one discount rule.
func (c *Client) DiscountGet(ctx context.Context, id uuid.UUID) (*Discount, error) {
	var discount Discount
	if err := c.get(ctx, "/discounts/"+id.String()+"/", nil, &discount); err != nil {
		return nil, err
	}
	return &discount, nil
}

// DiscountUpdate applies a partial update.
func (c *Client) DiscountUpdate(ctx context.Context, id uuid.UUID, params UpdateDiscountParams) (*Discount, error) {
	var discount Discount
	if err := c.patch(ctx, "/discounts/"+id.String()+"/", params, &discount); err != nil {
		return nil, err
	}
	return &discount, nil
}

// DiscountDelete removes one discount rule.
func (c *Client) DiscountDelete(ctx context.Context, id uuid.UUID) error {
	return c.delete(ctx, "/discounts/"+id.String()+"/", nil)
}
