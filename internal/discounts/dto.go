package discounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calderapos/caldera-backend/pkg/db/models"
	"github.com/calderapos/caldera-backend/pkg/enums"
)

// DiscountDTO is the transport shape for register discounts.
type DiscountDTO struct {
	ID        uuid.UUID           `json:"id"`
	Name      string              `json:"name"`
	Kind      enums.DiscountKind  `json:"kind"`
	Value     decimal.Decimal     `json:"value"`
	Scope     enums.DiscountScope `json:"scope"`
	StartsAt  *time.Time          `json:"starts_at,omitempty"`
	EndsAt    *time.Time          `json:"ends_at,omitempty"`
	IsActive  bool                `json:"is_active"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// CreateDiscountInput holds the fields accepted on discount creation.
type CreateDiscountInput struct {
	Name     string
	Kind     enums.DiscountKind
	Value    decimal.Decimal
	Scope    enums.DiscountScope
	StartsAt *time.Time
	EndsAt   *time.Time
}

// UpdateDiscountInput carries partial updates; nil fields are left untouched.
type UpdateDiscountInput struct {
	Name     *string
	Kind     *enums.DiscountKind
	Value    *decimal.Decimal
	Scope    *enums.DiscountScope
	StartsAt *time.Time
	EndsAt   *time.Time
	IsActive *bool
}

// FromModel maps the persisted discount into a DTO.
func FromModel(m *models.Discount) *DiscountDTO {
	if m == nil {
		return nil
	}
	return &DiscountDTO{
		ID:        m.ID,
		Name:      m.Name,
		Kind:      m.Kind,
		Value:     m.Value,
		Scope:     m.Scope,
		StartsAt:  m.StartsAt,
		EndsAt:    m.EndsAt,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
