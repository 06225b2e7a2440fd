package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calderapos/caldera-backend/pkg/db/models"
	"github.com/calderapos/caldera-backend/pkg/pagination"
)

// ProductDTO is the transport shape for catalog entries.
type ProductDTO struct {
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

// CreateProductInput holds the fields accepted on product creation.
type CreateProductInput struct {
	SKU            string
	Name           string
	Description    *string
	Category       string
	PriceCents     int
	TaxRatePercent decimal.Decimal
	Barcode        *string
	Modifiers      []string
}

// UpdateProductInput carries partial updates; nil fields are left untouched.
type UpdateProductInput struct {
	Name           *string
	Description    *string
	Category       *string
	PriceCents     *int
	TaxRatePercent *decimal.Decimal
	Barcode        *string
	Modifiers      *[]string
	IsActive       *bool
}

// ListFilters describe the supported filter knobs for the catalog list.
type ListFilters struct {
	Query    string
	Category string
	IsActive *bool
}

// ListInput captures pagination plus filters for one tenant's catalog.
type ListInput struct {
	TenantID   uuid.UUID
	Filters    ListFilters
	Pagination pagination.Params
}

// ListResult is one page of products plus the cursor for the next page.
type ListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// FromModel maps the persisted product into a DTO.
func FromModel(m *models.Product) *ProductDTO {
	if m == nil {
		return nil
	}
	modifiers := make([]string, len(m.Modifiers))
	copy(modifiers, m.Modifiers)

	return &ProductDTO{
		ID:             m.ID,
		SKU:            m.SKU,
		Name:           m.Name,
		Description:    m.Description,
		Category:       m.Category,
		PriceCents:     m.PriceCents,
		TaxRatePercent: m.TaxRatePercent,
		Barcode:        m.Barcode,
		Modifiers:      modifiers,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
