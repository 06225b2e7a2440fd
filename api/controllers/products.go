package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calderapos/caldera-backend/api/responses"
	"github.com/calderapos/caldera-backend/api/validators"
	"github.com/calderapos/caldera-backend/internal/products"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
	"github.com/calderapos/caldera-backend/pkg/logger"
	"github.com/calderapos/caldera-backend/pkg/pagination"
)

type productCreateRequest struct {
	SKU            string          `json:"sku" validate:"required,min=1,max=64"`
	Name           string          `json:"name" validate:"required,min=1,max=255"`
	Description    *string         `json:"description,omitempty"`
	Category       string          `json:"category" validate:"required,min=1,max=100"`
	PriceCents     int             `json:"price_cents" validate:"gte=0"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
	Barcode        *string         `json:"barcode,omitempty"`
	Modifiers      []string        `json:"modifiers,omitempty"`
}

func (r productCreateRequest) toInput() products.CreateProductInput {
	return products.CreateProductInput{
		SKU:            validators.SanitizeString(r.SKU, 64),
		Name:           validators.SanitizeString(r.Name, 255),
		Description:    r.Description,
		Category:       validators.SanitizeString(r.Category, 100),
		PriceCents:     r.PriceCents,
		TaxRatePercent: r.TaxRatePercent,
		Barcode:        r.Barcode,
		Modifiers:      r.Modifiers,
	}
}

type productUpdateRequest struct {
	Name           *string          `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description    *string          `json:"description,omitempty"`
	Category       *string          `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	PriceCents     *int             `json:"price_cents,omitempty" validate:"omitempty,gte=0"`
	TaxRatePercent *decimal.Decimal `json:"tax_rate_percent,omitempty"`
	Barcode        *string          `json:"barcode,omitempty"`
	Modifiers      *[]string        `json:"modifiers,omitempty"`
	IsActive       *bool            `json:"is_active,omitempty"`
}

func (r productUpdateRequest) toInput() products.UpdateProductInput {
	return products.UpdateProductInput{
		Name:           r.Name,
		Description:    r.Description,
		Category:       r.Category,
		PriceCents:     r.PriceCents,
		TaxRatePercent: r.TaxRatePercent,
		Barcode:        r.Barcode,
		Modifiers:      r.Modifiers,
		IsActive:       r.IsActive,
	}
}

// ProductList pages through the tenant's catalog with optional filters.
func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		tenantID, err := tenantFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		filters := products.ListFilters{
			Query:    validators.SanitizeString(query.Get("q"), 255),
			Category: validators.SanitizeString(query.Get("category"), 100),
		}
		if raw := query.Get("active"); raw != "" {
			active, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid active filter"))
				return
			}
			filters.IsActive = &active
		}

		result, err := svc.List(r.Context(), products.ListInput{
			TenantID: tenantID,
			Filters:  filters,
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: query.Get("cursor"),
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ProductCreate adds a catalog entry for the tenant.
func ProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		tenantID, err := tenantFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), tenantID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductGet returns one catalog entry.
func ProductGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		tenantID, err := tenantFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := svc.GetByID(r.Context(), tenantID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductUpdate applies a partial update to one catalog entry.
func ProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		tenantID, err := tenantFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload productUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), tenantID, id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductDeactivate soft-disables one catalog entry.
func ProductDeactivate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		tenantID, err := tenantFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		if err := svc.Deactivate(r.Context(), tenantID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}
