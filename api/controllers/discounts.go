package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calderapos/caldera-backend/api/responses"
	"github.com/calderapos/caldera-backend/api/validators"
	"github.com/calderapos/caldera-backend/internal/discounts"
	"github.com/calderapos/caldera-backend/pkg/enums"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
	"github.com/calderapos/caldera-backend/pkg/logger"
)

type discountCreateRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=255"`
	Kind     string          `json:"kind" validate:"required,oneof=percent amount"`
	Value    decimal.Decimal `json:"value"`
	Scope    string          `json:"scope,omitempty" validate:"omitempty,oneof=order item"`
	StartsAt *time.Time      `json:"starts_at,omitempty"`
	EndsAt   *time.Time      `json:"ends_at,omitempty"`
}

func (r discountCreateRequest) toInput() discounts.CreateDiscountInput {
	return discounts.CreateDiscountInput{
		Name:     validators.SanitizeString(r.Name, 255),
		Kind:     enums.DiscountKind(r.Kind),
		Value:    r.Value,
		Scope:    enums.DiscountScope(r.Scope),
		StartsAt: r.StartsAt,
		EndsAt:   r.EndsAt,
	}
}

type discountUpdateRequest struct {
	Name     *string          `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Kind     *string          `json:"kind,omitempty" validate:"omitempty,oneof=percent amount"`
	Value    *decimal.Decimal `json:"value,omitempty"`
	Scope    *string          `json:"scope,omitempty" validate:"omitempty,oneof=order item"`
	StartsAt *time.Time       `json:"starts_at,omitempty"`
	EndsAt   *time.Time       `json:"ends_at,omitempty"`
	IsActive *bool            `json:"is_active,omitempty"`
}

func (r discountUpdateRequest) toInput() discounts.UpdateDiscountInput {
	input := discounts.UpdateDiscountInput{
		Name:     r.Name,
		Value:    r.Value,
		StartsAt: r.StartsAt,
		EndsAt:   r.EndsAt,
		IsActive: r.IsActive,
	}
	if r.Kind != nil {
		kind := enums.DiscountKind(*r.Kind)
		input.Kind = &kind
	}
	if r.Scope != nil {
		scope := enums.DiscountScope(*r.Scope)
		input.Scope = &scope
	}
	return input
}

// DiscountList returns the tenant's discounts, optionally active ones only.
func DiscountList(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		tenantID, err := tenantFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		activeOnly, err := validators.ParseQueryBool(r, "active", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), tenantID, activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"discounts": list})
	}
}

// DiscountCreate adds a discount rule for the tenant.
func DiscountCreate(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		tenantID, err := tenantFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload discountCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discount, err := svc.Create(r.Context(), tenantID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, discount)
	}
}

// DiscountGet returns one discount rule.
func DiscountGet(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		tenantID, err := tenantFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "discountID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount id"))
			return
		}

		discount, err := svc.GetByID(r.Context(), tenantID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, discount)
	}
}

// DiscountUpdate applies a partial update to one discount rule.
func DiscountUpdate(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		tenantID, err := tenantFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "discountID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount id"))
			return
		}

		var payload discountUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discount, err := svc.Update(r.Context(), tenantID, id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, discount)
	}
}

// DiscountDelete removes one discount rule.
func DiscountDelete(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		tenantID, err := tenantFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "discountID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount id"))
			return
		}

		if err := svc.Delete(r.Context(), tenantID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
