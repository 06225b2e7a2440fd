package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calderapos/caldera-backend/api/responses"
	"github.com/calderapos/caldera-backend/api/validators"
	"github.com/calderapos/caldera-backend/internal/cogs"
	"github.com/calderapos/caldera-backend/pkg/enums"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
	"github.com/calderapos/caldera-backend/pkg/logger"
)

type ingredientCreateRequest struct {
	Name          string          `json:"name" validate:"required,min=1,max=255"`
	PurchaseUnit  string          `json:"purchase_unit" validate:"required"`
	PackSize      decimal.Decimal `json:"pack_size"`
	PackCostCents decimal.Decimal `json:"pack_cost_cents"`
}

func (r ingredientCreateRequest) toInput() cogs.CreateIngredientInput {
	return cogs.CreateIngredientInput{
		Name:          validators.SanitizeString(r.Name, 255),
		PurchaseUnit:  enums.MeasureUnit(r.PurchaseUnit),
		PackSize:      r.PackSize,
		PackCostCents: r.PackCostCents,
	}
}

type ingredientUpdateRequest struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	PurchaseUnit  *string          `json:"purchase_unit,omitempty"`
	PackSize      *decimal.Decimal `json:"pack_size,omitempty"`
	PackCostCents *decimal.Decimal `json:"pack_cost_cents,omitempty"`
}

func (r ingredientUpdateRequest) toInput() cogs.UpdateIngredientInput {
	input := cogs.UpdateIngredientInput{
		Name:          r.Name,
		PackSize:      r.PackSize,
		PackCostCents: r.PackCostCents,
	}
	if r.PurchaseUnit != nil {
		unit := enums.MeasureUnit(*r.PurchaseUnit)
		input.PurchaseUnit = &unit
	}
	return input
}

type recipeComponentRequest struct {
	IngredientID uuid.UUID       `json:"ingredient_id" validate:"required"`
	Qty          decimal.Decimal `json:"qty"`
	Unit         string          `json:"unit" validate:"required"`
}

type recipePutRequest struct {
	Components []recipeComponentRequest `json:"components" validate:"required,dive"`
}

func (r recipePutRequest) toInput() []cogs.RecipeComponentInput {
	components := make([]cogs.RecipeComponentInput, 0, len(r.Components))
	for _, c := range r.Components {
		components = append(components, cogs.RecipeComponentInput{
			IngredientID: c.IngredientID,
			Qty:          c.Qty,
			Unit:         enums.MeasureUnit(c.Unit),
		})
	}
	return components
}

// IngredientList returns the tenant's ingredient catalog.
func IngredientList(svc cogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cogs service unavailable"))
			return
		}

		tenantID, err := tenantFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListIngredients(r.Context(), tenantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"ingredients": list})
	}
}

// IngredientCreate adds an ingredient with its purchase pack pricing.
func IngredientCreate(svc cogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cogs service unavailable"))
			return
		}

		tenantID, err := tenantFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload ingredientCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ingredient, err := svc.CreateIngredient(r.Context(), tenantID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, ingredient)
	}
}

// IngredientUpdate applies a partial update to one ingredient.
func IngredientUpdate(svc cogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cogs service unavailable"))
			return
		}

		tenantID, err := tenantFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "ingredientID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid ingredient id"))
			return
		}

		var payload ingredientUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ingredient, err := svc.UpdateIngredient(r.Context(), tenantID, id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, ingredient)
	}
}

// IngredientDelete removes an ingredient that no recipe references.
func IngredientDelete(svc cogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cogs service unavailable"))
			return
		}

		tenantID, err := tenantFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "ingredientID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid ingredient id"))
			return
		}

		if err := svc.DeleteIngredient(r.Context(), tenantID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// MenuItemList returns costed menu items, meaning products with recipes.
func MenuItemList(svc cogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cogs service unavailable"))
			return
		}

		tenantID, err := tenantFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListMenuItems(r.Context(), tenantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"menu_items": items})
	}
}

// MenuItemGet returns the cost breakdown for one menu item.
func MenuItemGet(svc cogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cogs service unavailable"))
			return
		}

		tenantID, err := tenantFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		item, err := svc.GetMenuItem(r.Context(), tenantID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// RecipePut replaces the full recipe for one menu item and returns the
// recalculated cost breakdown.
func RecipePut(svc cogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cogs service unavailable"))
			return
		}

		tenantID, err := tenantFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload recipePutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.SetRecipe(r.Context(), tenantID, productID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}
