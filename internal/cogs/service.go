package cogs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/calderapos/caldera-backend/pkg/db/models"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
)

var oneHundred = decimal.NewFromInt(100)

// Service exposes ingredient, recipe, and cost-breakdown operations.
type Service interface {
	CreateIngredient(ctx context.Context, tenantID uuid.UUID, input CreateIngredientInput) (*IngredientDTO, error)
	ListIngredients(ctx context.Context, tenantID uuid.UUID) ([]IngredientDTO, error)
	UpdateIngredient(ctx context.Context, tenantID, id uuid.UUID, input UpdateIngredientInput) (*IngredientDTO, error)
	DeleteIngredient(ctx context.Context, tenantID, id uuid.UUID) error
	SetRecipe(ctx context.Context, tenantID, productID uuid.UUID, components []RecipeComponentInput) (*MenuItemCost, error)
	ListMenuItems(ctx context.Context, tenantID uuid.UUID) ([]MenuItemCost, error)
	GetMenuItem(ctx context.Context, tenantID, productID uuid.UUID) (*MenuItemCost, error)
}

type cogsRepository interface {
	CreateIngredient(ctx context.Context, ingredient *models.Ingredient) error
	FindIngredient(ctx context.Context, tenantID, id uuid.UUID) (*models.Ingredient, error)
	ListIngredients(ctx context.Context, tenantID uuid.UUID) ([]models.Ingredient, error)
	UpdateIngredient(ctx context.Context, ingredient *models.Ingredient) error
	DeleteIngredient(ctx context.Context, tenantID, id uuid.UUID) error
	CountRecipeUsages(ctx context.Context, ingredientID uuid.UUID) (int64, error)
	ReplaceRecipeWithTx(tx *gorm.DB, productID uuid.UUID, components []models.RecipeComponent) error
	FindMenuItem(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error)
	ListMenuItems(ctx context.Context, tenantID uuid.UUID) ([]models.Product, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo cogsRepository
	db   txRunner
}

// NewService builds a COGS service with the provided repository and
// transaction runner.
func NewService(repo cogsRepository, db txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cogs repository required")
	}
	if db == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, db: db}, nil
}

func (s *service) CreateIngredient(ctx context.Context, tenantID uuid.UUID, input CreateIngredientInput) (*IngredientDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.PurchaseUnit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid purchase unit")
	}
	if !input.PackSize.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pack size must be positive")
	}
	if input.PackCostCents.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pack cost must not be negative")
	}

	ingredient := &models.Ingredient{
		TenantID:      tenantID,
		Name:          name,
		PurchaseUnit:  input.PurchaseUnit,
		PackSize:      input.PackSize,
		PackCostCents: input.PackCostCents,
	}
	if err := s.repo.CreateIngredient(ctx, ingredient); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ingredient")
	}
	return FromIngredientModel(ingredient), nil
}

func (s *service) ListIngredients(ctx context.Context, tenantID uuid.UUID) ([]IngredientDTO, error) {
	rows, err := s.repo.ListIngredients(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ingredients")
	}
	dtos := make([]IngredientDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromIngredientModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) UpdateIngredient(ctx context.Context, tenantID, id uuid.UUID, input UpdateIngredientInput) (*IngredientDTO, error) {
	ingredient, err := s.loadIngredient(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		ingredient.Name = name
	}
	if input.PurchaseUnit != nil {
		if !input.PurchaseUnit.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid purchase unit")
		}
		ingredient.PurchaseUnit = *input.PurchaseUnit
	}
	if input.PackSize != nil {
		if !input.PackSize.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "pack size must be positive")
		}
		ingredient.PackSize = *input.PackSize
	}
	if input.PackCostCents != nil {
		if input.PackCostCents.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "pack cost must not be negative")
		}
		ingredient.PackCostCents = *input.PackCostCents
	}

	if err := s.repo.UpdateIngredient(ctx, ingredient); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update ingredient")
	}
	return FromIngredientModel(ingredient), nil
}

func (s *service) DeleteIngredient(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.loadIngredient(ctx, tenantID, id); err != nil {
		return err
	}
	usages, err := s.repo.CountRecipeUsages(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count recipe usages")
	}
	if usages > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "ingredient is used by recipes")
	}
	if err := s.repo.DeleteIngredient(ctx, tenantID, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete ingredient")
	}
	return nil
}

// SetRecipe replaces the product's recipe. Every line is validated against
// its ingredient's purchase unit before anything is written so a
// cross-family conversion never half-applies.
func (s *service) SetRecipe(ctx context.Context, tenantID, productID uuid.UUID, components []RecipeComponentInput) (*MenuItemCost, error) {
	rows := make([]models.RecipeComponent, 0, len(components))
	seen := make(map[uuid.UUID]struct{}, len(components))
	for _, component := range components {
		if _, dup := seen[component.IngredientID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate ingredient in recipe")
		}
		seen[component.IngredientID] = struct{}{}

		if !component.Qty.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "component qty must be positive")
		}
		ingredient, err := s.loadIngredient(ctx, tenantID, component.IngredientID)
		if err != nil {
			return nil, err
		}
		if _, err := ConvertQty(component.Qty, component.Unit, ingredient.PurchaseUnit); err != nil {
			return nil, err
		}
		rows = append(rows, models.RecipeComponent{
			ProductID:    productID,
			IngredientID: component.IngredientID,
			Qty:          component.Qty,
			Unit:         component.Unit,
		})
	}

	if _, err := s.repo.FindMenuItem(ctx, tenantID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.ReplaceRecipeWithTx(tx, productID, rows)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace recipe")
	}

	return s.GetMenuItem(ctx, tenantID, productID)
}

func (s *service) ListMenuItems(ctx context.Context, tenantID uuid.UUID) ([]MenuItemCost, error) {
	products, err := s.repo.ListMenuItems(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menu items")
	}
	items := make([]MenuItemCost, 0, len(products))
	for i := range products {
		cost, err := costBreakdown(&products[i])
		if err != nil {
			return nil, err
		}
		items = append(items, *cost)
	}
	return items, nil
}

func (s *service) GetMenuItem(ctx context.Context, tenantID, productID uuid.UUID) (*MenuItemCost, error) {
	product, err := s.repo.FindMenuItem(ctx, tenantID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu item")
	}
	return costBreakdown(product)
}

func (s *service) loadIngredient(ctx context.Context, tenantID, id uuid.UUID) (*models.Ingredient, error) {
	ingredient, err := s.repo.FindIngredient(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ingredient not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ingredient")
	}
	return ingredient, nil
}

// costBreakdown prices each recipe line in the ingredient's purchase unit
// and aggregates cost, margin, and margin percent against the sale price.
func costBreakdown(product *models.Product) (*MenuItemCost, error) {
	total := decimal.Zero
	components := make([]ComponentCost, 0, len(product.Recipe))
	for i := range product.Recipe {
		line := &product.Recipe[i]
		if line.Ingredient == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "recipe line missing ingredient")
		}
		qtyInPurchaseUnit, err := ConvertQty(line.Qty, line.Unit, line.Ingredient.PurchaseUnit)
		if err != nil {
			return nil, err
		}
		cost := qtyInPurchaseUnit.Mul(unitCostCents(line.Ingredient)).Round(4)
		total = total.Add(cost)
		components = append(components, ComponentCost{
			IngredientID:   line.IngredientID,
			IngredientName: line.Ingredient.Name,
			Qty:            line.Qty,
			Unit:           line.Unit,
			CostCents:      cost,
		})
	}

	price := decimal.NewFromInt(int64(product.PriceCents))
	margin := price.Sub(total)
	marginPercent := decimal.Zero
	if price.IsPositive() {
		marginPercent = margin.Div(price).Mul(oneHundred).Round(2)
	}

	return &MenuItemCost{
		ProductID:      product.ID,
		ProductName:    product.Name,
		ProductSKU:     product.SKU,
		PriceCents:     product.PriceCents,
		Components:     components,
		TotalCostCents: total.Round(2),
		MarginCents:    margin.Round(2),
		MarginPercent:  marginPercent,
	}, nil
}
