package cogs

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderapos/caldera-backend/pkg/db/models"
)

// Repository handles ingredient and recipe persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to COGS operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateIngredient persists a new ingredient row.
func (r *Repository) CreateIngredient(ctx context.Context, ingredient *models.Ingredient) error {
	if ingredient == nil {
		return fmt.Errorf("ingredient is required")
	}
	return r.db.WithContext(ctx).Create(ingredient).Error
}

// FindIngredient loads a tenant's ingredient by its UUID.
func (r *Repository) FindIngredient(ctx context.Context, tenantID, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// ListIngredients returns the tenant's ingredients sorted by name.
func (r *Repository) ListIngredients(ctx context.Context, tenantID uuid.UUID) ([]models.Ingredient, error) {
	var rows []models.Ingredient
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateIngredient saves the provided ingredient.
func (r *Repository) UpdateIngredient(ctx context.Context, ingredient *models.Ingredient) error {
	if ingredient == nil {
		return fmt.Errorf("ingredient is required")
	}
	return r.db.WithContext(ctx).Save(ingredient).Error
}

// DeleteIngredient removes the ingredient row.
func (r *Repository) DeleteIngredient(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.Ingredient{}).Error
}

// CountRecipeUsages reports how many recipe lines reference the ingredient.
func (r *Repository) CountRecipeUsages(ctx context.Context, ingredientID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.RecipeComponent{}).
		Where("ingredient_id = ?", ingredientID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ReplaceRecipeWithTx swaps the product's recipe lines inside the transaction.
func (r *Repository) ReplaceRecipeWithTx(tx *gorm.DB, productID uuid.UUID, components []models.RecipeComponent) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if err := tx.Where("product_id = ?", productID).Delete(&models.RecipeComponent{}).Error; err != nil {
		return err
	}
	if len(components) == 0 {
		return nil
	}
	return tx.Create(&components).Error
}

// FindMenuItem loads a product with its recipe and each line's ingredient.
func (r *Repository) FindMenuItem(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Recipe.Ingredient").
		Where("tenant_id = ? AND id = ?", tenantID, productID).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListMenuItems returns the tenant's products that have at least one recipe
// line, recipes preloaded.
func (r *Repository) ListMenuItems(ctx context.Context, tenantID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).
		Preload("Recipe.Ingredient").
		Where("tenant_id = ?", tenantID).
		Where("EXISTS (SELECT 1 FROM recipe_components rc WHERE rc.product_id = products.id)").
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
