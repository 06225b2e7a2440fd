package discounts

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderapos/caldera-backend/pkg/db/models"
)

// Repository handles discount persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to discount operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new discount row.
func (r *Repository) Create(ctx context.Context, discount *models.Discount) error {
	if discount == nil {
		return fmt.Errorf("discount is required")
	}
	return r.db.WithContext(ctx).Create(discount).Error
}

// FindByID loads a tenant's discount by its UUID.
func (r *Repository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Discount, error) {
	var discount models.Discount
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&discount).Error; err != nil {
		return nil, err
	}
	return &discount, nil
}

// List returns the tenant's discounts, newest first.
func (r *Repository) List(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]models.Discount, error) {
	qb := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if activeOnly {
		qb = qb.Where("is_active = ?", true)
	}
	var rows []models.Discount
	if err := qb.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the provided discount.
func (r *Repository) Update(ctx context.Context, discount *models.Discount) error {
	if discount == nil {
		return fmt.Errorf("discount is required")
	}
	return r.db.WithContext(ctx).Save(discount).Error
}

// Delete removes the discount row.
func (r *Repository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.Discount{}).Error
}
