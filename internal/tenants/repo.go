package tenants

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderapos/caldera-backend/pkg/db/models"
)

// Repository loads tenant rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to tenant lookups.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindBySlug loads the tenant identified by the X-Tenant header value.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.WithContext(ctx).
		Where("slug = ?", strings.ToLower(strings.TrimSpace(slug))).
		First(&tenant).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

// FindByID loads a tenant by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}
