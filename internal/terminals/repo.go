package terminals

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderapos/caldera-backend/pkg/db/models"
)

// Repository handles terminal persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to terminal operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new terminal row.
func (r *Repository) Create(ctx context.Context, terminal *models.Terminal) error {
	if terminal == nil {
		return fmt.Errorf("terminal is required")
	}
	return r.db.WithContext(ctx).Create(terminal).Error
}

// FindByID loads a tenant's terminal by its UUID.
func (r *Repository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Terminal, error) {
	var terminal models.Terminal
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&terminal).Error; err != nil {
		return nil, err
	}
	return &terminal, nil
}

// List returns the tenant's terminals, optionally scoped to one location.
func (r *Repository) List(ctx context.Context, tenantID uuid.UUID, locationID *uuid.UUID) ([]models.Terminal, error) {
	qb := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if locationID != nil {
		qb = qb.Where("location_id = ?", *locationID)
	}
	var rows []models.Terminal
	if err := qb.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the provided terminal.
func (r *Repository) Update(ctx context.Context, terminal *models.Terminal) error {
	if terminal == nil {
		return fmt.Errorf("terminal is required")
	}
	return r.db.WithContext(ctx).Save(terminal).Error
}

// TouchLastSeen stamps the device heartbeat without rewriting the row.
func (r *Repository) TouchLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Terminal{}).
		Where("id = ?", id).
		UpdateColumn("last_seen_at", at).Error
}
