package settings

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/calderapos/caldera-backend/pkg/db/models"
	"github.com/calderapos/caldera-backend/pkg/enums"
)

// Repository handles tenant settings persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to settings operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByTenant returns all stored settings rows for the tenant.
func (r *Repository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Setting, error) {
	var rows []models.Setting
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert writes one setting, replacing the value when the key exists.
func (r *Repository) Upsert(ctx context.Context, tenantID uuid.UUID, key enums.SettingKey, value string) error {
	if !key.IsValid() {
		return fmt.Errorf("invalid setting key %q", key)
	}
	setting := models.Setting{
		TenantID: tenantID,
		Key:      key,
		Value:    value,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&setting).Error
}
