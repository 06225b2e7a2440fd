package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderapos/caldera-backend/pkg/db/models"
)

// Repository handles stock persistence. Mutations run inside the caller's
// transaction via the *WithTx variants.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to inventory operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByLocation returns a location's stock items with their products.
func (r *Repository) ListByLocation(ctx context.Context, tenantID, locationID uuid.UUID) ([]models.StockItem, error) {
	var items []models.StockItem
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("tenant_id = ? AND location_id = ?", tenantID, locationID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListLowStock returns the location's items at or below their threshold.
func (r *Repository) ListLowStock(ctx context.Context, tenantID, locationID uuid.UUID) ([]models.StockItem, error) {
	var items []models.StockItem
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("tenant_id = ? AND location_id = ?", tenantID, locationID).
		Where("low_stock_threshold > 0 AND on_hand_qty <= low_stock_threshold").
		Order("on_hand_qty ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListAdjustments returns the newest movements for one stock item.
func (r *Repository) ListAdjustments(ctx context.Context, stockItemID uuid.UUID, limit int) ([]models.StockAdjustment, error) {
	var rows []models.StockAdjustment
	if err := r.db.WithContext(ctx).
		Where("stock_item_id = ?", stockItemID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Find loads a stock item by its natural key.
func (r *Repository) Find(ctx context.Context, tenantID, productID, locationID uuid.UUID) (*models.StockItem, error) {
	var item models.StockItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND location_id = ?", tenantID, productID, locationID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindWithTx loads a stock item inside the transaction.
func (r *Repository) FindWithTx(tx *gorm.DB, tenantID, productID, locationID uuid.UUID) (*models.StockItem, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var item models.StockItem
	if err := tx.
		Where("tenant_id = ? AND product_id = ? AND location_id = ?", tenantID, productID, locationID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateWithTx inserts a stock item inside the transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, item *models.StockItem) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if item == nil {
		return fmt.Errorf("stock item is required")
	}
	return tx.Create(item).Error
}

// SaveWithTx persists the stock item inside the transaction.
func (r *Repository) SaveWithTx(tx *gorm.DB, item *models.StockItem) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if item == nil {
		return fmt.Errorf("stock item is required")
	}
	return tx.Save(item).Error
}

// CreateAdjustmentWithTx records the immutable movement inside the transaction.
func (r *Repository) CreateAdjustmentWithTx(tx *gorm.DB, adj *models.StockAdjustment) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if adj == nil {
		return fmt.Errorf("adjustment is required")
	}
	return tx.Create(adj).Error
}
