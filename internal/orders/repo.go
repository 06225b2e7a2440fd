package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderapos/caldera-backend/pkg/db/models"
	"github.com/calderapos/caldera-backend/pkg/pagination"
)

// Repository reads orders. The dashboard never writes them; POS terminals do.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to order browsing.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a tenant's order with its line items and payments.
func (r *Repository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("LineItems").
		Preload("Payments").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns one cursor page of orders matching the filters, newest first.
func (r *Repository) List(ctx context.Context, input ListInput) ([]models.Order, string, error) {
	pageSize := pagination.NormalizeLimit(input.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(input.Pagination.Limit)

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("tenant_id = ?", input.TenantID)

	filters := input.Filters
	if filters.Status != "" {
		qb = qb.Where("status = ?", filters.Status)
	}
	if filters.LocationID != nil {
		qb = qb.Where("location_id = ?", *filters.LocationID)
	}
	if filters.PlacedAfter != nil {
		qb = qb.Where("placed_at >= ?", *filters.PlacedAfter)
	}
	if filters.PlacedBefore != nil {
		qb = qb.Where("placed_at < ?", *filters.PlacedBefore)
	}

	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return rows, nextCursor, nil
}
