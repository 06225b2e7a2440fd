package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderapos/caldera-backend/pkg/db/models"
	"github.com/calderapos/caldera-backend/pkg/enums"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
)

const adjustmentHistoryLimit = 50

// Service exposes inventory operations for one tenant.
type Service interface {
	ListStock(ctx context.Context, tenantID, locationID uuid.UUID) ([]StockItemDTO, error)
	ListLowStock(ctx context.Context, tenantID, locationID uuid.UUID) ([]StockItemDTO, error)
	ListAdjustments(ctx context.Context, tenantID, locationID, productID uuid.UUID) ([]AdjustmentDTO, error)
	Adjust(ctx context.Context, tenantID, locationID uuid.UUID, input AdjustInput) (*AdjustResult, error)
}

type stockRepository interface {
	ListByLocation(ctx context.Context, tenantID, locationID uuid.UUID) ([]models.StockItem, error)
	ListLowStock(ctx context.Context, tenantID, locationID uuid.UUID) ([]models.StockItem, error)
	ListAdjustments(ctx context.Context, stockItemID uuid.UUID, limit int) ([]models.StockAdjustment, error)
	Find(ctx context.Context, tenantID, productID, locationID uuid.UUID) (*models.StockItem, error)
	FindWithTx(tx *gorm.DB, tenantID, productID, locationID uuid.UUID) (*models.StockItem, error)
	CreateWithTx(tx *gorm.DB, item *models.StockItem) error
	SaveWithTx(tx *gorm.DB, item *models.StockItem) error
	CreateAdjustmentWithTx(tx *gorm.DB, adj *models.StockAdjustment) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo stockRepository
	db   txRunner
}

// NewService builds an inventory service with the provided repository and
// transaction runner.
func NewService(repo stockRepository, db txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if db == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, db: db}, nil
}

func (s *service) ListStock(ctx context.Context, tenantID, locationID uuid.UUID) ([]StockItemDTO, error) {
	items, err := s.repo.ListByLocation(ctx, tenantID, locationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock")
	}
	return toStockDTOs(items), nil
}

func (s *service) ListLowStock(ctx context.Context, tenantID, locationID uuid.UUID) ([]StockItemDTO, error) {
	items, err := s.repo.ListLowStock(ctx, tenantID, locationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock")
	}
	return toStockDTOs(items), nil
}

func (s *service) ListAdjustments(ctx context.Context, tenantID, locationID, productID uuid.UUID) ([]AdjustmentDTO, error) {
	item, err := s.repo.Find(ctx, tenantID, productID, locationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock item")
	}

	rows, err := s.repo.ListAdjustments(ctx, item.ID, adjustmentHistoryLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list adjustments")
	}
	dtos := make([]AdjustmentDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromAdjustmentModel(&rows[i]))
	}
	return dtos, nil
}

// Adjust applies one movement atomically: the stock item row and the
// immutable adjustment row commit together or not at all. A negative delta
// may not take on-hand below zero.
func (s *service) Adjust(ctx context.Context, tenantID, locationID uuid.UUID, input AdjustInput) (*AdjustResult, error) {
	if input.Delta.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta must not be zero")
	}
	if !input.Reason.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid adjustment reason")
	}
	if input.Unit != nil && !input.Unit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid measure unit")
	}

	var (
		item *models.StockItem
		adj  *models.StockAdjustment
	)

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		found, err := s.repo.FindWithTx(tx, tenantID, input.ProductID, locationID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			found, err = s.createStockItem(tx, tenantID, locationID, input)
			if err != nil {
				return err
			}
		}

		newQty := found.OnHandQty.Add(input.Delta)
		if newQty.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeConflict, "adjustment would take stock below zero")
		}
		found.OnHandQty = newQty
		if input.LowStockThreshold != nil {
			found.LowStockThreshold = *input.LowStockThreshold
		}
		if input.UnitCostCents != nil {
			found.UnitCostCents = *input.UnitCostCents
		}
		if err := s.repo.SaveWithTx(tx, found); err != nil {
			return err
		}

		movement := &models.StockAdjustment{
			StockItemID: found.ID,
			Delta:       input.Delta,
			Reason:      input.Reason,
			Note:        input.Note,
			UserID:      input.UserID,
		}
		if err := s.repo.CreateAdjustmentWithTx(tx, movement); err != nil {
			return err
		}

		item = found
		adj = movement
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust stock")
	}

	return &AdjustResult{
		StockItem:  *FromStockModel(item),
		Adjustment: *FromAdjustmentModel(adj),
	}, nil
}

func (s *service) createStockItem(tx *gorm.DB, tenantID, locationID uuid.UUID, input AdjustInput) (*models.StockItem, error) {
	unit := enums.UnitEach
	if input.Unit != nil {
		unit = *input.Unit
	}
	item := &models.StockItem{
		TenantID:   tenantID,
		ProductID:  input.ProductID,
		LocationID: locationID,
		Unit:       unit,
	}
	if input.LowStockThreshold != nil {
		item.LowStockThreshold = *input.LowStockThreshold
	}
	if input.UnitCostCents != nil {
		item.UnitCostCents = *input.UnitCostCents
	}
	if err := s.repo.CreateWithTx(tx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func toStockDTOs(items []models.StockItem) []StockItemDTO {
	dtos := make([]StockItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *FromStockModel(&items[i]))
	}
	return dtos
}
