package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/calderapos/caldera-backend/pkg/db/models"
	"github.com/calderapos/caldera-backend/pkg/enums"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
)

type stockKey struct {
	tenantID, productID, locationID uuid.UUID
}

type stubStockRepo struct {
	items       map[stockKey]*models.StockItem
	adjustments []models.StockAdjustment
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{items: make(map[stockKey]*models.StockItem)}
}

func (s *stubStockRepo) ListByLocation(ctx context.Context, tenantID, locationID uuid.UUID) ([]models.StockItem, error) {
	var rows []models.StockItem
	for key, item := range s.items {
		if key.tenantID == tenantID && key.locationID == locationID {
			rows = append(rows, *item)
		}
	}
	return rows, nil
}

func (s *stubStockRepo) ListLowStock(ctx context.Context, tenantID, locationID uuid.UUID) ([]models.StockItem, error) {
	var rows []models.StockItem
	for key, item := range s.items {
		if key.tenantID == tenantID && key.locationID == locationID &&
			item.LowStockThreshold.IsPositive() && item.OnHandQty.LessThanOrEqual(item.LowStockThreshold) {
			rows = append(rows, *item)
		}
	}
	return rows, nil
}

func (s *stubStockRepo) ListAdjustments(ctx context.Context, stockItemID uuid.UUID, limit int) ([]models.StockAdjustment, error) {
	var rows []models.StockAdjustment
	for _, adj := range s.adjustments {
		if adj.StockItemID == stockItemID {
			rows = append(rows, adj)
		}
		if len(rows) == limit {
			break
		}
	}
	return rows, nil
}

func (s *stubStockRepo) Find(ctx context.Context, tenantID, productID, locationID uuid.UUID) (*models.StockItem, error) {
	return s.FindWithTx(nil, tenantID, productID, locationID)
}

func (s *stubStockRepo) FindWithTx(tx *gorm.DB, tenantID, productID, locationID uuid.UUID) (*models.StockItem, error) {
	item, ok := s.items[stockKey{tenantID, productID, locationID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *item
	return &clone, nil
}

func (s *stubStockRepo) CreateWithTx(tx *gorm.DB, item *models.StockItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.items[stockKey{item.TenantID, item.ProductID, item.LocationID}] = item
	return nil
}

func (s *stubStockRepo) SaveWithTx(tx *gorm.DB, item *models.StockItem) error {
	s.items[stockKey{item.TenantID, item.ProductID, item.LocationID}] = item
	return nil
}

func (s *stubStockRepo) CreateAdjustmentWithTx(tx *gorm.DB, adj *models.StockAdjustment) error {
	if adj.ID == uuid.Nil {
		adj.ID = uuid.New()
	}
	s.adjustments = append(s.adjustments, *adj)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func adjustErrCode(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	apiErr := pkgerrors.As(err)
	if apiErr == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	return apiErr.Code()
}

func TestAdjustValidation(t *testing.T) {
	svc, err := NewService(newStubStockRepo(), stubTxRunner{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	tenantID, locationID := uuid.New(), uuid.New()
	ctx := context.Background()

	_, err = svc.Adjust(ctx, tenantID, locationID, AdjustInput{
		ProductID: uuid.New(),
		Delta:     decimal.Zero,
		Reason:    enums.AdjustmentReasonReceived,
	})
	if err == nil || adjustErrCode(t, err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for zero delta, got %v", err)
	}

	_, err = svc.Adjust(ctx, tenantID, locationID, AdjustInput{
		ProductID: uuid.New(),
		Delta:     decimal.NewFromInt(1),
		Reason:    enums.AdjustmentReason("shrinkage"),
	})
	if err == nil || adjustErrCode(t, err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown reason, got %v", err)
	}
}

func TestAdjustCreatesStockItemOnFirstMovement(t *testing.T) {
	repo := newStubStockRepo()
	svc, _ := NewService(repo, stubTxRunner{})
	tenantID, locationID, productID := uuid.New(), uuid.New(), uuid.New()
	userID := uuid.New()
	unit := enums.UnitKilogram
	threshold := decimal.NewFromInt(2)

	result, err := svc.Adjust(context.Background(), tenantID, locationID, AdjustInput{
		ProductID:         productID,
		Delta:             decimal.NewFromInt(10),
		Reason:            enums.AdjustmentReasonReceived,
		UserID:            userID,
		Unit:              &unit,
		LowStockThreshold: &threshold,
	})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if !result.StockItem.OnHandQty.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected on hand 10, got %s", result.StockItem.OnHandQty)
	}
	if result.StockItem.Unit != enums.UnitKilogram {
		t.Fatalf("expected seeded unit, got %s", result.StockItem.Unit)
	}
	if result.Adjustment.UserID != userID {
		t.Fatalf("expected movement attributed to user")
	}
	if len(repo.adjustments) != 1 {
		t.Fatalf("expected one recorded movement, got %d", len(repo.adjustments))
	}
}

func TestAdjustRejectsBelowZero(t *testing.T) {
	repo := newStubStockRepo()
	svc, _ := NewService(repo, stubTxRunner{})
	tenantID, locationID, productID := uuid.New(), uuid.New(), uuid.New()
	ctx := context.Background()

	if _, err := svc.Adjust(ctx, tenantID, locationID, AdjustInput{
		ProductID: productID,
		Delta:     decimal.NewFromInt(5),
		Reason:    enums.AdjustmentReasonReceived,
		UserID:    uuid.New(),
	}); err != nil {
		t.Fatalf("seed stock: %v", err)
	}

	_, err := svc.Adjust(ctx, tenantID, locationID, AdjustInput{
		ProductID: productID,
		Delta:     decimal.NewFromInt(-6),
		Reason:    enums.AdjustmentReasonWaste,
		UserID:    uuid.New(),
	})
	if err == nil {
		t.Fatalf("expected below-zero adjustment to fail")
	}
	if code := adjustErrCode(t, err); code != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %s", code)
	}

	// The failed movement must not be recorded and on-hand stays at 5.
	if len(repo.adjustments) != 1 {
		t.Fatalf("expected single movement, got %d", len(repo.adjustments))
	}
	item, err := repo.Find(ctx, tenantID, productID, locationID)
	if err != nil {
		t.Fatalf("find stock: %v", err)
	}
	if !item.OnHandQty.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected on hand 5, got %s", item.OnHandQty)
	}
}

func TestAdjustAccumulates(t *testing.T) {
	repo := newStubStockRepo()
	svc, _ := NewService(repo, stubTxRunner{})
	tenantID, locationID, productID := uuid.New(), uuid.New(), uuid.New()
	ctx := context.Background()

	deltas := []string{"10", "-3", "2.5"}
	reasons := []enums.AdjustmentReason{enums.AdjustmentReasonReceived, enums.AdjustmentReasonSale, enums.AdjustmentReasonCount}
	for i, delta := range deltas {
		if _, err := svc.Adjust(ctx, tenantID, locationID, AdjustInput{
			ProductID: productID,
			Delta:     decimal.RequireFromString(delta),
			Reason:    reasons[i],
			UserID:    uuid.New(),
		}); err != nil {
			t.Fatalf("adjust %s: %v", delta, err)
		}
	}

	item, err := repo.Find(ctx, tenantID, productID, locationID)
	if err != nil {
		t.Fatalf("find stock: %v", err)
	}
	if want := decimal.RequireFromString("9.5"); !item.OnHandQty.Equal(want) {
		t.Fatalf("expected on hand %s, got %s", want, item.OnHandQty)
	}

	history, err := svc.ListAdjustments(ctx, tenantID, locationID, productID)
	if err != nil {
		t.Fatalf("list adjustments: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 movements, got %d", len(history))
	}
}

func TestListAdjustmentsUnknownProduct(t *testing.T) {
	svc, _ := NewService(newStubStockRepo(), stubTxRunner{})

	_, err := svc.ListAdjustments(context.Background(), uuid.New(), uuid.New(), uuid.New())
	if err == nil {
		t.Fatalf("expected not found error")
	}
	if code := adjustErrCode(t, err); code != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %s", code)
	}
}

func TestListLowStockFiltersByThreshold(t *testing.T) {
	repo := newStubStockRepo()
	svc, _ := NewService(repo, stubTxRunner{})
	tenantID, locationID := uuid.New(), uuid.New()
	ctx := context.Background()

	threshold := decimal.NewFromInt(5)
	lowProduct, okProduct := uuid.New(), uuid.New()
	if _, err := svc.Adjust(ctx, tenantID, locationID, AdjustInput{
		ProductID: lowProduct, Delta: decimal.NewFromInt(3), Reason: enums.AdjustmentReasonReceived,
		UserID: uuid.New(), LowStockThreshold: &threshold,
	}); err != nil {
		t.Fatalf("seed low stock: %v", err)
	}
	if _, err := svc.Adjust(ctx, tenantID, locationID, AdjustInput{
		ProductID: okProduct, Delta: decimal.NewFromInt(50), Reason: enums.AdjustmentReasonReceived,
		UserID: uuid.New(), LowStockThreshold: &threshold,
	}); err != nil {
		t.Fatalf("seed healthy stock: %v", err)
	}

	low, err := svc.ListLowStock(ctx, tenantID, locationID)
	if err != nil {
		t.Fatalf("list low stock: %v", err)
	}
	if len(low) != 1 || low[0].ProductID != lowProduct {
		t.Fatalf("expected only the low item, got %+v", low)
	}
}
