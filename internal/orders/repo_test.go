package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/calderapos/caldera-backend/pkg/db/models"
	"github.com/calderapos/caldera-backend/pkg/enums"
	"github.com/calderapos/caldera-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  location_id TEXT NOT NULL,
  terminal_id TEXT,
  number TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'open',
  subtotal_cents INTEGER NOT NULL DEFAULT 0,
  discount_cents INTEGER NOT NULL DEFAULT 0,
  tax_cents INTEGER NOT NULL DEFAULT 0,
  total_cents INTEGER NOT NULL DEFAULT 0,
  customer_ref TEXT,
  placed_at DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	lineItems := `
CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  name TEXT NOT NULL,
  qty INTEGER NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  total_cents INTEGER NOT NULL
);`
	payments := `
CREATE TABLE IF NOT EXISTS payments (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  method TEXT NOT NULL,
  amount_cents INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  reference TEXT,
  created_at DATETIME
);`
	for _, ddl := range []string{orders, lineItems, payments} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, tenantID, locationID uuid.UUID, number string, status enums.OrderStatus, placedAt time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:         uuid.New(),
		TenantID:   tenantID,
		LocationID: locationID,
		Number:     number,
		Status:     status,
		TotalCents: 500,
		PlacedAt:   placedAt,
		CreatedAt:  placedAt,
		UpdatedAt:  placedAt,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepositoryFindByIDPreloadsChildren(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	tenantID, locationID := uuid.New(), uuid.New()
	ctx := context.Background()

	order := seedOrder(t, db, tenantID, locationID, "1001", enums.OrderStatusPaid, time.Now().UTC())
	require.NoError(t, db.Create(&models.OrderLineItem{
		ID:             uuid.New(),
		OrderID:        order.ID,
		Name:           "Latte",
		Qty:            2,
		UnitPriceCents: 500,
		TotalCents:     1000,
	}).Error)
	require.NoError(t, db.Create(&models.Payment{
		ID:          uuid.New(),
		OrderID:     order.ID,
		Method:      enums.PaymentMethodCard,
		AmountCents: 1000,
		Status:      enums.PaymentStatusCaptured,
	}).Error)

	found, err := repo.FindByID(ctx, tenantID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	require.Len(t, found.LineItems, 1)
	assert.Equal(t, "Latte", found.LineItems[0].Name)
	require.Len(t, found.Payments, 1)
	assert.Equal(t, enums.PaymentMethodCard, found.Payments[0].Method)

	// Another tenant cannot see the order.
	_, err = repo.FindByID(ctx, uuid.New(), order.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListFiltersAndPages(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	tenantID, locationID := uuid.New(), uuid.New()
	otherLocation := uuid.New()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedOrder(t, db, tenantID, locationID, fmt.Sprintf("10%02d", i), enums.OrderStatusPaid, base.Add(time.Duration(i)*time.Minute))
	}
	seedOrder(t, db, tenantID, otherLocation, "2000", enums.OrderStatusOpen, base.Add(time.Hour))

	// Status filter.
	rows, _, err := repo.List(ctx, ListInput{
		TenantID: tenantID,
		Filters:  ListFilters{Status: enums.OrderStatusOpen},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2000", rows[0].Number)

	// Location filter.
	rows, _, err = repo.List(ctx, ListInput{
		TenantID: tenantID,
		Filters:  ListFilters{LocationID: &locationID},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 5)

	// Cursor pagination, newest first.
	firstPage, cursor, err := repo.List(ctx, ListInput{
		TenantID:   tenantID,
		Pagination: pagination.Params{Limit: 4},
	})
	require.NoError(t, err)
	require.Len(t, firstPage, 4)
	require.NotEmpty(t, cursor)
	assert.Equal(t, "2000", firstPage[0].Number)

	secondPage, nextCursor, err := repo.List(ctx, ListInput{
		TenantID:   tenantID,
		Pagination: pagination.Params{Limit: 4, Cursor: cursor},
	})
	require.NoError(t, err)
	require.Len(t, secondPage, 2)
	assert.Empty(t, nextCursor)

	seen := make(map[uuid.UUID]struct{})
	for _, row := range append(firstPage, secondPage...) {
		if _, dup := seen[row.ID]; dup {
			t.Fatalf("order %s appeared on both pages", row.ID)
		}
		seen[row.ID] = struct{}{}
	}

	// Time window filter.
	after := base.Add(2 * time.Minute)
	before := base.Add(4 * time.Minute)
	rows, _, err = repo.List(ctx, ListInput{
		TenantID: tenantID,
		Filters:  ListFilters{PlacedAfter: &after, PlacedBefore: &before},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
