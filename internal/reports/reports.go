package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderapos/caldera-backend/pkg/db/models"
	"github.com/calderapos/caldera-backend/pkg/enums"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
)

const maxRangeDays = 366

// SalesSummaryInput scopes the report to a tenant, date range, and
// optionally one location.
type SalesSummaryInput struct {
	TenantID   uuid.UUID
	LocationID *uuid.UUID
	From       time.Time
	To         time.Time
}

// DailySales is one day's aggregate row.
type DailySales struct {
	Day           string `json:"day"`
	OrderCount    int64  `json:"order_count"`
	GrossCents    int64  `json:"gross_cents"`
	DiscountCents int64  `json:"discount_cents"`
	TaxCents      int64  `json:"tax_cents"`
	NetCents      int64  `json:"net_cents"`
}

// SalesSummary is the report payload: per-day rows plus range totals.
type SalesSummary struct {
	From          string       `json:"from"`
	To            string       `json:"to"`
	Days          []DailySales `json:"days"`
	OrderCount    int64        `json:"order_count"`
	GrossCents    int64        `json:"gross_cents"`
	DiscountCents int64        `json:"discount_cents"`
	TaxCents      int64        `json:"tax_cents"`
	NetCents      int64        `json:"net_cents"`
}

// Repository runs report aggregation in SQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to report queries.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SalesByDay aggregates paid and refunded orders per day. Voided and open
// tickets never count toward sales.
func (r *Repository) SalesByDay(ctx context.Context, input SalesSummaryInput) ([]DailySales, error) {
	qb := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select(
			"DATE(placed_at) AS day",
			"COUNT(*) AS order_count",
			"COALESCE(SUM(subtotal_cents), 0) AS gross_cents",
			"COALESCE(SUM(discount_cents), 0) AS discount_cents",
			"COALESCE(SUM(tax_cents), 0) AS tax_cents",
			"COALESCE(SUM(total_cents), 0) AS net_cents",
		).
		Where("tenant_id = ?", input.TenantID).
		Where("status IN ?", []enums.OrderStatus{enums.OrderStatusPaid, enums.OrderStatusRefunded}).
		Where("placed_at >= ? AND placed_at < ?", input.From, input.To)

	if input.LocationID != nil {
		qb = qb.Where("location_id = ?", *input.LocationID)
	}

	var rows []DailySales
	if err := qb.Group("DATE(placed_at)").Order("day ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Service exposes report computations.
type Service interface {
	SalesSummary(ctx context.Context, input SalesSummaryInput) (*SalesSummary, error)
}

type reportRepository interface {
	SalesByDay(ctx context.Context, input SalesSummaryInput) ([]DailySales, error)
}

type service struct {
	repo reportRepository
}

// NewService builds a reports service with the provided repository.
func NewService(repo reportRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("report repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) SalesSummary(ctx context.Context, input SalesSummaryInput) (*SalesSummary, error) {
	if input.From.IsZero() || input.To.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "from and to are required")
	}
	if !input.To.After(input.From) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "to must be after from")
	}
	if input.To.Sub(input.From) > maxRangeDays*24*time.Hour {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range exceeds one year")
	}

	days, err := s.repo.SalesByDay(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute sales summary")
	}

	summary := &SalesSummary{
		From: input.From.UTC().Format("2006-01-02"),
		To:   input.To.UTC().Format("2006-01-02"),
		Days: days,
	}
	for _, day := range days {
		summary.OrderCount += day.OrderCount
		summary.GrossCents += day.GrossCents
		summary.DiscountCents += day.DiscountCents
		summary.TaxCents += day.TaxCents
		summary.NetCents += day.NetCents
	}
	return summary, nil
}
