package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderapos/caldera-backend/pkg/db/models"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
	"github.com/calderapos/caldera-backend/pkg/logger"
	"github.com/calderapos/caldera-backend/pkg/square"
)

// Service exposes read-only order browsing for the dashboard.
type Service interface {
	List(ctx context.Context, input ListInput) (*ListResult, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*OrderDetailDTO, error)
}

type orderRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, input ListInput) ([]models.Order, string, error)
}

type customerResolver interface {
	SearchCustomer(ctx context.Context, params square.CustomerSearchParams) (*square.CustomerSummary, error)
}

type service struct {
	repo   orderRepository
	square customerResolver
	logger *logger.Logger
}

// NewService builds an order browsing service. The Square resolver is
// optional; when nil, order detail omits customer enrichment.
func NewService(repo orderRepository, squareClient customerResolver, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo, square: squareClient, logger: logg}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	summaries := make([]OrderSummaryDTO, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, summaryFromModel(&rows[i]))
	}
	return &ListResult{Orders: summaries, NextCursor: nextCursor}, nil
}

// GetByID loads the full ticket. Square customer lookup is best-effort: a
// failed lookup logs and the detail is returned without enrichment.
func (s *service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*OrderDetailDTO, error) {
	order, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	detail := detailFromModel(order)
	if s.square != nil && order.CustomerRef != nil && *order.CustomerRef != "" {
		customer, err := s.square.SearchCustomer(ctx, square.CustomerSearchParams{ReferenceID: *order.CustomerRef})
		if err != nil {
			if s.logger != nil {
				s.logger.Warn(s.logger.WithField(ctx, "order_id", order.ID.String()), "square customer lookup failed")
			}
		} else {
			detail.Customer = customer
		}
	}
	return detail, nil
}
