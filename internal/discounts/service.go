package discounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/calderapos/caldera-backend/pkg/db/models"
	"github.com/calderapos/caldera-backend/pkg/enums"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
)

var maxPercent = decimal.NewFromInt(100)

// Service exposes discount operations.
type Service interface {
	Create(ctx context.Context, tenantID uuid.UUID, input CreateDiscountInput) (*DiscountDTO, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*DiscountDTO, error)
	List(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]DiscountDTO, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateDiscountInput) (*DiscountDTO, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type discountRepository interface {
	Create(ctx context.Context, discount *models.Discount) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Discount, error)
	List(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]models.Discount, error)
	Update(ctx context.Context, discount *models.Discount) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type service struct {
	repo discountRepository
}

// NewService builds a discount service with the provided repository.
func NewService(repo discountRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("discount repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, tenantID uuid.UUID, input CreateDiscountInput) (*DiscountDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := validateValue(input.Kind, input.Value); err != nil {
		return nil, err
	}
	scope := input.Scope
	if scope == "" {
		scope = enums.DiscountScopeOrder
	}
	if !scope.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount scope")
	}
	if err := validateWindow(input.StartsAt, input.EndsAt); err != nil {
		return nil, err
	}

	discount := &models.Discount{
		TenantID: tenantID,
		Name:     name,
		Kind:     input.Kind,
		Value:    input.Value,
		Scope:    scope,
		StartsAt: input.StartsAt,
		EndsAt:   input.EndsAt,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, discount); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create discount")
	}
	return FromModel(discount), nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*DiscountDTO, error) {
	discount, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(discount), nil
}

func (s *service) List(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]DiscountDTO, error) {
	rows, err := s.repo.List(ctx, tenantID, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list discounts")
	}
	dtos := make([]DiscountDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateDiscountInput) (*DiscountDTO, error) {
	discount, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		discount.Name = name
	}
	if input.Kind != nil {
		discount.Kind = *input.Kind
	}
	if input.Value != nil {
		discount.Value = *input.Value
	}
	if err := validateValue(discount.Kind, discount.Value); err != nil {
		return nil, err
	}
	if input.Scope != nil {
		if !input.Scope.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount scope")
		}
		discount.Scope = *input.Scope
	}
	if input.StartsAt != nil {
		discount.StartsAt = input.StartsAt
	}
	if input.EndsAt != nil {
		discount.EndsAt = input.EndsAt
	}
	if err := validateWindow(discount.StartsAt, discount.EndsAt); err != nil {
		return nil, err
	}
	if input.IsActive != nil {
		discount.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, discount); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update discount")
	}
	return FromModel(discount), nil
}

func (s *service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.load(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete discount")
	}
	return nil
}

func (s *service) load(ctx context.Context, tenantID, id uuid.UUID) (*models.Discount, error) {
	discount, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load discount")
	}
	return discount, nil
}

func validateValue(kind enums.DiscountKind, value decimal.Decimal) error {
	if !kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid discount kind")
	}
	if !value.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "value must be positive")
	}
	if kind == enums.DiscountKindPercent && value.GreaterThan(maxPercent) {
		return pkgerrors.New(pkgerrors.CodeValidation, "percent discount cannot exceed 100")
	}
	return nil
}

func validateWindow(startsAt, endsAt *time.Time) error {
	if startsAt != nil && endsAt != nil && !endsAt.After(*startsAt) {
		return pkgerrors.New(pkgerrors.CodeValidation, "ends_at must be after starts_at")
	}
	return nil
}
