package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/calderapos/caldera-backend/pkg/db"
	"github.com/calderapos/caldera-backend/pkg/db/models"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
)

var hundred = decimal.NewFromInt(100)

// Service exposes catalog operations.
type Service interface {
	Create(ctx context.Context, tenantID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ProductDTO, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, input ListInput) (*ListResult, error)
}

type productRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	List(ctx context.Context, input ListInput) ([]models.Product, string, error)
}

type service struct {
	repo productRepository
}

// NewService builds a catalog service with the provided repository.
func NewService(repo productRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, tenantID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	sku := strings.TrimSpace(input.SKU)
	name := strings.TrimSpace(input.Name)
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if err := validateTaxRate(input.TaxRatePercent); err != nil {
		return nil, err
	}

	product := &models.Product{
		TenantID:       tenantID,
		SKU:            sku,
		Name:           name,
		Description:    input.Description,
		Category:       strings.TrimSpace(input.Category),
		PriceCents:     input.PriceCents,
		TaxRatePercent: input.TaxRatePercent,
		Barcode:        input.Barcode,
		Modifiers:      toStringArray(input.Modifiers),
		IsActive:       true,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return FromModel(product), nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

func (s *service) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		product.PriceCents = *input.PriceCents
	}
	if input.TaxRatePercent != nil {
		if err := validateTaxRate(*input.TaxRatePercent); err != nil {
			return nil, err
		}
		product.TaxRatePercent = *input.TaxRatePercent
	}
	if input.Barcode != nil {
		product.Barcode = input.Barcode
	}
	if input.Modifiers != nil {
		product.Modifiers = toStringArray(*input.Modifiers)
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return FromModel(product), nil
}

func (s *service) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	product, err := s.load(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !product.IsActive {
		return nil
	}
	product.IsActive = false
	if err := s.repo.Update(ctx, product); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate product")
	}
	return nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return &ListResult{Products: dtos, NextCursor: nextCursor}, nil
}

func (s *service) load(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func validateTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return pkgerrors.New(pkgerrors.CodeValidation, "tax rate must be between 0 and 100")
	}
	return nil
}

func toStringArray(values []string) pq.StringArray {
	res := make(pq.StringArray, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}
