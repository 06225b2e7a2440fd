package settings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/calderapos/caldera-backend/pkg/db/models"
	"github.com/calderapos/caldera-backend/pkg/enums"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
)

// Defaults applied when a tenant has not stored a value yet.
var defaults = map[enums.SettingKey]string{
	enums.SettingReceiptHeader:  "",
	enums.SettingReceiptFooter:  "Thank you!",
	enums.SettingCurrencyCode:   "USD",
	enums.SettingTimezone:       "UTC",
	enums.SettingLowStockAlerts: "true",
}

// Service exposes the tenant settings map.
type Service interface {
	GetAll(ctx context.Context, tenantID uuid.UUID) (map[string]string, error)
	Update(ctx context.Context, tenantID uuid.UUID, values map[string]string) (map[string]string, error)
}

type settingsRepository interface {
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Setting, error)
	Upsert(ctx context.Context, tenantID uuid.UUID, key enums.SettingKey, value string) error
}

type service struct {
	repo settingsRepository
}

// NewService builds a settings service with the provided repository.
func NewService(repo settingsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

// GetAll returns the defaults overlaid with the tenant's stored values.
func (s *service) GetAll(ctx context.Context, tenantID uuid.UUID) (map[string]string, error) {
	rows, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list settings")
	}
	merged := make(map[string]string, len(defaults))
	for key, value := range defaults {
		merged[string(key)] = value
	}
	for _, row := range rows {
		merged[string(row.Key)] = row.Value
	}
	return merged, nil
}

// Update validates and upserts every provided key, then returns the full map.
func (s *service) Update(ctx context.Context, tenantID uuid.UUID, values map[string]string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no settings provided")
	}
	parsed := make(map[enums.SettingKey]string, len(values))
	for raw, value := range values {
		key, err := enums.ParseSettingKey(raw)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown setting key").
				WithDetails(map[string]any{"key": raw})
		}
		if err := validateValue(key, value); err != nil {
			return nil, err
		}
		parsed[key] = value
	}

	for key, value := range parsed {
		if err := s.repo.Upsert(ctx, tenantID, key, value); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save setting")
		}
	}
	return s.GetAll(ctx, tenantID)
}

func validateValue(key enums.SettingKey, value string) error {
	switch key {
	case enums.SettingCurrencyCode:
		if len(strings.TrimSpace(value)) != 3 {
			return pkgerrors.New(pkgerrors.CodeValidation, "currency code must be a 3-letter ISO code")
		}
	case enums.SettingTimezone:
		if _, err := time.LoadLocation(value); err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown timezone")
		}
	case enums.SettingLowStockAlerts:
		if value != "true" && value != "false" {
			return pkgerrors.New(pkgerrors.CodeValidation, "low_stock_alerts must be true or false")
		}
	}
	return nil
}
