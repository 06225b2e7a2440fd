package terminals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderapos/caldera-backend/pkg/db"
	"github.com/calderapos/caldera-backend/pkg/db/models"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
)

// Service exposes POS device registration and lifecycle operations.
type Service interface {
	Register(ctx context.Context, tenantID uuid.UUID, input RegisterTerminalInput) (*TerminalDTO, error)
	List(ctx context.Context, tenantID uuid.UUID, locationID *uuid.UUID) ([]TerminalDTO, error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
	Heartbeat(ctx context.Context, tenantID, id uuid.UUID) (*TerminalDTO, error)
}

type terminalRepository interface {
	Create(ctx context.Context, terminal *models.Terminal) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Terminal, error)
	List(ctx context.Context, tenantID uuid.UUID, locationID *uuid.UUID) ([]models.Terminal, error)
	Update(ctx context.Context, terminal *models.Terminal) error
	TouchLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error
}

type service struct {
	repo terminalRepository
}

// NewService builds a terminal service with the provided repository.
func NewService(repo terminalRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("terminal repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Register(ctx context.Context, tenantID uuid.UUID, input RegisterTerminalInput) (*TerminalDTO, error) {
	name := strings.TrimSpace(input.Name)
	deviceCode := strings.TrimSpace(input.DeviceCode)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if deviceCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "device code is required")
	}
	if input.LocationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location is required")
	}

	terminal := &models.Terminal{
		TenantID:   tenantID,
		LocationID: input.LocationID,
		Name:       name,
		DeviceCode: deviceCode,
		IsActive:   true,
	}
	if err := s.repo.Create(ctx, terminal); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "device code already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register terminal")
	}
	return FromModel(terminal), nil
}

func (s *service) List(ctx context.Context, tenantID uuid.UUID, locationID *uuid.UUID) ([]TerminalDTO, error) {
	rows, err := s.repo.List(ctx, tenantID, locationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list terminals")
	}
	dtos := make([]TerminalDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	terminal, err := s.load(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !terminal.IsActive {
		return nil
	}
	terminal.IsActive = false
	if err := s.repo.Update(ctx, terminal); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate terminal")
	}
	return nil
}

// Heartbeat stamps last-seen for an active device. Inactive devices get 409
// so a decommissioned terminal notices it should stop.
func (s *service) Heartbeat(ctx context.Context, tenantID, id uuid.UUID) (*TerminalDTO, error) {
	terminal, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !terminal.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "terminal is deactivated")
	}
	now := time.Now().UTC()
	if err := s.repo.TouchLastSeen(ctx, terminal.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record heartbeat")
	}
	terminal.LastSeenAt = &now
	return FromModel(terminal), nil
}

func (s *service) load(ctx context.Context, tenantID, id uuid.UUID) (*models.Terminal, error) {
	terminal, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "terminal not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load terminal")
	}
	return terminal, nil
}
