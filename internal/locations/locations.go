package locations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderapos/caldera-backend/pkg/db/models"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
)

// LocationDTO is the transport shape for the dashboard's location picker.
type LocationDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address,omitempty"`
	Timezone  string    `json:"timezone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateLocationInput holds the fields accepted on location creation.
type CreateLocationInput struct {
	Name     string
	Address  *string
	Timezone string
}

// Repository handles location persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to location operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new location row.
func (r *Repository) Create(ctx context.Context, location *models.Location) error {
	if location == nil {
		return fmt.Errorf("location is required")
	}
	return r.db.WithContext(ctx).Create(location).Error
}

// FindByID loads a tenant's location by its UUID.
func (r *Repository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Location, error) {
	var location models.Location
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&location).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

// List returns the tenant's locations sorted by name.
func (r *Repository) List(ctx context.Context, tenantID uuid.UUID) ([]models.Location, error) {
	var rows []models.Location
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Service exposes location operations.
type Service interface {
	Create(ctx context.Context, tenantID uuid.UUID, input CreateLocationInput) (*LocationDTO, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]LocationDTO, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*LocationDTO, error)
}

type locationRepository interface {
	Create(ctx context.Context, location *models.Location) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Location, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]models.Location, error)
}

type service struct {
	repo locationRepository
}

// NewService builds a location service with the provided repository.
func NewService(repo locationRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("location repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, tenantID uuid.UUID, input CreateLocationInput) (*LocationDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	timezone := strings.TrimSpace(input.Timezone)
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown timezone")
	}

	location := &models.Location{
		TenantID: tenantID,
		Name:     name,
		Address:  input.Address,
		Timezone: timezone,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, location); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create location")
	}
	return fromModel(location), nil
}

func (s *service) List(ctx context.Context, tenantID uuid.UUID) ([]LocationDTO, error) {
	rows, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list locations")
	}
	dtos := make([]LocationDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *fromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*LocationDTO, error) {
	location, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}
	return fromModel(location), nil
}

func fromModel(m *models.Location) *LocationDTO {
	if m == nil {
		return nil
	}
	return &LocationDTO{
		ID:        m.ID,
		Name:      m.Name,
		Address:   m.Address,
		Timezone:  m.Timezone,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}
