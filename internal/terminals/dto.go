package terminals

import (
	"time"

	"github.com/google/uuid"

	"github.com/calderapos/caldera-backend/pkg/db/models"
)

// TerminalDTO is the transport shape for registered POS devices.
type TerminalDTO struct {
	ID         uuid.UUID  `json:"id"`
	LocationID uuid.UUID  `json:"location_id"`
	Name       string     `json:"name"`
	DeviceCode string     `json:"device_code"`
	IsActive   bool       `json:"is_active"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// RegisterTerminalInput holds the fields accepted when registering a device.
type RegisterTerminalInput struct {
	LocationID uuid.UUID
	Name       string
	DeviceCode string
}

// FromModel maps the persisted terminal into a DTO.
func FromModel(m *models.Terminal) *TerminalDTO {
	if m == nil {
		return nil
	}
	return &TerminalDTO{
		ID:         m.ID,
		LocationID: m.LocationID,
		Name:       m.Name,
		DeviceCode: m.DeviceCode,
		IsActive:   m.IsActive,
		LastSeenAt: m.LastSeenAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
