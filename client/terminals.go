package client

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Terminal is one registered POS device.
type Terminal struct {
	ID         uuid.UUID  `json:"id"`
	LocationID uuid.UUID  `json:"location_id"`
	Name       string     `json:"name"`
	DeviceCode string     `json:"device_code"`
	IsActive   bool       `json:"is_active"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// RegisterTerminalParams is the payload for TerminalRegister.
type RegisterTerminalParams struct {
	LocationID uuid.UUID `json:"location_id"`
	Name       string    `json:"name"`
	DeviceCode string    `json:"device_code"`
}

// TerminalList returns registered devices, optionally for one location.
func (c *Client) TerminalList(ctx context.Context, locationID *uuid.UUID) ([]Terminal, error) {
	query := url.Values{}
	if locationID != nil {
		query.Set("location_id", locationID.String())
	}
	var payload struct {
		Terminals []Terminal `json:"terminals"`
	}
	if err := c.get(ctx, "/terminals/", query, &payload); err != nil {
		return nil, err
	}
	return payload.Terminals, nil
}

// TerminalRegister enrolls a POS device.
func (c *Client) TerminalRegister(ctx context.Context, params RegisterTerminalParams) (*Terminal, error) {
	var terminal Terminal
	if err := c.post(ctx, "/terminals/", params, &terminal); err != nil {
		return nil, err
	}
	return &terminal, nil
}

// TerminalDeactivate disables a device.
func (c *Client) TerminalDeactivate(ctx context.Context, id uuid.UUID) error {
	return c.delete(ctx, "/terminals/"+id.String()+"/", nil)
}

// TerminalHeartbeat records a device check-in.
func (c *Client) TerminalHeartbeat(ctx context.Context, id uuid.UUID) (*Terminal, error) {
	var terminal Terminal
	if err := c.post(ctx, "/terminals/"+id.String()+"/heartbeat/", nil, &terminal); err != nil {
		return nil, err
	}
	return &terminal, nil
}
