package client

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Location is one physical store.
type Location struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address,omitempty"`
	Timezone  string    `json:"timezone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateLocationParams is the payload for LocationCreate.
type CreateLocationParams struct {
	Name     string  `json:"name"`
	Address  *string `json:"address,omitempty"`
	Timezone string  `json:"timezone,omitempty"`
}

// LocationList returns the tenant's store locations.
func (c *Client) LocationList(ctx context.Context) ([]Location, error) {
	var payload struct {
		Locations []Location `json:"locations"`
	}
	if err := c.get(ctx, "/locations/", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Locations, nil
}

// LocationCreate adds a store location.
func (c *Client) LocationCreate(ctx context.Context, params CreateLocationParams) (*Location, error) {
	var location Location
	if err := c.post(ctx, "/locations/", params, &location); err != nil {
		return nil, err
	}
	return &location, nil
}

// LocationGet returns one store location.
func (c *Client) LocationGet(ctx context.Context, id uuid.UUID) (*Location, error) {
	var location Location
	if err := c.get(ctx, "/locations/"+id.String()+"/", nil, &location); err != nil {
		return nil, err
	}
	return &location, nil
}

// SelectLocation persists the active store location used for the
// X-Store-Location header on subsequent requests.
func (c *Client) SelectLocation(locationID uuid.UUID) error {
	if c.locations == nil {
		return nil
	}
	return c.locations.Set(locationID.String())
}
