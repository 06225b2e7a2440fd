package client

import "context"

type settingsEnvelope struct {
	Settings map[string]string `json:"settings"`
}

type settingsUpdateRequest struct {
	Values map[string]string `json:"values"`
}

// SettingsGet returns the tenant's settings merged over defaults.
func (c *Client) SettingsGet(ctx context.Context) (map[string]string, error) {
	var payload settingsEnvelope
	if err := c.get(ctx, "/settings/", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Settings, nil
}

// SettingsUpdate upserts the provided keys and returns the merged view.
func (c *Client) SettingsUpdate(ctx context.Context, values map[string]string) (map[string]string, error) {
	var payload settingsEnvelope
	if err := c.put(ctx, "/settings/", settingsUpdateRequest{Values: values}, &payload); err != nil {
		return nil, err
	}
	return payload.Settings, nil
}
