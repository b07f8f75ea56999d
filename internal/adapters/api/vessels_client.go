package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Sorano7/cise-sente-tool/internal/domain/vessel"
)

var _ vessel.PresetSource = (*Client)(nil)

// GetVesselPresets returns the named vessel presets
func (c *Client) GetVesselPresets(ctx context.Context) (vessel.Presets, error) {
	var presets vessel.Presets
	if err := c.request(ctx, http.MethodGet, c.endpoints.Vessels+"/presets", nil, nil, &presets); err != nil {
		return nil, fmt.Errorf("failed to get vessel presets: %w", err)
	}
	if presets == nil {
		presets = vessel.Presets{}
	}
	return presets, nil
}
