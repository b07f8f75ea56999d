package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Sorano7/cise-sente-tool/internal/domain/objects"
	"github.com/Sorano7/cise-sente-tool/internal/domain/shared"
)

var _ objects.PositionClient = (*Client)(nil)

// GetPosition returns a body's position at timestamp. Unknown names fail
// with a 404 StatusError.
func (c *Client) GetPosition(ctx context.Context, name string, timestamp float64) (shared.Position, error) {
	query := url.Values{}
	query.Set("name", name)
	query.Set("timestamp", formatTimestamp(timestamp))

	var response struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := c.request(ctx, http.MethodGet, c.endpoints.Objects+"/position", query, nil, &response); err != nil {
		return shared.Position{}, fmt.Errorf("failed to get position of %s: %w", name, err)
	}
	if response.X == nil || response.Y == nil {
		return shared.Position{}, fmt.Errorf("failed to get position of %s: incomplete response", name)
	}

	return shared.Position{X: *response.X, Y: *response.Y}, nil
}

// ListPositions returns every known body at timestamp
func (c *Client) ListPositions(ctx context.Context, timestamp float64) (objects.Catalog, error) {
	query := url.Values{}
	query.Set("timestamp", formatTimestamp(timestamp))

	var catalog objects.Catalog
	if err := c.request(ctx, http.MethodGet, c.endpoints.Objects+"/positions", query, nil, &catalog); err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	if catalog == nil {
		catalog = objects.Catalog{}
	}
	return catalog, nil
}

// ListObjects returns the names of every known body
func (c *Client) ListObjects(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.request(ctx, http.MethodGet, c.endpoints.Objects+"/", nil, nil, &names); err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	return names, nil
}

func formatTimestamp(ts float64) string {
	return strconv.FormatFloat(ts, 'f', -1, 64)
}
