package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Sorano7/cise-sente-tool/internal/domain/chrono"
)

var (
	_ chrono.Parser    = (*Client)(nil)
	_ chrono.Converter = (*Client)(nil)
)

// Parse asks the clock service to interpret a free-form time expression
func (c *Client) Parse(ctx context.Context, input string) (*chrono.ParseResult, error) {
	query := url.Values{}
	query.Set("input", input)

	var result chrono.ParseResult
	if err := c.request(ctx, http.MethodGet, c.endpoints.Clock+"/parse", query, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to parse time %q: %w", input, err)
	}
	return &result, nil
}

// Convert renders timestamp in every calendar the clock service knows
func (c *Client) Convert(ctx context.Context, timestamp float64) (*chrono.Conversion, error) {
	query := url.Values{}
	query.Set("timestamp", formatTimestamp(timestamp))

	var result chrono.Conversion
	if err := c.request(ctx, http.MethodGet, c.endpoints.Clock+"/convert", query, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to convert timestamp: %w", err)
	}
	return &result, nil
}
