package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Sorano7/cise-sente-tool/internal/domain/pathfinding"
)

var _ pathfinding.Client = (*Client)(nil)

// FindPath submits request to the solver. A solver that runs but finds no
// route answers 200 with only an error message; that comes back as a Result
// with Error set, not as a Go error.
func (c *Client) FindPath(ctx context.Context, request *pathfinding.Request) (*pathfinding.Result, error) {
	if request == nil {
		return nil, fmt.Errorf("pathfinding request failed: nil request")
	}

	var result pathfinding.Result
	if err := c.request(ctx, http.MethodPost, c.endpoints.Pathfind+"/", nil, request, &result); err != nil {
		return nil, fmt.Errorf("pathfinding request failed: %w", err)
	}
	return &result, nil
}
