package navigation

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/Sorano7/cise-sente-tool/internal/domain/objects"
	"github.com/Sorano7/cise-sente-tool/internal/domain/shared"
)

// ArrivalKey identifies a cached position: a body at an exact timestamp
type ArrivalKey struct {
	Name      string
	Timestamp float64
}

func (k ArrivalKey) String() string {
	return k.Name + "_" + strconv.FormatFloat(k.Timestamp, 'f', -1, 64)
}

// PositionCache memoises body positions per (name, timestamp).
//
// Only successful lookups are stored. Concurrent misses on the same key share
// one request. Clear starts a new epoch: lookups already in flight when the
// cache is cleared finish for their callers but are not stored, and callers
// arriving after the clear do not join them.
type PositionCache struct {
	client  objects.PositionClient
	logger  *slog.Logger
	metrics MetricsRecorder

	mu      sync.RWMutex
	entries map[ArrivalKey]shared.Position
	epoch   uint64

	flights singleflight.Group
}

// NewPositionCache creates an empty cache in front of client
func NewPositionCache(client objects.PositionClient, logger *slog.Logger, metrics MetricsRecorder) *PositionCache {
	if logger == nil {
		logger = newNopLogger()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &PositionCache{
		client:  client,
		logger:  logger,
		metrics: metrics,
		entries: make(map[ArrivalKey]shared.Position),
	}
}

// GetArrivalPosition returns the position of name at timestamp, fetching it
// on a miss. The boolean is false when the lookup failed. Non-finite
// timestamps are rejected without a lookup since they can never be read back.
func (c *PositionCache) GetArrivalPosition(ctx context.Context, name string, timestamp float64) (shared.Position, bool) {
	if !isFinite(timestamp) {
		c.logger.Warn("position lookup rejected", "object", name, "timestamp", timestamp)
		return shared.Position{}, false
	}

	key := ArrivalKey{Name: name, Timestamp: timestamp}

	c.mu.RLock()
	pos, ok := c.entries[key]
	epoch := c.epoch
	c.mu.RUnlock()

	if ok {
		c.metrics.RecordPositionLookup(true)
		return pos, true
	}
	c.metrics.RecordPositionLookup(false)

	v, err, _ := c.flights.Do(flightKey(epoch, key), func() (interface{}, error) {
		// a flight for this key may have completed since the read above
		if cached, ok := c.Peek(name, timestamp); ok {
			return cached, nil
		}

		fetched, err := c.client.GetPosition(ctx, name, timestamp)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.epoch == epoch {
			c.entries[key] = fetched
		}
		c.mu.Unlock()

		return fetched, nil
	})
	if err != nil {
		c.logger.Warn("position lookup failed", "object", name, "timestamp", timestamp, "error", err)
		return shared.Position{}, false
	}

	return v.(shared.Position), true
}

// Peek returns a cached position without fetching
func (c *PositionCache) Peek(name string, timestamp float64) (shared.Position, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pos, ok := c.entries[ArrivalKey{Name: name, Timestamp: timestamp}]
	return pos, ok
}

// Clear drops every entry
func (c *PositionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[ArrivalKey]shared.Position)
	c.epoch++
}

// Len returns the number of cached positions
func (c *PositionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Snapshot copies all cached positions
func (c *PositionCache) Snapshot() map[ArrivalKey]shared.Position {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[ArrivalKey]shared.Position, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

func flightKey(epoch uint64, key ArrivalKey) string {
	return fmt.Sprintf("%d/%s", epoch, key)
}
