package navigation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/Sorano7/cise-sente-tool/internal/domain/pathfinding"
	"github.com/Sorano7/cise-sente-tool/internal/domain/route"
	"github.com/Sorano7/cise-sente-tool/internal/domain/shared"
	"github.com/Sorano7/cise-sente-tool/internal/domain/vessel"
)

var (
	// ErrStaleResult is returned when a newer request or a reset superseded
	// the call before its response arrived. The response was discarded.
	ErrStaleResult = errors.New("result superseded")

	// ErrNoPath is returned when the solver answered but produced no legs
	ErrNoPath = errors.New("solver found no path")
)

// PathfindingCoordinator submits route problems and installs their results.
//
// Every Calculate takes a new generation. A response is installed only if its
// generation is still current, so overlapping calls resolve to the most
// recently issued one regardless of completion order.
type PathfindingCoordinator struct {
	client   pathfinding.Client
	notifier Notifier
	logger   *slog.Logger
	metrics  MetricsRecorder
	clock    shared.Clock

	mu         sync.RWMutex
	generation uint64
	result     *pathfinding.Result
}

// NewPathfindingCoordinator wires a coordinator. Nil collaborators other than
// client fall back to no-op implementations.
func NewPathfindingCoordinator(
	client pathfinding.Client,
	notifier Notifier,
	logger *slog.Logger,
	metrics MetricsRecorder,
	clock shared.Clock,
) *PathfindingCoordinator {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = newNopLogger()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &PathfindingCoordinator{
		client:   client,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
		clock:    clock,
	}
}

// BuildRequest serialises a route with the vessel and policy into a solver
// request. The waypoint slice is copied.
func BuildRequest(def route.Definition, v vessel.Config, p vessel.Policy) *pathfinding.Request {
	stops := slices.Clone(def.Waypoints)
	if stops == nil {
		stops = []string{}
	}
	return &pathfinding.Request{
		Vessel:         v,
		Policy:         p,
		Origin:         def.Origin,
		Destination:    def.Destination,
		MandatoryStops: stops,
		LaunchTime:     def.LaunchTime,
	}
}

// Calculate solves def. A route without both endpoints is skipped and
// returns (nil, nil) without contacting the solver.
//
// On transport failure the current result is kept and the notifier is told.
// The route definition is never modified here.
func (c *PathfindingCoordinator) Calculate(
	ctx context.Context,
	def route.Definition,
	v vessel.Config,
	p vessel.Policy,
) (*pathfinding.Result, error) {
	if !def.Ready() {
		return c.Dispatch(ctx, 0, def, v, p)
	}
	return c.Dispatch(ctx, c.Begin(), def, v, p)
}

// Begin takes a new generation and returns it. Callers that snapshot the
// route under their own lock call Begin inside that same critical section so
// an Invalidate cannot slip between the snapshot and the generation.
func (c *PathfindingCoordinator) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	return c.generation
}

// Dispatch sends def to the solver under generation gen, taken earlier from
// Begin, and installs the answer if gen is still current.
func (c *PathfindingCoordinator) Dispatch(
	ctx context.Context,
	gen uint64,
	def route.Definition,
	v vessel.Config,
	p vessel.Policy,
) (*pathfinding.Result, error) {
	if !def.Ready() {
		c.logger.Debug("pathfinding skipped: route incomplete",
			"origin", def.Origin, "destination", def.Destination)
		c.metrics.RecordPathfinding(OutcomeSkipped, 0)
		return nil, nil
	}

	req := BuildRequest(def, v, p)

	if !c.isCurrent(gen) {
		c.logger.Info("discarding superseded pathfinding request", "generation", gen)
		c.metrics.RecordPathfinding(OutcomeStale, 0)
		return nil, ErrStaleResult
	}

	logger := c.logger.With("request_id", uuid.NewString(), "generation", gen)
	logger.Info("calculating path",
		"origin", req.Origin,
		"destination", req.Destination,
		"stops", req.MandatoryStops,
		"launch_time", req.LaunchTime)

	start := c.clock.Now()
	res, err := c.client.FindPath(ctx, req)
	elapsed := c.clock.Now().Sub(start)

	if !c.isCurrent(gen) {
		logger.Info("discarding superseded pathfinding response", "error", err)
		c.metrics.RecordPathfinding(OutcomeStale, elapsed)
		return nil, ErrStaleResult
	}

	if err != nil {
		logger.Error("pathfinding failed", "error", err)
		c.metrics.RecordPathfinding(OutcomeFailed, elapsed)
		c.notifier.NotifyFailure("Failed to calculate path.", err)
		return nil, fmt.Errorf("pathfinding %s -> %s: %w", req.Origin, req.Destination, err)
	}

	if res == nil || res.Error != "" || len(res.Legs) == 0 {
		reason := "empty response"
		if res != nil && res.Error != "" {
			reason = res.Error
		}
		logger.Warn("pathfinding returned no usable path", "reason", reason)
		c.metrics.RecordPathfinding(OutcomeNoPath, elapsed)
		return nil, fmt.Errorf("%w: %s", ErrNoPath, reason)
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		logger.Info("discarding superseded pathfinding response")
		c.metrics.RecordPathfinding(OutcomeStale, elapsed)
		return nil, ErrStaleResult
	}
	c.result = res
	c.mu.Unlock()

	logger.Info("path installed", "legs", len(res.Legs), "duration", elapsed)
	c.metrics.RecordPathfinding(OutcomeInstalled, elapsed)
	return res, nil
}

// Invalidate clears the current result and orphans every in-flight request
func (c *PathfindingCoordinator) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.result = nil
}

// Result returns the installed result, or nil
func (c *PathfindingCoordinator) Result() *pathfinding.Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result
}

// Generation returns the current request generation
func (c *PathfindingCoordinator) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

func (c *PathfindingCoordinator) isCurrent(gen uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return gen == c.generation
}
