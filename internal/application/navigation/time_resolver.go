package navigation

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/Sorano7/cise-sente-tool/internal/domain/chrono"
	"github.com/Sorano7/cise-sente-tool/internal/domain/shared"
)

// LaunchTarget receives launch times adopted by the TimeResolver.
//
// ResetEpoch changes whenever the target is reset. AdoptLaunchTime and
// RefreshObjectPositions apply only while the epoch they are given is still
// current, so a resolution that straddles a reset leaves the reset state alone.
type LaunchTarget interface {
	LaunchTime() float64
	ResetEpoch() uint64
	AdoptLaunchTime(epoch uint64, ts float64) bool
	RefreshObjectPositions(ctx context.Context, epoch uint64, ts float64) error
}

// TimeResolver turns free-form time expressions into launch timestamps
type TimeResolver struct {
	parser chrono.Parser
	clock  shared.Clock
	logger *slog.Logger
}

// NewTimeResolver creates a resolver backed by the clock-parsing service
func NewTimeResolver(parser chrono.Parser, clock shared.Clock, logger *slog.Logger) *TimeResolver {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if logger == nil {
		logger = newNopLogger()
	}
	return &TimeResolver{parser: parser, clock: clock, logger: logger}
}

// ResolveTime parses text and, on success, adopts the timestamp as target's
// launch time and refreshes object positions for it. Empty text means now.
//
// Any failure leaves the launch time unchanged; the returned value is then
// the current launch time and the boolean is false. The same holds when the
// target was reset while the parse was outstanding.
func (r *TimeResolver) ResolveTime(ctx context.Context, text string, target LaunchTarget) (float64, bool) {
	input := strings.TrimSpace(text)
	if input == "" {
		input = strconv.FormatFloat(shared.ResolvedTimestamp(r.clock), 'f', -1, 64)
	}

	epoch := target.ResetEpoch()
	res, err := r.parser.Parse(ctx, input)
	if err != nil {
		r.logger.Warn("time parse failed", "input", input, "error", err)
		return target.LaunchTime(), false
	}
	if res == nil || res.UnixTimestamp == nil || !isFinite(*res.UnixTimestamp) {
		r.logger.Info("time expression not understood", "input", input)
		return target.LaunchTime(), false
	}

	ts := *res.UnixTimestamp
	if !target.AdoptLaunchTime(epoch, ts) {
		r.logger.Info("discarding launch time resolved across a reset", "input", input, "launch_time", ts)
		return target.LaunchTime(), false
	}
	r.logger.Debug("launch time resolved", "input", input, "launch_time", ts)

	if err := target.RefreshObjectPositions(ctx, epoch, ts); err != nil {
		r.logger.Warn("position refresh failed", "launch_time", ts, "error", err)
	}
	return ts, true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
