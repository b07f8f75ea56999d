package navigation

import (
	"log/slog"
	"time"
)

// Notifier raises user-visible failure notices. The rendering layer decides
// how to present them (dialog, status line, stderr).
type Notifier interface {
	NotifyFailure(message string, err error)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(message string, err error)

func (f NotifierFunc) NotifyFailure(message string, err error) {
	f(message, err)
}

// PathOutcome labels how a pathfinding attempt ended
type PathOutcome string

const (
	OutcomeInstalled PathOutcome = "installed"
	OutcomeFailed    PathOutcome = "failed"
	OutcomeStale     PathOutcome = "stale"
	OutcomeNoPath    PathOutcome = "no_path"
	OutcomeSkipped   PathOutcome = "skipped"
)

// MetricsRecorder receives navigation events for observability.
// Implementations must be safe for concurrent use.
type MetricsRecorder interface {
	RecordPositionLookup(hit bool)
	RecordPathfinding(outcome PathOutcome, duration time.Duration)
}

type nopNotifier struct{}

func (nopNotifier) NotifyFailure(string, error) {}

type nopMetrics struct{}

func (nopMetrics) RecordPositionLookup(bool) {}
func (nopMetrics) RecordPathfinding(PathOutcome, time.Duration) {}

func newNopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
