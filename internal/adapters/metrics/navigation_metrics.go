package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Sorano7/cise-sente-tool/internal/application/navigation"
)

// NavigationMetricsCollector handles position cache and pathfinding metrics
type NavigationMetricsCollector struct {
	positionLookups     *prometheus.CounterVec
	pathfindingTotal    *prometheus.CounterVec
	pathfindingDuration *prometheus.HistogramVec
}

// NewNavigationMetricsCollector creates a new navigation metrics collector
func NewNavigationMetricsCollector() *NavigationMetricsCollector {
	return &NavigationMetricsCollector{
		positionLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "position_lookups_total",
				Help:      "Arrival position lookups by cache result",
			},
			[]string{"result"},
		),

		pathfindingTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "pathfinding_requests_total",
				Help:      "Pathfinding calculations by outcome",
			},
			[]string{"outcome"},
		),

		pathfindingDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "pathfinding_duration_seconds",
				Help:      "Time from request to response, by outcome",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"outcome"},
		),
	}
}

func (c *NavigationMetricsCollector) collectors() []prometheus.Collector {
	return []prometheus.Collector{c.positionLookups, c.pathfindingTotal, c.pathfindingDuration}
}

// RecordPositionLookup counts one cache hit or miss
func (c *NavigationMetricsCollector) RecordPositionLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.positionLookups.WithLabelValues(result).Inc()
}

// RecordPathfinding counts one calculation. Skipped calculations never
// reached the solver and get no duration.
func (c *NavigationMetricsCollector) RecordPathfinding(outcome navigation.PathOutcome, duration time.Duration) {
	c.pathfindingTotal.WithLabelValues(string(outcome)).Inc()
	if outcome != navigation.OutcomeSkipped {
		c.pathfindingDuration.WithLabelValues(string(outcome)).Observe(duration.Seconds())
	}
}
