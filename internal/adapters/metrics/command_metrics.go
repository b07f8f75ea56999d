package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CommandMetricsCollector handles metrics for interactive shell commands
type CommandMetricsCollector struct {
	commandDuration *prometheus.HistogramVec
	commandsTotal   *prometheus.CounterVec
}

// NewCommandMetricsCollector creates a new command metrics collector
func NewCommandMetricsCollector() *CommandMetricsCollector {
	return &CommandMetricsCollector{
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "command_duration_seconds",
				Help:      "Shell command execution duration distribution",
				Buckets:   []float64{0.01, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"command", "status"},
		),

		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "commands_total",
				Help:      "Total number of shell commands executed by name and status",
			},
			[]string{"command", "status"},
		),
	}
}

func (c *CommandMetricsCollector) collectors() []prometheus.Collector {
	return []prometheus.Collector{c.commandDuration, c.commandsTotal}
}

// RecordCommandExecution records one shell command
func (c *CommandMetricsCollector) RecordCommandExecution(command string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}

	c.commandDuration.WithLabelValues(command, status).Observe(duration.Seconds())
	c.commandsTotal.WithLabelValues(command, status).Inc()
}
