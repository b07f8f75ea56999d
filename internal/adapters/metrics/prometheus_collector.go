package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Sorano7/cise-sente-tool/internal/adapters/api"
	"github.com/Sorano7/cise-sente-tool/internal/application/navigation"
)

const (
	// Namespace for all metrics
	namespace = "orbitnav"
	// Subsystem for client-side metrics
	subsystem = "client"
)

var (
	_ navigation.MetricsRecorder = (*Collector)(nil)
	_ api.RequestRecorder        = (*Collector)(nil)
)

// Collector bundles every metric the navigation client exports
type Collector struct {
	*APIMetricsCollector
	*NavigationMetricsCollector
	*CommandMetricsCollector
}

// NewCollector creates unregistered collectors
func NewCollector() *Collector {
	return &Collector{
		APIMetricsCollector:        NewAPIMetricsCollector(),
		NavigationMetricsCollector: NewNavigationMetricsCollector(),
		CommandMetricsCollector:    NewCommandMetricsCollector(),
	}
}

// Register registers all metrics with reg
func (c *Collector) Register(reg prometheus.Registerer) error {
	all := append(c.APIMetricsCollector.collectors(), c.NavigationMetricsCollector.collectors()...)
	all = append(all, c.CommandMetricsCollector.collectors()...)
	for _, metric := range all {
		if err := reg.Register(metric); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry preloaded with Go runtime and process metrics
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
