package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Sorano7/cise-sente-tool/internal/adapters/api"
	"github.com/Sorano7/cise-sente-tool/internal/adapters/metrics"
	"github.com/Sorano7/cise-sente-tool/internal/application/navigation"
	"github.com/Sorano7/cise-sente-tool/internal/infrastructure/config"
	"github.com/Sorano7/cise-sente-tool/internal/infrastructure/logging"
)

// runtime holds everything a command needs to talk to the backend
type runtime struct {
	cfg       *config.Config
	logger    *slog.Logger
	client    *api.Client
	collector *metrics.Collector
	registry  *prometheus.Registry
	server    *http.Server
	logCloser io.Closer
}

// loadRuntime resolves configuration (file, env, then global flags) and
// builds the logger, metrics and API client from it.
func loadRuntime() (*runtime, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logger, logCloser: closer}

	opts := []api.Option{api.WithLogger(logger)}
	if cfg.Metrics.Enabled {
		rt.registry = metrics.NewRegistry()
		rt.collector = metrics.NewCollector()
		if err := rt.collector.Register(rt.registry); err != nil {
			closer.Close()
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		opts = append(opts, api.WithRecorder(rt.collector))
	}

	rt.client = api.NewClient(clientConfig(cfg.API), opts...)
	return rt, nil
}

func clientConfig(c config.APIConfig) api.ClientConfig {
	return api.ClientConfig{
		BaseURL: c.BaseURL,
		Endpoints: api.Endpoints{
			Objects:  c.Endpoints.Objects,
			Pathfind: c.Endpoints.Pathfind,
			Vessels:  c.Endpoints.Vessels,
			Clock:    c.Endpoints.Clock,
		},
		Timeout:         c.Timeout,
		RateLimit:       c.RateLimit.Requests,
		Burst:           c.RateLimit.Burst,
		BreakerFailures: c.Breaker.MaxFailures,
		BreakerCooldown: c.Breaker.Cooldown,
	}
}

// newSession creates a session over the runtime's client with the
// configured starting vessel and policy.
func (rt *runtime) newSession(notifier navigation.Notifier) (*navigation.Session, error) {
	opts := []navigation.Option{
		navigation.WithLogger(rt.logger),
		navigation.WithNotifier(notifier),
		navigation.WithVessel(rt.cfg.Session.Vessel),
		navigation.WithPolicy(rt.cfg.Session.Policy),
	}
	if rt.collector != nil {
		opts = append(opts, navigation.WithMetrics(rt.collector))
	}

	return navigation.NewSession(navigation.Dependencies{
		Pathfinder: rt.client,
		Positions:  rt.client,
		TimeParser: rt.client,
		Presets:    rt.client,
	}, opts...)
}

// loadPresets fetches presets when configured or when a preset is requested,
// then applies the requested one.
func (rt *runtime) loadPresets(ctx context.Context, session *navigation.Session, preset string) error {
	if preset == "" {
		preset = rt.cfg.Session.Preset
	}
	if preset == "" && !rt.cfg.Session.LoadPresets {
		return nil
	}
	if err := session.UpdateVesselPresets(ctx); err != nil {
		return err
	}
	if preset != "" && !session.ApplyVesselPreset(preset) {
		return fmt.Errorf("unknown vessel preset %q", preset)
	}
	return nil
}

// serveMetrics exposes the registry over HTTP until Close
func (rt *runtime) serveMetrics() {
	if rt.registry == nil {
		return
	}

	rt.server = &http.Server{
		Addr:              rt.cfg.Metrics.Address(),
		Handler:           rt.metricsRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		rt.logger.Info("metrics server listening", "address", rt.server.Addr, "path", rt.cfg.Metrics.Path)
		if err := rt.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rt.logger.Error("metrics server failed", "error", err)
		}
	}()
}

// metricsRouter serves the registry and a health probe that reports the
// backend circuit state.
func (rt *runtime) metricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Handle(rt.cfg.Metrics.Path, promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		state := rt.client.Breaker().State()
		if state == api.CircuitOpen {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		fmt.Fprintf(w, "backend circuit %s\n", state)
	})
	return r
}

// Close stops the metrics server and releases the log file
func (rt *runtime) Close() {
	if rt.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = rt.server.Shutdown(ctx)
	}
	if rt.logCloser != nil {
		_ = rt.logCloser.Close()
	}
}

// writerNotifier prints pathfinding failure notices to w
func writerNotifier(w io.Writer) navigation.Notifier {
	return navigation.NotifierFunc(func(message string, err error) {
		fmt.Fprintf(w, "✗ %s\n  %v\n", message, err)
	})
}

// colorEnabled reports whether w is a terminal that accepts ANSI styling.
// NO_COLOR and CLICOLOR_FORCE are honoured.
func colorEnabled(w io.Writer) bool {
	return termenv.NewOutput(w).EnvColorProfile() != termenv.Ascii
}
