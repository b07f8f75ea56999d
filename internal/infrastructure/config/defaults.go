package config

import (
	"time"

	"github.com/Sorano7/cise-sente-tool/internal/domain/vessel"
)

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// API defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8001/api"
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 30 * time.Second
	}
	if cfg.API.Endpoints.Objects == "" {
		cfg.API.Endpoints.Objects = "/objects"
	}
	if cfg.API.Endpoints.Pathfind == "" {
		cfg.API.Endpoints.Pathfind = "/pathfind"
	}
	if cfg.API.Endpoints.Vessels == "" {
		cfg.API.Endpoints.Vessels = "/vessels"
	}
	if cfg.API.Endpoints.Clock == "" {
		cfg.API.Endpoints.Clock = "/datetime"
	}
	if cfg.API.RateLimit.Requests == 0 {
		cfg.API.RateLimit.Requests = 10
	}
	if cfg.API.RateLimit.Burst == 0 {
		cfg.API.RateLimit.Burst = 10
	}
	if cfg.API.Breaker.MaxFailures == 0 {
		cfg.API.Breaker.MaxFailures = 5
	}
	if cfg.API.Breaker.Cooldown == 0 {
		cfg.API.Breaker.Cooldown = 30 * time.Second
	}

	// Session defaults
	if cfg.Session.Vessel == (vessel.Config{}) {
		cfg.Session.Vessel = vessel.DefaultConfig()
	}
	if cfg.Session.Policy == (vessel.Policy{}) {
		cfg.Session.Policy = vessel.DefaultPolicy()
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
