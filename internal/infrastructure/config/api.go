package config

import "time"

// APIConfig holds the navigation backend client configuration
type APIConfig struct {
	// Base URL every endpoint prefix is appended to
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// Request timeout
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`

	Endpoints EndpointsConfig `mapstructure:"endpoints"`

	// Rate limiting settings
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	Breaker BreakerConfig `mapstructure:"breaker"`
}

// EndpointsConfig holds the path prefix of each service
type EndpointsConfig struct {
	Objects  string `mapstructure:"objects" validate:"required,startswith=/"`
	Pathfind string `mapstructure:"pathfind" validate:"required,startswith=/"`
	Vessels  string `mapstructure:"vessels" validate:"required,startswith=/"`
	Clock    string `mapstructure:"clock" validate:"required,startswith=/"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Maximum requests per second; 0 disables limiting
	Requests float64 `mapstructure:"requests" validate:"min=0"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" validate:"min=1"`
}

// BreakerConfig holds circuit breaker configuration. Requests are never
// retried; the breaker only stops hammering a service that is down.
type BreakerConfig struct {
	// Consecutive failures before opening; 0 disables the breaker
	MaxFailures int `mapstructure:"max_failures" validate:"min=0"`

	// How long the breaker stays open before probing
	Cooldown time.Duration `mapstructure:"cooldown"`
}
