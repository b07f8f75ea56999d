package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Sorano7/cise-sente-tool/internal/domain/shared"
)

const (
	DefaultBaseURL = "http://localhost:8001/api"
	defaultTimeout = 30 * time.Second
)

// Endpoints are the service prefixes below the base URL
type Endpoints struct {
	Objects  string
	Pathfind string
	Vessels  string
	Clock    string
}

// DefaultEndpoints matches the navigation backend's router layout
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Objects:  "/objects",
		Pathfind: "/pathfind",
		Vessels:  "/vessels",
		Clock:    "/datetime",
	}
}

// RequestRecorder observes every completed request. StatusCode is 0 when no
// response was received.
type RequestRecorder interface {
	RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration)
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("Code %d", e.Code)
	}
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// IsNotFound reports whether err is a 404 from the service
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// ClientConfig tunes the transport
type ClientConfig struct {
	BaseURL   string
	Endpoints Endpoints
	Timeout   time.Duration
	// RateLimit is requests per second; zero disables limiting
	RateLimit float64
	Burst     int
	// BreakerFailures consecutive failures open the breaker; zero disables it
	BreakerFailures int
	BreakerCooldown time.Duration
}

// Option customises a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithClock injects the clock used for timings and the breaker cooldown
func WithClock(clock shared.Clock) Option {
	return func(c *Client) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithRecorder reports request outcomes to r
func WithRecorder(r RequestRecorder) Option {
	return func(c *Client) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithLogger sets the request logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client talks JSON to the objects, pathfinding, vessels and clock services.
// Each call is a single attempt; failures are returned to the caller.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	breaker     *CircuitBreaker
	baseURL     string
	endpoints   Endpoints
	clock       shared.Clock
	recorder    RequestRecorder
	logger      *slog.Logger
}

// NewClient creates a client. Zero-valued config fields fall back to defaults.
func NewClient(cfg ClientConfig, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Endpoints == (Endpoints{}) {
		cfg.Endpoints = DefaultEndpoints()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		endpoints:  cfg.Endpoints,
		clock:      shared.NewRealClock(),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.rateLimiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	c.breaker = NewCircuitBreaker(cfg.BreakerFailures, cfg.BreakerCooldown, c.clock)
	return c
}

// Breaker exposes the circuit breaker state
func (c *Client) Breaker() *CircuitBreaker {
	return c.breaker
}

// request performs one call. 4xx responses are returned to the caller but do
// not count against the breaker.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body, result any) error {
	var clientErr error
	err := c.breaker.Call(func() error {
		err := c.do(ctx, method, path, query, body, result)
		var se *StatusError
		if errors.As(err, &se) && se.Code < 500 {
			clientErr = err
			return nil
		}
		return err
	})
	if clientErr != nil {
		return clientErr
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := c.clock.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, path, 0, start)
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	c.observe(method, path, resp.StatusCode, start)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}

func (c *Client) observe(method, path string, status int, start time.Time) {
	elapsed := c.clock.Now().Sub(start)
	c.logger.Debug("api request", "method", method, "endpoint", path, "status", status, "duration", elapsed)
	if c.recorder != nil {
		c.recorder.RecordAPIRequest(method, path, status, elapsed)
	}
}
