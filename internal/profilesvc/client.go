// Package profilesvc implements the HTTP client for the external profile
// service, the system of record for users' stated travel preferences.
//
// The profile service is a best-effort dependency: callers fall back to
// learned profiles, then popularity-only scoring, when it is unavailable.
// Requests go through a circuit breaker with retry so a struggling upstream
// is not hammered.
package profilesvc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/vacae/vacae-backend/internal/preference"
	"github.com/vacae/vacae-backend/internal/recommendation"
)

// ErrUnavailable is returned when the profile service cannot be reached,
// including when the circuit breaker is open.
var ErrUnavailable = errors.New("profile service unavailable")

// providerName labels this client in outbound request metrics.
const providerName = "profile-service"

// RequestMetrics records outbound request metrics.
type RequestMetrics interface {
	RecordRequest(provider, operation string, duration time.Duration, err error)
}

// ClientConfig holds configuration for the profile service client.
type ClientConfig struct {
	// BaseURL of the profile service, e.g. https://profiles.internal.vacae.app.
	BaseURL string

	// APIKey is sent as a bearer token on every request.
	APIKey string

	// Timeout is the per-request timeout. Default: 10 seconds.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts on transient failures.
	// Default: 3
	MaxRetries uint64

	// InitialInterval is the initial retry backoff interval. Default: 100ms.
	InitialInterval time.Duration

	// MaxInterval is the maximum retry backoff interval. Default: 5 seconds.
	MaxInterval time.Duration

	// BreakerTimeout is how long the circuit stays open before probing.
	// Default: 60 seconds.
	BreakerTimeout time.Duration

	// Metrics records outbound request metrics. Optional.
	Metrics RequestMetrics

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a resilient HTTP client for the profile service. It implements
// preference.ProfileClient.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	metrics    RequestMetrics
	config     ClientConfig
	logger     zerolog.Logger
}

var _ preference.ProfileClient = (*Client)(nil)

// NewClient creates a new profile service client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 60 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "profile-service",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip at a 50% failure rate once enough traffic has been seen.
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// 4xx answers are upstream working as intended. Only network
			// errors and 5xx should count against the circuit.
			if errors.Is(err, preference.ErrProfileNotFound) {
				return true
			}
			var se *statusError
			return errors.As(err, &se) && se.StatusCode < 500
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			cfg.Logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		metrics:    cfg.Metrics,
		config:     cfg,
		logger:     cfg.Logger,
	}
}

// Get retrieves the stated profile for a user.
func (c *Client) Get(ctx context.Context, userID string) (recommendation.PreferenceProfile, error) {
	body, err := c.do(ctx, "get_profile", http.MethodGet, "/v1/profiles/"+userID, nil)
	if err != nil {
		return recommendation.PreferenceProfile{}, err
	}

	var profile recommendation.PreferenceProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return recommendation.PreferenceProfile{}, fmt.Errorf("decoding profile: %w", err)
	}
	profile.UserID = userID
	return profile, nil
}

// Set replaces the stated profile for a user.
func (c *Client) Set(ctx context.Context, profile recommendation.PreferenceProfile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}

	_, err = c.do(ctx, "set_profile", http.MethodPut, "/v1/profiles/"+profile.UserID, payload)
	return err
}

// statusError carries a non-2xx status through the retry loop.
type statusError struct {
	StatusCode int
}

func (e *statusError) Error() string {
	return "profile service returned " + http.StatusText(e.StatusCode)
}

// do executes one request with retry and circuit breaker protection and
// returns the response body. A 404 maps to preference.ErrProfileNotFound and
// is not retried; 5xx and network errors are retried with exponential
// backoff.
func (c *Client) do(ctx context.Context, operation, method, path string, payload []byte) ([]byte, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx)

	var body []byte
	attempt := func() error {
		result, err := c.breaker.Execute(func() ([]byte, error) {
			start := time.Now()
			result, err := c.roundTrip(ctx, method, path, payload)
			if c.metrics != nil {
				c.metrics.RecordRequest(providerName, operation, time.Since(start), err)
			}
			return result, err
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrUnavailable)
			}
			if errors.Is(err, preference.ErrProfileNotFound) {
				return backoff.Permanent(err)
			}
			var se *statusError
			if errors.As(err, &se) && se.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}
		body = result
		return nil
	}

	if err := backoff.Retry(attempt, policy); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, preference.ErrProfileNotFound
	case resp.StatusCode >= 300:
		return nil, &statusError{StatusCode: resp.StatusCode}
	}

	return io.ReadAll(resp.Body)
}

// BreakerState returns the current state of the circuit breaker.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}
