// Package client provides the resilient HTTP fetch layer for the catalogue
// source: timeouts, retry with backoff, and a minimum inter-request delay.
// It has no knowledge of page semantics and performs no caching or parsing.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/hookahdb/catalog-scraper/pkg/logging"
	"github.com/hookahdb/catalog-scraper/pkg/ratelimit"
)

// Prometheus metrics for fetch operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_requests_total",
		Help: "Total source requests by status",
	}, []string{"status"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_request_duration_seconds",
		Help:    "Source request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_errors_total",
		Help: "Total fetch errors by class",
	}, []string{"class"})
)

// Response is the raw result of a single fetch.
type Response struct {
	Body       []byte
	StatusCode int
	Header     http.Header
}

// Config holds the client configuration.
type Config struct {
	// UserAgent identifies the scraper to the source.
	UserAgent string

	// Timeout bounds each individual request attempt.
	Timeout time.Duration

	// MaxRetries is the number of additional attempts after the first
	// failure. Only network errors, 5xx and 429 are retried.
	MaxRetries int

	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration

	// MaxBackoff caps backoff growth.
	MaxBackoff time.Duration

	// BackoffMultiplier grows the backoff between attempts (1.0 = fixed).
	BackoffMultiplier float64

	// MinRequestDelay is the minimum elapsed time between requests,
	// enforced by the shared rate limiter independent of retries.
	MinRequestDelay time.Duration
}

// DefaultConfig returns a conservative default configuration.
func DefaultConfig() Config {
	return Config{
		UserAgent:         "catalog-scraper/1.0",
		Timeout:           15 * time.Second,
		MaxRetries:        3,
		InitialBackoff:    500 * time.Millisecond,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
		MinRequestDelay:   300 * time.Millisecond,
	}
}

// Client fetches pages from the catalogue source.
type Client struct {
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	config     Config
	logger     zerolog.Logger
}

// New creates a fetch client. The rate limiter is owned by the client and
// shared across all its requests.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive (got %v)", cfg.Timeout)
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("max retries cannot be negative (got %d)", cfg.MaxRetries)
	}
	if cfg.BackoffMultiplier < 1.0 {
		return nil, fmt.Errorf("backoff multiplier must be >= 1.0 (got %v)", cfg.BackoffMultiplier)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: ratelimit.New(cfg.MinRequestDelay),
		config:  cfg,
		logger:  logging.NewLogger("fetch-client"),
	}, nil
}

// Fetch performs a GET against url with optional extra headers. It retries
// network errors, 5xx and 429 up to MaxRetries times; any other 4xx is a
// definitive miss returned as *HTTPError without retry.
func (c *Client) Fetch(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	startTime := time.Now()
	defer func() {
		requestDuration.Observe(time.Since(startTime).Seconds())
	}()

	retryCfg := RetryConfig{
		MaxAttempts:       c.config.MaxRetries + 1,
		InitialBackoff:    c.config.InitialBackoff,
		MaxBackoff:        c.config.MaxBackoff,
		BackoffMultiplier: c.config.BackoffMultiplier,
	}

	var resp *Response
	err := retryWithBackoff(ctx, retryCfg, c.logger, func() error {
		var attemptErr error
		resp, attemptErr = c.doOnce(ctx, url, headers)
		return attemptErr
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// Get is shorthand for Fetch without extra headers.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.Fetch(ctx, url, nil)
}

// doOnce performs a single attempt: limiter wait, request, classification.
// The limiter applies to every attempt and is told when each attempt
// finishes, so spacing is enforced end-to-start and retries never
// violate it.
func (c *Client) doOnce(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &NetworkError{Cause: err}
	}
	defer c.limiter.Record()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	c.logger.Debug().Str("url", url).Msg("fetching")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		netErr := &NetworkError{Cause: err}
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues("network_error").Inc()
		c.logger.Warn().Err(err).Str("url", url).Msg("request failed")
		return nil, netErr
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues("network_error").Inc()
		return nil, &NetworkError{Cause: fmt.Errorf("read body: %w", err)}
	}

	requestsTotal.WithLabelValues(fmt.Sprintf("%d", httpResp.StatusCode)).Inc()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		httpErr := &HTTPError{
			StatusCode: httpResp.StatusCode,
			Message:    httpResp.Status,
		}
		errorsTotal.WithLabelValues(string(classify(httpErr))).Inc()
		c.logger.Warn().
			Str("url", url).
			Int("status", httpResp.StatusCode).
			Str("error_class", string(classify(httpErr))).
			Msg("source request error")
		return nil, httpErr
	}

	return &Response{
		Body:       body,
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header.Clone(),
	}, nil
}

// ResetRateLimiter clears the throttle's internal clock. Used between
// independent scrape runs.
func (c *Client) ResetRateLimiter() {
	c.limiter.Reset()
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}
