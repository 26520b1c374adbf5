// Package config loads scraper settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds the full process configuration.
type Config struct {
	// BaseURL of the catalogue site.
	BaseURL string
	// PageSize for listing and discovery pagination.
	PageSize int
	// RequestDelay is the minimum spacing between source requests.
	RequestDelay time.Duration
	// MaxRetries per request after the initial attempt.
	MaxRetries int
	// Timeout per request.
	Timeout time.Duration
	// UseAPIDiscovery selects the JSON API channel for flavor URL
	// discovery.
	UseAPIDiscovery bool
	// EnableFallback allows HTML fallback when the API channel fails.
	EnableFallback bool
	// CacheTTL is the entry lifetime of the catalogue cache.
	CacheTTL time.Duration

	// RedisAddr selects the Redis cache when non-empty; empty keeps the
	// in-memory store.
	RedisAddr string
	// DatabaseURL enables the Postgres sink when non-empty.
	DatabaseURL string

	// LogLevel is a zerolog level name.
	LogLevel string
	// Port of the metrics/health HTTP listener.
	Port string
}

// Load reads configuration from the environment, applying defaults for
// unset variables, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		BaseURL:         getEnv("CATALOG_BASE_URL", "https://htreviews.org"),
		PageSize:        50,
		RequestDelay:    300 * time.Millisecond,
		MaxRetries:      3,
		Timeout:         30 * time.Second,
		UseAPIDiscovery: true,
		EnableFallback:  true,
		CacheTTL:        24 * time.Hour,
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Port:            getEnv("PORT", "8080"),
	}

	var err error
	if cfg.PageSize, err = getEnvInt("CATALOG_PAGE_SIZE", cfg.PageSize); err != nil {
		return nil, err
	}
	if cfg.MaxRetries, err = getEnvInt("CATALOG_MAX_RETRIES", cfg.MaxRetries); err != nil {
		return nil, err
	}
	if cfg.RequestDelay, err = getEnvDuration("CATALOG_REQUEST_DELAY", cfg.RequestDelay); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = getEnvDuration("CATALOG_TIMEOUT", cfg.Timeout); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getEnvDuration("CATALOG_CACHE_TTL", cfg.CacheTTL); err != nil {
		return nil, err
	}
	if cfg.UseAPIDiscovery, err = getEnvBool("CATALOG_USE_API_DISCOVERY", cfg.UseAPIDiscovery); err != nil {
		return nil, err
	}
	if cfg.EnableFallback, err = getEnvBool("CATALOG_ENABLE_FALLBACK", cfg.EnableFallback); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base URL %q", c.BaseURL)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("page size must be at least 1, got %d", c.PageSize)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative, got %d", c.MaxRetries)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("request delay cannot be negative, got %v", c.RequestDelay)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got %v", c.CacheTTL)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
