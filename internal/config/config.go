// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config validation errors
var (
	// ErrInvalidPort is returned when Port is empty or not a number
	ErrInvalidPort = errors.New("Port must be a valid TCP port")
	// ErrInvalidCacheTTL is returned when CacheTTL is not positive
	ErrInvalidCacheTTL = errors.New("CacheTTL must be positive")
	// ErrInvalidCacheMaxEntries is returned when CacheMaxEntries is not positive
	ErrInvalidCacheMaxEntries = errors.New("CacheMaxEntries must be positive")
	// ErrInvalidFetchTimeout is returned when FetchTimeout is not positive
	ErrInvalidFetchTimeout = errors.New("FetchTimeout must be positive")
	// ErrInvalidMaxPageSize is returned when MaxPageSizeBytes is not positive
	ErrInvalidMaxPageSize = errors.New("MaxPageSizeBytes must be positive")
	// ErrInvalidRateLimit is returned when any rate limit setting is not positive
	ErrInvalidRateLimit = errors.New("rate limit settings must be positive")
)

const envDevelopment = "development"

// Config holds the configuration for the server.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string

	// Environment is "development" or "production". Development responses
	// include error details.
	Environment string

	// AllowedOrigins lists CORS origins. "*" allows any origin.
	AllowedOrigins []string

	// Version is reported by the health endpoint.
	Version string

	// LogLevel is the minimum slog level.
	LogLevel slog.Level

	// CacheTTL is how long successful extractions are cached.
	CacheTTL time.Duration

	// CacheMaxEntries bounds the result cache.
	CacheMaxEntries int

	// FetchTimeout bounds each upstream page fetch.
	FetchTimeout time.Duration

	// MaxPageSizeBytes caps the size of a fetched page.
	MaxPageSizeBytes int64

	// RateLimitRequests is the number of download requests a client may make per window.
	RateLimitRequests int

	// RateLimitWindow is the rate limiting window.
	RateLimitWindow time.Duration

	// RateLimitMaxClients bounds how many client limiters are tracked at once.
	RateLimitMaxClients int

	// TrustProxy keys rate limiting on X-Forwarded-For / X-Real-IP instead of
	// the connection address. Set it only behind a reverse proxy.
	TrustProxy bool
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("%w: got %q", ErrInvalidPort, c.Port)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidCacheTTL, c.CacheTTL)
	}
	if c.CacheMaxEntries <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCacheMaxEntries, c.CacheMaxEntries)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidFetchTimeout, c.FetchTimeout)
	}
	if c.MaxPageSizeBytes <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxPageSize, c.MaxPageSizeBytes)
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 || c.RateLimitMaxClients <= 0 {
		return fmt.Errorf("%w: requests=%d window=%v max_clients=%d",
			ErrInvalidRateLimit, c.RateLimitRequests, c.RateLimitWindow, c.RateLimitMaxClients)
	}
	return nil
}

// IsDevelopment reports whether the server runs in development mode
func (c Config) IsDevelopment() bool {
	return c.Environment == envDevelopment
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Port:                "8080",
		Environment:         "production",
		AllowedOrigins:      []string{"*"},
		Version:             "1.0.0",
		LogLevel:            slog.LevelInfo,
		CacheTTL:            10 * time.Minute,
		CacheMaxEntries:     100,
		FetchTimeout:        10 * time.Second,
		MaxPageSizeBytes:    1 << 20,
		RateLimitRequests:   10,
		RateLimitWindow:     time.Minute,
		RateLimitMaxClients: 10000,
	}
}

// ConfigFromEnv creates a Config from environment variables.
// Uses defaults for any missing or invalid environment variables.
//
// Environment variables:
//   - PORT: listen port (default: 8080)
//   - APP_ENV: "development" or "production" (default: production)
//   - ALLOWED_ORIGINS: comma-separated CORS origins (default: "*")
//   - APP_VERSION: version reported by /api/health (default: 1.0.0)
//   - LOG_LEVEL: debug, info, warn or error (default: info)
//   - CACHE_TTL_SECONDS: result cache TTL (default: 600)
//   - CACHE_MAX_ENTRIES: result cache capacity (default: 100)
//   - FETCH_TIMEOUT_SECONDS: upstream fetch timeout (default: 10)
//   - MAX_PAGE_SIZE_BYTES: upstream page size cap (default: 1048576)
//   - RATE_LIMIT_REQUESTS: download requests per window per client (default: 10)
//   - RATE_LIMIT_WINDOW_SECONDS: rate limit window (default: 60)
//   - RATE_LIMIT_MAX_CLIENTS: tracked client limiters (default: 10000)
//   - TRUST_PROXY: "true" to read client IPs from forwarding headers (default: false)
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}

	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Environment = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		if origins := splitList(v); len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
	}

	if v := os.Getenv("APP_VERSION"); v != "" {
		cfg.Version = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(v)); err == nil {
			cfg.LogLevel = level
		} else {
			slog.Warn("[CONFIG] invalid LOG_LEVEL value, using default",
				"value", v,
				"default", cfg.LogLevel.String(),
				"error", err,
			)
		}
	}

	if n, ok := positiveInt("CACHE_TTL_SECONDS", int(cfg.CacheTTL.Seconds())); ok {
		cfg.CacheTTL = time.Duration(n) * time.Second
	}
	if n, ok := positiveInt("CACHE_MAX_ENTRIES", cfg.CacheMaxEntries); ok {
		cfg.CacheMaxEntries = n
	}
	if n, ok := positiveInt("FETCH_TIMEOUT_SECONDS", int(cfg.FetchTimeout.Seconds())); ok {
		cfg.FetchTimeout = time.Duration(n) * time.Second
	}
	if n, ok := positiveInt("MAX_PAGE_SIZE_BYTES", int(cfg.MaxPageSizeBytes)); ok {
		cfg.MaxPageSizeBytes = int64(n)
	}
	if n, ok := positiveInt("RATE_LIMIT_REQUESTS", cfg.RateLimitRequests); ok {
		cfg.RateLimitRequests = n
	}
	if n, ok := positiveInt("RATE_LIMIT_WINDOW_SECONDS", int(cfg.RateLimitWindow.Seconds())); ok {
		cfg.RateLimitWindow = time.Duration(n) * time.Second
	}
	if n, ok := positiveInt("RATE_LIMIT_MAX_CLIENTS", cfg.RateLimitMaxClients); ok {
		cfg.RateLimitMaxClients = n
	}

	if v := os.Getenv("TRUST_PROXY"); v != "" {
		if trust, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			cfg.TrustProxy = trust
		} else {
			slog.Warn("[CONFIG] invalid TRUST_PROXY value, using default",
				"value", v,
				"default", cfg.TrustProxy,
				"error", err,
			)
		}
	}

	return cfg
}

// positiveInt reads a positive integer from the environment. It reports false
// when the variable is unset or invalid, logging the latter.
func positiveInt(name string, def int) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err == nil && n > 0 {
		return n, true
	}
	slog.Warn("[CONFIG] invalid "+name+" value, using default",
		"value", v,
		"default", def,
		"error", err,
	)
	return 0, false
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
