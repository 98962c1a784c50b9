// Package download is the request pipeline behind POST /api/download:
// validation, platform resolution, caching and dispatch to an extractor.
package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"Mediasnap/internal/core/cache"
	"Mediasnap/internal/core/media"
	"Mediasnap/internal/core/platform"
)

const (
	// DefaultCacheTTL is how long a successful extraction is served from cache
	DefaultCacheTTL = 10 * time.Minute

	defaultFailureThreshold = 3
	defaultOpenDuration     = 5 * time.Minute
)

// Dispatcher routes a URL to the extractor for its platform.
// Implemented by *extract.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, pageURL string, p platform.Platform) (*media.Result, error)
	Supports(p platform.Platform) bool
}

// Request is one download lookup
type Request struct {
	URL      string
	Platform string // "", "auto" or a platform tag
}

// Response carries the extraction result and whether it came from cache
type Response struct {
	Result *media.Result
	Cached bool
}

// Service resolves download requests
type Service interface {
	Download(ctx context.Context, req Request) (*Response, error)
}

type service struct {
	cache          cache.Cache
	dispatcher     Dispatcher
	circuitBreaker *circuitBreaker
	group          singleflight.Group
	now            func() time.Time
	cacheTTL       time.Duration
	threshold      int
	openDuration   time.Duration
}

// ServiceOption configures the service
type ServiceOption func(*service)

// WithCacheTTL sets the cache TTL
func WithCacheTTL(ttl time.Duration) ServiceOption {
	return func(s *service) {
		s.cacheTTL = ttl
	}
}

// WithClock sets the time source used by the circuit breaker
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		s.now = now
	}
}

// WithFailureThreshold sets how many consecutive upstream failures open a platform's circuit
func WithFailureThreshold(n int) ServiceOption {
	return func(s *service) {
		if n > 0 {
			s.threshold = n
		}
	}
}

// WithOpenDuration sets how long an open circuit rejects requests
func WithOpenDuration(d time.Duration) ServiceOption {
	return func(s *service) {
		if d > 0 {
			s.openDuration = d
		}
	}
}

// NewService creates a new download service
func NewService(c cache.Cache, dispatcher Dispatcher, opts ...ServiceOption) Service {
	s := &service{
		cache:        c,
		dispatcher:   dispatcher,
		now:          time.Now,
		cacheTTL:     DefaultCacheTTL,
		threshold:    defaultFailureThreshold,
		openDuration: defaultOpenDuration,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.circuitBreaker = newCircuitBreaker(s.threshold, s.openDuration, s.now)
	return s
}

// Download validates the request, serves it from cache when possible and
// otherwise runs the platform's extractor. Only fully successful
// extractions are cached.
func (s *service) Download(ctx context.Context, req Request) (*Response, error) {
	// 1. Validate input
	pageURL, err := normalizeURL(req.URL)
	if err != nil {
		return nil, err
	}

	// 2. Resolve platform and reject unsupported ones before any network work
	p, err := resolvePlatform(req.Platform, pageURL)
	if err != nil {
		return nil, err
	}
	if !s.dispatcher.Supports(p) {
		return nil, &media.UnsupportedPlatformError{Platform: string(p)}
	}

	// 3. Check cache
	key := cache.Key(pageURL, p)
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("[DOWNLOAD] cache lookup failed, treating as miss",
			"key", key,
			"error", err,
		)
	} else if cached != nil {
		slog.Debug("[DOWNLOAD] cache hit", "url", pageURL, "platform", p)
		return &Response{Result: cached, Cached: true}, nil
	}

	// 4. Check circuit breaker
	if err := s.circuitBreaker.canAttempt(p); err != nil {
		slog.Info("[DOWNLOAD] skipping extraction, circuit open",
			"url", pageURL,
			"platform", p,
		)
		return nil, err
	}

	// 5. Extract; identical concurrent misses share one upstream fetch.
	// The fetch runs to completion even if this caller goes away, so its
	// cancellation neither fails the other waiters nor counts against the platform.
	extractCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return s.extract(extractCtx, key, pageURL, p)
	})

	select {
	case <-ctx.Done():
		slog.Debug("[DOWNLOAD] caller gone, extraction continues", "url", pageURL, "platform", p)
		return nil, fmt.Errorf("download abandoned: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		result := res.Val.(*media.Result)
		if res.Shared {
			result = result.Clone()
		}
		return &Response{Result: result, Cached: false}, nil
	}
}

func (s *service) extract(ctx context.Context, key, pageURL string, p platform.Platform) (*media.Result, error) {
	slog.Info("[DOWNLOAD] cache miss, extracting", "url", pageURL, "platform", p)

	result, err := s.dispatcher.Dispatch(ctx, pageURL, p)
	if err != nil {
		if isUpstreamFailure(err) {
			s.circuitBreaker.recordFailure(p, err)
		}
		return nil, err
	}
	s.circuitBreaker.recordSuccess(p)

	if cacheErr := s.cache.Set(ctx, key, result, s.cacheTTL); cacheErr != nil {
		// Log but don't fail - cache is best-effort
		slog.Warn("[DOWNLOAD] failed to cache result",
			"key", key,
			"error", cacheErr,
		)
	}

	slog.Info("[DOWNLOAD] extracted",
		"url", pageURL,
		"platform", p,
		"images", len(result.Images),
		"videos", len(result.Videos),
	)
	return result, nil
}

// isUpstreamFailure reports errors that say the platform itself is struggling.
// Oversized pages, parse failures, placeholders and caller cancellation do not count.
func isUpstreamFailure(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(err, media.ErrUpstreamTimeout) || errors.Is(err, media.ErrUpstreamUnreachable)
}
