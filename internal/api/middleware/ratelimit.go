package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"Mediasnap/internal/api/handlers"
)

// DefaultMaxClients bounds how many client limiters are tracked at once
const DefaultMaxClients = 10000

// RateLimiter implements an in-memory token bucket per client IP.
// Each client may burst up to requests calls and then regains one call
// every window/requests.
type RateLimiter struct {
	clients  *lru.Cache[string, *rate.Limiter]
	now      func() time.Time
	limit      rate.Limit
	requests   int
	trustProxy bool
}

// RateLimiterOption configures a RateLimiter
type RateLimiterOption func(*RateLimiter)

// WithRateLimitClock sets the time source used to refill buckets
func WithRateLimitClock(now func() time.Time) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.now = now
	}
}

// WithTrustedProxy keys clients by forwarding headers. Enable it only when a
// reverse proxy in front of the server sets them; otherwise clients choose their own key.
func WithTrustedProxy(trust bool) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.trustProxy = trust
	}
}

// NewRateLimiter creates a new rate limiter
// requests: maximum number of requests allowed per window
// window: time window duration (e.g., 1 minute)
// maxClients: size of the client table; the oldest clients are dropped first
func NewRateLimiter(requests int, window time.Duration, maxClients int, opts ...RateLimiterOption) *RateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if maxClients <= 0 {
		maxClients = DefaultMaxClients
	}

	clients, err := lru.New[string, *rate.Limiter](maxClients)
	if err != nil {
		// Only fails for a non-positive size, which is ruled out above
		slog.Error("[RATELIMIT] failed to create client table", "error", err)
		clients, _ = lru.New[string, *rate.Limiter](DefaultMaxClients)
	}

	rl := &RateLimiter{
		clients:  clients,
		now:      time.Now,
		limit:    rate.Every(window / time.Duration(requests)),
		requests: requests,
	}

	for _, opt := range opts {
		opt(rl)
	}

	return rl
}

// Middleware returns a rate limiting middleware
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := getClientIP(r, rl.trustProxy)

		if !rl.allow(clientID) {
			slog.Info("[RATELIMIT] request rejected", "client", clientID, "path", r.URL.Path)
			handlers.WriteError(w, r, http.StatusTooManyRequests, handlers.ErrorResponse{
				Error: "Too many requests, please try again later.",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow checks if a client is allowed to make a request
func (rl *RateLimiter) allow(clientID string) bool {
	limiter := rate.NewLimiter(rl.limit, rl.requests)
	if existing, ok, _ := rl.clients.PeekOrAdd(clientID, limiter); ok {
		limiter = existing
	}
	return limiter.AllowN(rl.now(), 1)
}

// getClientIP extracts the client IP from the request. Forwarding headers
// are read only behind a trusted proxy.
func getClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		// The rightmost X-Forwarded-For hop was appended by our proxy; earlier ones are client supplied
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			hops := strings.Split(forwarded, ",")
			for i := len(hops) - 1; i >= 0; i-- {
				if ip := strings.TrimSpace(hops[i]); ip != "" {
					return ip
				}
			}
		}

		if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
			return realIP
		}
	}

	// RemoteAddr without the port
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
