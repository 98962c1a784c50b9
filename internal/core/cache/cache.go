// Package cache stores recently computed extraction results for a short time.
package cache

import (
	"context"
	"time"

	"Mediasnap/internal/core/media"
	"Mediasnap/internal/core/platform"
)

// Cache defines the interface for the ephemeral result cache
type Cache interface {
	// Get retrieves a cached result for the given key.
	// Returns nil, nil if not found or expired (not an error condition).
	Get(ctx context.Context, key string) (*media.Result, error)

	// Set stores a result under key, replacing any existing entry.
	// A ttl of zero or less stores the entry without expiry.
	Set(ctx context.Context, key string, value *media.Result, ttl time.Duration) error

	// Delete removes the entry for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry.
	Clear(ctx context.Context) error
}

// Key derives the cache key for a normalized request URL and the platform
// it resolved to. The same URL requested with different platform hints
// yields different keys.
func Key(normalizedURL string, p platform.Platform) string {
	return "download:" + string(p) + ":" + normalizedURL
}
