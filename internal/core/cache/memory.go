package cache

import (
	"container/list"
	"context"
	"log/slog"
	"sync"
	"time"

	"Mediasnap/internal/core/media"
)

const (
	// DefaultMaxEntries is the live-entry threshold above which eviction runs
	DefaultMaxEntries = 100
)

type memoryEntry struct {
	expiresAt time.Time // zero means no expiry
	value     *media.Result
	key       string
}

// MemoryCache is an in-process Cache with lazy TTL expiry and batch eviction
// of the oldest-inserted entries. Reads never affect eviction order.
type MemoryCache struct {
	now        func() time.Time
	entries    map[string]*list.Element
	order      *list.List // front is oldest insertion
	maxEntries int
	evictBatch int
	mu         sync.Mutex
}

// MemoryOption configures a MemoryCache
type MemoryOption func(*MemoryCache)

// WithClock sets the time source used for expiry checks
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) {
		c.now = now
	}
}

// WithMaxEntries sets the live-entry threshold
func WithMaxEntries(n int) MemoryOption {
	return func(c *MemoryCache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithEvictBatch sets how many of the oldest entries are removed when the
// threshold is exceeded
func WithEvictBatch(n int) MemoryOption {
	return func(c *MemoryCache) {
		if n > 0 {
			c.evictBatch = n
		}
	}
}

// NewMemoryCache creates an empty MemoryCache.
// Defaults: 100 entries, evicting 50 at a time, wall clock.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		now:        time.Now,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		maxEntries: DefaultMaxEntries,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.evictBatch == 0 {
		c.evictBatch = max(c.maxEntries/2, 1)
	}
	return c
}

// Get returns a copy of the cached result, or nil if absent or expired.
// Expired entries are removed on access.
func (c *MemoryCache) Get(_ context.Context, key string) (*media.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	entry := el.Value.(*memoryEntry)
	if c.expired(entry, c.now()) {
		c.removeElement(el)
		return nil, nil
	}
	return entry.value.Clone(), nil
}

// Set stores a copy of value. Overwriting a key keeps its original
// insertion position.
func (c *MemoryCache) Set(_ context.Context, key string, value *media.Result, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}

	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.value = value.Clone()
		entry.expiresAt = expiresAt
		return nil
	}

	el := c.order.PushBack(&memoryEntry{
		key:       key,
		value:     value.Clone(),
		expiresAt: expiresAt,
	})
	c.entries[key] = el

	if len(c.entries) > c.maxEntries {
		c.evict(now)
	}
	return nil
}

// Delete removes key if present
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.removeElement(el)
	}
	return nil
}

// Clear removes every entry
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order.Init()
	return nil
}

// Len returns the number of stored entries, including expired ones not yet
// reclaimed.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evict drops expired entries, then the oldest-inserted batch if the cache is
// still over its threshold. Must be called with the lock held.
func (c *MemoryCache) evict(now time.Time) {
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if c.expired(el.Value.(*memoryEntry), now) {
			c.removeElement(el)
		}
		el = next
	}

	if len(c.entries) <= c.maxEntries {
		return
	}

	evicted := 0
	for evicted < c.evictBatch {
		el := c.order.Front()
		if el == nil {
			break
		}
		c.removeElement(el)
		evicted++
	}

	slog.Debug("[CACHE] evicted oldest entries",
		"evicted", evicted,
		"remaining", len(c.entries),
	)
}

func (c *MemoryCache) expired(e *memoryEntry, now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// removeElement must be called with the lock held
func (c *MemoryCache) removeElement(el *list.Element) {
	entry := c.order.Remove(el).(*memoryEntry)
	delete(c.entries, entry.key)
}
