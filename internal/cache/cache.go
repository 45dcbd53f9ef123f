// Package cache memoizes computed results for a bounded time.
package cache

import (
	"container/list"
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/corsa-lab/corsa-api/internal/observability"
)

// Store is the cache contract the services depend on. Presence is what
// counts: a stored zero value or false is still a hit.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
}

// Options configures a TTLCache.
type Options struct {
	// DefaultTTL applies when Set is called with ttl <= 0 (default: 300s).
	DefaultTTL time.Duration

	// MaxEntries bounds the cache; the least recently used entry is evicted
	// first. 0 means unbounded.
	MaxEntries int

	// Now is the clock used for expiry (default: time.Now).
	Now func() time.Time
}

// TTLCache is a thread-safe LRU cache with per-entry expiry. Expired entries
// are dropped lazily on access and in bulk by Sweep.
type TTLCache struct {
	mu         sync.Mutex
	defaultTTL time.Duration
	capacity   int
	nowFn      func() time.Time
	entries    map[string]*list.Element
	order      *list.List
}

type cacheEntry struct {
	key       string
	value     any
	expiresAt time.Time
}

var _ Store = (*TTLCache)(nil)

// New creates an empty cache.
func New(opts Options) *TTLCache {
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = 300 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &TTLCache{
		defaultTTL: opts.DefaultTTL,
		capacity:   opts.MaxEntries,
		nowFn:      opts.Now,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

// Get returns the live value stored under key.
func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.entries[key]
	if !exists {
		observability.CacheRequestsTotal.WithLabelValues(family(key), "miss").Inc()
		return nil, false
	}

	entry := elem.Value.(*cacheEntry)
	if !c.nowFn().Before(entry.expiresAt) {
		c.remove(elem)
		observability.CacheEvictionsTotal.WithLabelValues("expired").Inc()
		observability.CacheRequestsTotal.WithLabelValues(family(key), "miss").Inc()
		return nil, false
	}

	c.order.MoveToFront(elem)
	observability.CacheRequestsTotal.WithLabelValues(family(key), "hit").Inc()
	return entry.value, true
}

// Set stores value under key for ttl, replacing any previous entry.
func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.nowFn().Add(ttl)

	if elem, exists := c.entries[key]; exists {
		c.order.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		return
	}

	if c.capacity > 0 && c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest)
			observability.CacheEvictionsTotal.WithLabelValues("capacity").Inc()
		}
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, value: value, expiresAt: expiresAt})
	observability.CacheEntries.Set(float64(c.order.Len()))
}

// Delete removes key if present.
func (c *TTLCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.entries[key]; exists {
		c.remove(elem)
	}
}

// Sweep drops every expired entry and returns how many were removed.
func (c *TTLCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.nowFn()
	removed := 0
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if !now.Before(elem.Value.(*cacheEntry).expiresAt) {
			c.remove(elem)
			removed++
		}
		elem = prev
	}

	if removed > 0 {
		observability.CacheEvictionsTotal.WithLabelValues("expired").Add(float64(removed))
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Run sweeps on every tick until ctx is cancelled.
func (c *TTLCache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("[Cache] Starting expiry sweeper", "interval", interval)

	for {
		select {
		case <-ticker.C:
			if n := c.Sweep(); n > 0 {
				slog.Debug("[Cache] Swept expired entries", "removed", n, "remaining", c.Len())
			}
		case <-ctx.Done():
			slog.Info("[Cache] Stopping expiry sweeper")
			return
		}
	}
}

// remove must be called with mu held.
func (c *TTLCache) remove(elem *list.Element) {
	delete(c.entries, elem.Value.(*cacheEntry).key)
	c.order.Remove(elem)
	observability.CacheEntries.Set(float64(c.order.Len()))
}

// family is the key prefix before the first ':' and keeps metric
// cardinality independent of model keys.
func family(key string) string {
	prefix, _, _ := strings.Cut(key, ":")
	return prefix
}
