// Package cache provides the in-memory TTL caches used for resolution
// results and fetched content.
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// cacheEntry holds a cached value with expiration and LRU tracking.
type cacheEntry[V any] struct {
	value     V
	storedAt  time.Time
	expiresAt time.Time
	elem      *list.Element // Position in LRU list
	size      int64
}

// Sizer is implemented by values that report their size in bytes. Only
// Sizer values count against a byte budget set with WithMaxBytes.
type Sizer interface {
	Size() int64
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Entries   int    `json:"entries"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Expired   uint64 `json:"expired"`
	Bytes     int64  `json:"bytes"`
}

// TTLCache is a thread-safe, TTL-aware LRU cache.
//
// Entries expire lazily on read and are also removed by Sweep, which Run
// calls periodically. When the cache is full the least recently used entry
// is evicted. With a byte budget, eviction also runs until the summed size
// of stored values fits it.
type TTLCache[K comparable, V any] struct {
	mu sync.Mutex

	maxEntries int
	maxBytes   int64
	bytes      int64
	now        func() time.Time

	lru  *list.List           // front = oldest, back = newest
	data map[K]*cacheEntry[V] // key -> entry

	hits      uint64
	misses    uint64
	evictions uint64
	expired   uint64
}

// Option configures a TTLCache.
type Option func(*options)

type options struct {
	now      func() time.Time
	maxBytes int64
}

// WithClock replaces time.Now as the cache's time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithMaxBytes bounds the summed Size of stored values. A value larger
// than n is never stored. n <= 0 means no byte budget.
func WithMaxBytes(n int64) Option {
	return func(o *options) { o.maxBytes = n }
}

// New creates a cache bounded to maxEntries (minimum 1).
func New[K comparable, V any](maxEntries int, opts ...Option) *TTLCache[K, V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &TTLCache[K, V]{
		maxEntries: maxEntries,
		maxBytes:   max(o.maxBytes, 0),
		now:        o.now,
		lru:        list.New(),
		data:       map[K]*cacheEntry[V]{},
	}
}

// Get retrieves a value. Expired entries are removed and count as misses.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	v, _, ok := c.GetWithTime(key)
	return v, ok
}

// GetWithTime is Get that also returns the time the value was stored.
func (c *TTLCache[K, V]) GetWithTime(key K) (V, time.Time, bool) {
	var zero V
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.data[key]
	if e == nil {
		c.misses++
		return zero, time.Time{}, false
	}
	if !e.expiresAt.After(now) {
		c.removeLocked(key, e)
		c.expired++
		c.misses++
		return zero, time.Time{}, false
	}

	c.lru.MoveToBack(e.elem)
	c.hits++
	return e.value, e.storedAt, true
}

// Set stores a value for ttl. Entries with ttl <= 0 are not stored.
// An existing entry for key is replaced wholesale.
func (c *TTLCache[K, V]) Set(key K, val V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	now := c.now()
	size := sizeOf(val)

	c.mu.Lock()
	defer c.mu.Unlock()

	existing := c.data[key]
	if c.maxBytes > 0 && size > c.maxBytes {
		if existing != nil {
			c.removeLocked(key, existing)
		}
		return
	}

	if existing != nil {
		c.bytes += size - existing.size
		existing.value = val
		existing.size = size
		existing.storedAt = now
		existing.expiresAt = now.Add(ttl)
		c.lru.MoveToBack(existing.elem)
		c.evictOldest()
		return
	}

	e := &cacheEntry[V]{value: val, storedAt: now, expiresAt: now.Add(ttl), size: size}
	e.elem = c.lru.PushBack(key)
	c.data[key] = e
	c.bytes += size

	c.evictOldest()
}

// Delete removes key and reports whether it was present.
func (c *TTLCache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.data[key]
	if e == nil {
		return false
	}
	c.removeLocked(key, e)
	return true
}

// DeleteFunc removes every entry for which match returns true and returns
// the number removed. match runs with the cache lock held and must not call
// back into the cache.
func (c *TTLCache[K, V]) DeleteFunc(match func(K, V) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, e := range c.data {
		if match(k, e.value) {
			c.removeLocked(k, e)
			n++
		}
	}
	return n
}

// Sweep removes all expired entries and returns how many were dropped.
func (c *TTLCache[K, V]) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, e := range c.data {
		if !e.expiresAt.After(now) {
			c.removeLocked(k, e)
			n++
		}
	}
	c.expired += uint64(n)
	return n
}

// Run sweeps the cache every interval until ctx is cancelled.
func (c *TTLCache[K, V]) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.Sweep()
		}
	}
}

// Clear drops every entry. Counters are kept.
func (c *TTLCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Init()
	clear(c.data)
	c.bytes = 0
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Stats returns a snapshot of the cache counters.
func (c *TTLCache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Entries:   len(c.data),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Expired:   c.expired,
		Bytes:     c.bytes,
	}
}

// SweepInterval returns the sweep period for entries living ttl:
// one fifth of it, never below one second.
func SweepInterval(ttl time.Duration) time.Duration {
	return max(ttl/5, time.Second)
}

// removeLocked unlinks an entry. Caller must hold c.mu.
func (c *TTLCache[K, V]) removeLocked(key K, e *cacheEntry[V]) {
	c.lru.Remove(e.elem)
	delete(c.data, key)
	c.bytes -= e.size
}

// evictOldest removes the oldest entries until under both limits.
func (c *TTLCache[K, V]) evictOldest() {
	for len(c.data) > c.maxEntries || (c.maxBytes > 0 && c.bytes > c.maxBytes) {
		front := c.lru.Front()
		if front == nil {
			break
		}
		k := front.Value.(K)
		c.removeLocked(k, c.data[k])
		c.evictions++
	}
}

func sizeOf[V any](v V) int64 {
	if s, ok := any(v).(Sizer); ok {
		return s.Size()
	}
	return 0
}
