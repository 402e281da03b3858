// Package cache provides a small in-memory TTL cache with LRU-style
// overflow eviction, used for upstream API responses.
package cache

import (
	"sort"
	"sync"
	"time"

	"sejmlex/internal/logging"
)

type entry struct {
	value     any
	createdAt time.Time
	expiresAt time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// TTLCache stores arbitrary values under string keys. Every entry carries its
// own TTL. When the cache grows past its capacity, expired entries are swept
// first and then the oldest-created entries are evicted in a 10% batch.
type TTLCache struct {
	mu         sync.Mutex
	entries    map[string]*entry
	maxEntries int
	logger     logging.Logger

	now func() time.Time
}

// New creates a cache holding at most maxEntries values. maxEntries below 1
// is clamped to 1.
func New(maxEntries int, logger logging.Logger) *TTLCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &TTLCache{
		entries:    make(map[string]*entry),
		maxEntries: maxEntries,
		logger:     logging.OrNop(logger),
		now:        time.Now,
	}
}

// Get returns the value stored under key. An expired entry is removed and
// reported as a miss.
func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if e.expired(c.now()) {
		delete(c.entries, key)
		c.logger.Debug("expired entry removed: %s", key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the given TTL. A ttl of zero or less
// inserts an entry that is already expired.
func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key] = &entry{
		value:     value,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}

	if len(c.entries) > c.maxEntries {
		c.evictLocked(now)
	}
}

// evictLocked sweeps expired entries, then removes the oldest-created
// entries until the count is back within capacity. At least one entry is
// evicted per overflow.
func (c *TTLCache) evictLocked(now time.Time) {
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
		}
	}
	if len(c.entries) <= c.maxEntries {
		return
	}

	type aged struct {
		key       string
		createdAt time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for key, e := range c.entries {
		all = append(all, aged{key: key, createdAt: e.createdAt})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].createdAt.Before(all[j].createdAt)
	})

	batch := len(c.entries) / 10
	if batch < 1 {
		batch = 1
	}
	for i := 0; i < batch && i < len(all); i++ {
		delete(c.entries, all[i].key)
	}
	c.logger.Debug("evicted %d entries, %d remain", batch, len(c.entries))
}

// Delete removes key if present.
func (c *TTLCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes all entries.
func (c *TTLCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// Size returns the current entry count, including not-yet-swept expired
// entries.
func (c *TTLCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
