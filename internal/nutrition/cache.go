package nutrition

import (
	"context"
	"sync"
	"time"
)

type cacheEntry struct {
	results   []Result
	createdAt time.Time
}

// Cache maps normalized queries to resolved results for a fixed TTL.
// Create one per process and share it; it is safe for concurrent use.
// Entries are replaced wholesale once stale and never purged proactively.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache whose entries stay fresh for ttl
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock replaces the wall clock, for tests
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Get returns a copy of the fresh entry for key, if any.
// An entry is fresh while now - createdAt <= ttl.
func (c *Cache) Get(key string) ([]Result, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.createdAt) > c.ttl {
		return nil, false
	}
	return cloneResults(entry.results), true
}

// Put stores results under key, replacing any previous entry
func (c *Cache) Put(key string, results []Result) {
	entry := cacheEntry{results: cloneResults(results), createdAt: c.now()}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
}

// GetOrCompute returns the fresh entry for key or runs compute and stores its
// results. A compute error is returned as is and nothing is stored.
// Concurrent misses on the same key may both compute; the last write wins.
func (c *Cache) GetOrCompute(ctx context.Context, key string, compute func(ctx context.Context) ([]Result, error)) ([]Result, bool, error) {
	if results, ok := c.Get(key); ok {
		return results, true, nil
	}

	results, err := compute(ctx)
	if err != nil {
		return nil, false, err
	}

	c.Put(key, results)
	return cloneResults(results), false, nil
}

// Len reports how many entries are held, fresh or stale
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func cloneResults(results []Result) []Result {
	out := make([]Result, len(results))
	for i, r := range results {
		if r.AvailableUnits != nil {
			units := make([]string, len(r.AvailableUnits))
			copy(units, r.AvailableUnits)
			r.AvailableUnits = units
		}
		out[i] = r
	}
	return out
}
