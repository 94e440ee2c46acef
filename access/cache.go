package access

import (
	"sync"
	"time"
)

// Cache is a time-boxed access-state cache meant to be owned by a calling
// session or request context, not held as process-global state. Subscription
// lookups are the slow path; the gate itself is free to recompute.
type Cache struct {
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
	mu      sync.RWMutex
}

type cacheEntry struct {
	state    State
	cachedAt time.Time
}

// NewCache creates a cache with the given TTL. A TTL of 0 disables
// expiration (entries live until Invalidate).
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached state for key, or ("", false) on miss or expiry.
func (c *Cache) Get(key string) (State, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.ttl > 0 && c.now().Sub(e.cachedAt) > c.ttl {
		return "", false
	}
	return e.state, true
}

// Set stores the state for key with the current timestamp.
func (c *Cache) Set(key string, state State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{state: state, cachedAt: c.now()}
}

// Invalidate drops the entry for key, forcing the next Get to miss.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
