package weather

import (
	"context"
	"sync"
	"time"
)

// MemoryCache holds a single reading: the last coordinate looked up.
type MemoryCache struct {
	mu    sync.Mutex
	now   func() time.Time
	entry *cacheEntry
}

type cacheEntry struct {
	key       string
	reading   Reading
	expiresAt time.Time
}

// NewMemoryCache returns an empty cache. A nil clock means time.Now.
func NewMemoryCache(clock func() time.Time) *MemoryCache {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryCache{now: clock}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*Reading, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entry == nil || c.entry.key != key {
		return nil, false
	}
	if !c.now().Before(c.entry.expiresAt) {
		c.entry = nil
		return nil, false
	}
	r := c.entry.reading
	return &r, true
}

func (c *MemoryCache) Set(_ context.Context, key string, r Reading, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entry = &cacheEntry{key: key, reading: r, expiresAt: c.now().Add(ttl)}
	return nil
}
