package cache

import (
	"context"
	"sync"
	"time"
)

const defaultMemoryTTL = 24 * time.Hour

type memoryItem struct {
	value    string
	expireAt time.Time
	lastUsed time.Time
}

// MemoryCache keeps at most maxSize entries and evicts the least recently
// used one when full. Expired entries are dropped on access.
type MemoryCache struct {
	mu      sync.Mutex
	data    map[string]*memoryItem
	maxSize int
	now     func() time.Time
}

// MemoryOption configures MemoryCache.
type MemoryOption func(*MemoryCache)

func WithMemoryMaxSize(size int) MemoryOption {
	return func(c *MemoryCache) {
		if size > 0 {
			c.maxSize = size
		}
	}
}

// WithMemoryClock replaces time.Now.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) { c.now = now }
}

func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		data:    make(map[string]*memoryItem),
		maxSize: 1000,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Service = (*MemoryCache)(nil)

func (c *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultMemoryTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, ok := c.data[key]; !ok && len(c.data) >= c.maxSize {
		c.evictLocked(now)
	}
	c.data[key] = &memoryItem{value: value, expireAt: now.Add(ttl), lastUsed: now}
	return nil
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.data[key]
	if !ok {
		return "", ErrCacheMiss
	}
	now := c.now()
	if !now.Before(item.expireAt) {
		delete(c.data, key)
		return "", ErrCacheMiss
	}
	item.lastUsed = now
	return item.value, nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// evictLocked drops expired entries, or the least recently used one if none expired.
func (c *MemoryCache) evictLocked(now time.Time) {
	var (
		oldestKey string
		oldest    time.Time
	)
	expired := false
	for k, item := range c.data {
		if !now.Before(item.expireAt) {
			delete(c.data, k)
			expired = true
			continue
		}
		if oldestKey == "" || item.lastUsed.Before(oldest) {
			oldestKey, oldest = k, item.lastUsed
		}
	}
	if !expired && oldestKey != "" {
		delete(c.data, oldestKey)
	}
}
