package middleware

import (
	"sync"
	"time"
)

// IdempotencyCache stores replayable responses until they expire.
type IdempotencyCache struct {
	mu       sync.RWMutex
	items    map[string]*cachedResponse
	ttl      time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewIdempotencyCache creates a cache and starts its cleanup goroutine.
func NewIdempotencyCache(ttl time.Duration) *IdempotencyCache {
	c := &IdempotencyCache{
		items:  make(map[string]*cachedResponse),
		ttl:    ttl,
		stopCh: make(chan struct{}),
	}
	go c.startCleanup()
	return c
}

// Get retrieves a cached response.
func (c *IdempotencyCache) Get(key string) (*cachedResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	resp, ok := c.items[key]
	if !ok || time.Since(resp.Timestamp) > c.ttl {
		return nil, false
	}
	return resp, true
}

// Set stores a cached response.
func (c *IdempotencyCache) Set(key string, resp *cachedResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp.Timestamp = time.Now()
	c.items[key] = resp
}

// Len returns the number of stored responses, expired ones included.
func (c *IdempotencyCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stop ends the cleanup goroutine.
func (c *IdempotencyCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

func (c *IdempotencyCache) startCleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCh:
			return
		}
	}
}

func (c *IdempotencyCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, resp := range c.items {
		if now.Sub(resp.Timestamp) > c.ttl {
			delete(c.items, key)
		}
	}
}
