package reauth

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is a process-local TTL map keyed by user id. Entries are lost
// on restart, which is the accepted tradeoff for a single-instance
// deployment: the worst case is one extra re-authentication challenge.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]time.Time

	window          time.Duration
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	cleanupOnce     sync.Once
}

// MemoryCacheOption configures a MemoryCache.
type MemoryCacheOption func(*MemoryCache)

// WithWindow sets the freshness window for markers.
func WithWindow(window time.Duration) MemoryCacheOption {
	return func(c *MemoryCache) {
		if window > 0 {
			c.window = window
		}
	}
}

// WithCleanupInterval sets how often expired markers are swept.
func WithCleanupInterval(interval time.Duration) MemoryCacheOption {
	return func(c *MemoryCache) {
		if interval > 0 {
			c.cleanupInterval = interval
		}
	}
}

// NewMemoryCache creates an in-memory marker cache with background cleanup.
func NewMemoryCache(opts ...MemoryCacheOption) *MemoryCache {
	c := &MemoryCache{
		entries:         make(map[string]time.Time),
		window:          DefaultWindow,
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	go c.cleanupLoop()

	return c
}

func (c *MemoryCache) Mark(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = time.Now().Add(c.window)
	return nil
}

func (c *MemoryCache) Recent(_ context.Context, userID string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	expiresAt, ok := c.entries[userID]
	return ok && time.Now().Before(expiresAt), nil
}

func (c *MemoryCache) Forget(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	return nil
}

// Close stops the background cleanup goroutine.
func (c *MemoryCache) Close() {
	c.cleanupOnce.Do(func() {
		close(c.stopCleanup)
	})
}

func (c *MemoryCache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *MemoryCache) removeExpired() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for userID, expiresAt := range c.entries {
		if now.After(expiresAt) {
			delete(c.entries, userID)
		}
	}
}
