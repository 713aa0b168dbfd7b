package cache

import (
	"context"
	"sync"
	"time"
)

// entry is a cached canonical name with its expiration
type entry struct {
	expiresAt time.Time
}

// InMemoryWarehouseCache remembers warehouses confirmed to exist in the
// ERP. Suitable for single-instance deployments and testing; entries
// expire after a TTL so a warehouse deleted in the ERP is eventually
// re-checked.
type InMemoryWarehouseCache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryWarehouseCache creates an in-memory cache and starts a
// background goroutine that removes expired entries.
func NewInMemoryWarehouseCache(ttl time.Duration) *InMemoryWarehouseCache {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	c := &InMemoryWarehouseCache{
		entries:  make(map[string]entry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}
	c.wg.Add(1)
	go c.cleanupLoop()
	return c
}

func cacheKey(company, canonicalName string) string {
	return company + "|" + canonicalName
}

// Contains reports whether the warehouse is known to exist
func (c *InMemoryWarehouseCache) Contains(_ context.Context, company, canonicalName string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[cacheKey(company, canonicalName)]
	if !exists {
		return false, nil
	}
	return time.Now().Before(e.expiresAt), nil
}

// Add records that the warehouse exists
func (c *InMemoryWarehouseCache) Add(_ context.Context, company, canonicalName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey(company, canonicalName)] = entry{expiresAt: time.Now().Add(c.ttl)}
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryWarehouseCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
	})
	c.wg.Wait()
	return nil
}

// cleanupLoop periodically removes expired entries
func (c *InMemoryWarehouseCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *InMemoryWarehouseCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
