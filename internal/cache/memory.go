// internal/cache/memory.go
package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e *memoryEntry) expired() bool {
	return time.Now().After(e.expiresAt)
}

// MemoryCache is the in-process Cache. Expired entries are reaped by a
// background sweep once a minute.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	stop    chan struct{}
	once    sync.Once
}

func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]*memoryEntry),
		stop:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || e.expired() {
		return nil, ErrCacheMiss
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	v := make([]byte, len(value))
	copy(v, value)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &memoryEntry{value: v, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*memoryEntry)
	return nil
}

// Close stops the background sweep.
func (c *MemoryCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *MemoryCache) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			for k, e := range c.entries {
				if e.expired() {
					delete(c.entries, k)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}
