package cache

import (
	"sync"
	"time"
)

// DefaultTTL is applied by Set when no per-entry TTL is given.
const DefaultTTL = 300 * time.Second

// Entry represents a cached value with its absolute expiration
type Entry[V any] struct {
	Value     V
	ExpiresAt time.Time
}

// Cache provides a thread-safe key/value store with per-entry expiration.
// Eviction is lazy: expired entries are dropped on the Get that observes
// them, or eagerly via RemoveExpired.
type Cache[V any] struct {
	data       map[string]Entry[V]
	mutex      sync.RWMutex
	defaultTTL time.Duration
	stopCh     chan struct{}
	stopOnce   sync.Once
	now        func() time.Time
}

// New creates a new Cache instance with the given default TTL. A non-positive
// ttl falls back to DefaultTTL. A background sweep runs at the default TTL
// interval until Stop is called.
func New[V any](ttl time.Duration) *Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c := &Cache[V]{
		data:       make(map[string]Entry[V]),
		defaultTTL: ttl,
		stopCh:     make(chan struct{}),
		now:        time.Now,
	}

	go c.cleanup()

	return c
}

// Set stores a value with expiration now+defaultTTL
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores a value with expiration now+ttl
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = Entry[V]{
		Value:     value,
		ExpiresAt: c.now().Add(ttl),
	}
}

// Get retrieves a value if it exists and has not expired. An expired entry
// is evicted and reported as absent.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.data[key]
	if !exists {
		return zero, false
	}

	if c.now().After(entry.ExpiresAt) {
		delete(c.data, key)
		return zero, false
	}

	return entry.Value, true
}

// Remove deletes a key unconditionally
func (c *Cache[V]) Remove(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
}

// Clear removes all entries from the cache
func (c *Cache[V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data = make(map[string]Entry[V])
}

// Size returns the number of entries currently stored, expired or not
func (c *Cache[V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.data)
}

// RemoveExpired performs an eager sweep of all expired entries
func (c *Cache[V]) RemoveExpired() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	for key, entry := range c.data {
		if now.After(entry.ExpiresAt) {
			delete(c.data, key)
		}
	}
}

// cleanup runs the periodic background sweep
func (c *Cache[V]) cleanup() {
	ticker := time.NewTicker(c.defaultTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.RemoveExpired()
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background sweep. Safe to call more than once.
func (c *Cache[V]) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}
