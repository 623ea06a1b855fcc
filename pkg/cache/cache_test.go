package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache[V any](ttl time.Duration) (*Cache[V], *time.Time) {
	c := New[V](ttl)
	c.Stop()

	now := time.Now()
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCacheSetGet(t *testing.T) {
	c, _ := newTestCache[string](time.Minute)

	c.Set("greeting", "hello")

	value, found := c.Get("greeting")
	require.True(t, found)
	assert.Equal(t, "hello", value)

	_, found = c.Get("missing")
	assert.False(t, found)
}

func TestCacheExpiration(t *testing.T) {
	c, now := newTestCache[float64](time.Minute)

	c.SetWithTTL("SOL", 98.5, 10*time.Second)

	value, found := c.Get("SOL")
	require.True(t, found)
	assert.Equal(t, 98.5, value)

	// Advance past the entry TTL; the read must evict and miss.
	*now = now.Add(11 * time.Second)

	_, found = c.Get("SOL")
	assert.False(t, found)
	assert.Equal(t, 0, c.Size())
}

func TestCacheRemove(t *testing.T) {
	c, _ := newTestCache[int](time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)

	c.Remove("a")
	_, found := c.Get("a")
	assert.False(t, found)

	value, found := c.Get("b")
	require.True(t, found)
	assert.Equal(t, 2, value)
}

func TestCacheRemoveExpired(t *testing.T) {
	c, now := newTestCache[int](time.Minute)

	c.SetWithTTL("short", 1, time.Second)
	c.SetWithTTL("long", 2, time.Hour)

	*now = now.Add(2 * time.Second)
	c.RemoveExpired()

	assert.Equal(t, 1, c.Size())
	_, found := c.Get("long")
	assert.True(t, found)
}

func TestCacheClear(t *testing.T) {
	c, _ := newTestCache[int](time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	assert.Equal(t, 0, c.Size())
}

func TestCacheDefaultTTLFallback(t *testing.T) {
	c := New[int](0)
	defer c.Stop()

	assert.Equal(t, DefaultTTL, c.defaultTTL)
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New[int](time.Minute)
	defer c.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", n%10)
			c.Set(key, n)
			c.Get(key)
			if n%5 == 0 {
				c.Remove(key)
			}
		}(i)
	}
	wg.Wait()

	// The map must stay consistent under concurrent mutation.
	assert.LessOrEqual(t, c.Size(), 10)
}
