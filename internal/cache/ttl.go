package cache

import (
	"sync"
	"time"

	"github.com/smallbiznis/vitrine/internal/clock"
)

// Cache is a keyed store whose entries go stale after a TTL. Stale entries
// stay readable through Stale until they are overwritten or deleted.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Stale(key K) (V, bool)
	Set(key K, value V, ttl time.Duration)
	Delete(key K)
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

type ttlCache[K comparable, V any] struct {
	mu    sync.RWMutex
	clock clock.Clock
	items map[K]entry[V]
}

// NewTTLCache returns an in-memory cache driven by the given clock.
func NewTTLCache[K comparable, V any](c clock.Clock) Cache[K, V] {
	if c == nil {
		c = clock.SystemClock{}
	}
	return &ttlCache[K, V]{
		clock: c,
		items: make(map[K]entry[V]),
	}
}

func (c *ttlCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || !c.clock.Now().Before(item.expiresAt) {
		var zero V
		return zero, false
	}
	return item.value, true
}

func (c *ttlCache[K, V]) Stale(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	return item.value, true
}

func (c *ttlCache[K, V]) Set(key K, value V, ttl time.Duration) {
	if ttl < 0 {
		ttl = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry[V]{
		value:     value,
		expiresAt: c.clock.Now().Add(ttl),
	}
}

func (c *ttlCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}
