package utils

import (
	"os"
	"sync"
	"time"
)

// cacheItem holds a cached value and the file stamp it was computed from
type cacheItem[V any] struct {
	value   V
	modTime time.Time
	size    int64
}

// Cache is a concurrency-safe map whose entries are invalidated when the file they
// were derived from changes on disk
type Cache[K comparable, V any] struct {
	items map[K]*cacheItem[V]
	mutex sync.RWMutex
}

// NewCache creates a new generic cache
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]*cacheItem[V]),
	}
}

// Get retrieves an item if the file at filePath still matches the stamp stored with it.
// Stale entries are evicted.
func (c *Cache[K, V]) Get(key K, filePath string) (V, bool) {
	var zero V

	c.mutex.RLock()
	item, exists := c.items[key]
	c.mutex.RUnlock()

	if !exists {
		return zero, false
	}

	if stat, err := os.Stat(filePath); err == nil {
		if stat.ModTime().Equal(item.modTime) && stat.Size() == item.size {
			return item.value, true
		}
	}

	c.Delete(key)
	return zero, false
}

// Set stores an item stamped with the current state of filePath
func (c *Cache[K, V]) Set(key K, value V, filePath string) error {
	stat, err := os.Stat(filePath)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items[key] = &cacheItem[V]{
		value:   value,
		modTime: stat.ModTime(),
		size:    stat.Size(),
	}
	return nil
}

// Delete removes an item from the cache
func (c *Cache[K, V]) Delete(key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.items, key)
}

// Size returns the number of items in the cache
func (c *Cache[K, V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.items)
}
