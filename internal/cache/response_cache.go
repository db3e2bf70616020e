package cache

import (
	"strings"
	"sync"
	"time"
)

// ResponseCache keeps read-only API responses for a limited time
type ResponseCache struct {
	cache      map[string]*CacheEntry
	mutex      sync.RWMutex
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// CacheEntry represents a cached response
type CacheEntry struct {
	Value     interface{}
	Timestamp time.Time
	Hits      int64
}

// NewResponseCache creates a new response cache
func NewResponseCache(ttl time.Duration, maxEntries int) *ResponseCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if maxEntries <= 0 {
		maxEntries = 256
	}

	return &ResponseCache{
		cache:      make(map[string]*CacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get retrieves a cached response if available and not expired
func (c *ResponseCache) Get(key string) (interface{}, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.cache[key]
	if !exists {
		return nil, false
	}

	if c.now().Sub(entry.Timestamp) > c.ttl {
		return nil, false
	}

	entry.Hits++
	return entry.Value, true
}

// Set stores a response in the cache
func (c *ResponseCache) Set(key string, value interface{}) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.cache[key]; !exists && len(c.cache) >= c.maxEntries {
		c.evictOldest()
	}

	c.cache[key] = &CacheEntry{
		Value:     value,
		Timestamp: c.now(),
	}
}

// Invalidate removes one key
func (c *ResponseCache) Invalidate(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.cache, key)
}

// InvalidatePrefix removes every key starting with prefix and returns how many were removed
func (c *ResponseCache) InvalidatePrefix(prefix string) int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var removed int
	for key := range c.cache {
		if strings.HasPrefix(key, prefix) {
			delete(c.cache, key)
			removed++
		}
	}
	return removed
}

// Stats returns cache statistics
func (c *ResponseCache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var totalHits int64
	var expiredEntries int
	now := c.now()

	for _, entry := range c.cache {
		totalHits += entry.Hits
		if now.Sub(entry.Timestamp) > c.ttl {
			expiredEntries++
		}
	}

	return CacheStats{
		TotalEntries:   len(c.cache),
		ExpiredEntries: expiredEntries,
		TotalHits:      totalHits,
		TTL:            c.ttl,
		MaxEntries:     c.maxEntries,
	}
}

// CacheStats represents cache statistics
type CacheStats struct {
	TotalEntries   int
	ExpiredEntries int
	TotalHits      int64
	TTL            time.Duration
	MaxEntries     int
}

// evictOldest removes the oldest entry, preferring the least hit one on ties
func (c *ResponseCache) evictOldest() {
	var oldestKey string
	var oldest *CacheEntry

	for key, entry := range c.cache {
		if oldest == nil || entry.Timestamp.Before(oldest.Timestamp) ||
			(entry.Timestamp.Equal(oldest.Timestamp) && entry.Hits < oldest.Hits) {
			oldestKey = key
			oldest = entry
		}
	}

	if oldest != nil {
		delete(c.cache, oldestKey)
	}
}

// CleanupExpired removes expired entries from the cache
func (c *ResponseCache) CleanupExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var removed int
	now := c.now()

	for key, entry := range c.cache {
		if now.Sub(entry.Timestamp) > c.ttl {
			delete(c.cache, key)
			removed++
		}
	}

	return removed
}
