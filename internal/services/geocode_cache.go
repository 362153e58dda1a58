package services

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// GeocodeCache holds recent successful geocodes keyed on the normalized
// address string. Entries expire after ttl; when full the least recently
// used entry is evicted. Expired entries are dropped lazily on access.
type GeocodeCache struct {
	entries    map[string]*geocodeCacheEntry
	mutex      sync.Mutex
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
	stats      GeocodeCacheStats
}

type geocodeCacheEntry struct {
	coords       Coordinates
	createdAt    time.Time
	lastAccessed time.Time
	hitCount     int
}

// GeocodeCacheStats tracks cache performance
type GeocodeCacheStats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

// NewGeocodeCache creates a cache holding up to maxEntries addresses for ttl
func NewGeocodeCache(maxEntries int, ttl time.Duration) *GeocodeCache {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &GeocodeCache{
		entries:    make(map[string]*geocodeCacheEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Get returns cached coordinates for address if present and fresh
func (c *GeocodeCache) Get(address string) (Coordinates, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, found := c.entries[address]
	if !found {
		c.stats.Misses++
		return Coordinates{}, false
	}

	now := c.now()
	if now.Sub(entry.createdAt) > c.ttl {
		delete(c.entries, address)
		c.stats.Misses++
		c.stats.Evictions++
		return Coordinates{}, false
	}

	entry.lastAccessed = now
	entry.hitCount++
	c.stats.Hits++
	return entry.coords, true
}

// Set stores coordinates for address
func (c *GeocodeCache) Set(address string, coords Coordinates) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.entries[address]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	now := c.now()
	c.entries[address] = &geocodeCacheEntry{
		coords:       coords,
		createdAt:    now,
		lastAccessed: now,
	}
}

// evictOldest removes expired entries, or the least recently used one if
// nothing has expired. Caller holds the mutex.
func (c *GeocodeCache) evictOldest() {
	now := c.now()
	expired := 0
	for key, entry := range c.entries {
		if now.Sub(entry.createdAt) > c.ttl {
			delete(c.entries, key)
			expired++
		}
	}
	if expired > 0 {
		c.stats.Evictions += int64(expired)
		return
	}

	var oldestKey string
	var oldestTime time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.lastAccessed.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.lastAccessed
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
		c.stats.Evictions++
		log.Printf("🗑️  Evicted oldest geocode entry: %s", oldestKey)
	}
}

// Len returns the number of cached addresses, fresh or not
func (c *GeocodeCache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.entries)
}

// GetStats returns cache statistics
func (c *GeocodeCache) GetStats() map[string]interface{} {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	hitRate := 0.0
	total := c.stats.Hits + c.stats.Misses
	if total > 0 {
		hitRate = float64(c.stats.Hits) / float64(total) * 100
	}

	return map[string]interface{}{
		"cache_size":  len(c.entries),
		"max_entries": c.maxEntries,
		"hits":        c.stats.Hits,
		"misses":      c.stats.Misses,
		"hit_rate":    fmt.Sprintf("%.2f%%", hitRate),
		"evictions":   c.stats.Evictions,
		"ttl_minutes": int(c.ttl.Minutes()),
	}
}
