package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(maxEntries int, ttl time.Duration) (*GeocodeCache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	cache := NewGeocodeCache(maxEntries, ttl)
	cache.now = clock.now
	return cache, clock
}

func TestGeocodeCache_GetSet(t *testing.T) {
	cache, _ := newTestCache(10, time.Minute)

	_, ok := cache.Get("a")
	assert.False(t, ok)

	cache.Set("a", coordsX)
	got, ok := cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, coordsX, got)

	stats := cache.GetStats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, "50.00%", stats["hit_rate"])
}

func TestGeocodeCache_Expiry(t *testing.T) {
	cache, clock := newTestCache(10, time.Minute)
	cache.Set("a", coordsX)

	clock.advance(59 * time.Second)
	_, ok := cache.Get("a")
	assert.True(t, ok)

	clock.advance(2 * time.Second)
	_, ok = cache.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestGeocodeCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache, clock := newTestCache(2, time.Hour)

	cache.Set("a", coordsX)
	clock.advance(time.Second)
	cache.Set("b", coordsY)
	clock.advance(time.Second)
	cache.Get("a")
	clock.advance(time.Second)
	cache.Set("c", coordsS1)

	_, okA := cache.Get("a")
	_, okB := cache.Get("b")
	_, okC := cache.Get("c")
	assert.True(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)
	assert.Equal(t, 2, cache.Len())
}

func TestGeocodeCache_EvictsExpiredFirst(t *testing.T) {
	cache, clock := newTestCache(2, time.Minute)

	cache.Set("old", coordsX)
	clock.advance(2 * time.Minute)
	cache.Set("fresh", coordsY)
	cache.Set("new", coordsS1)

	_, okFresh := cache.Get("fresh")
	_, okNew := cache.Get("new")
	assert.True(t, okFresh)
	assert.True(t, okNew)
	assert.Equal(t, 2, cache.Len())
}
