package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panickingGeocoder struct{}

func (panickingGeocoder) Geocode(ctx context.Context, address string) (Coordinates, error) {
	panic("boom")
}

type slowGeocoder struct{}

func (slowGeocoder) Geocode(ctx context.Context, address string) (Coordinates, error) {
	select {
	case <-ctx.Done():
		return Coordinates{}, ctx.Err()
	case <-time.After(time.Second):
		return Coordinates{Latitude: 1, Longitude: 1}, nil
	}
}

type fixedGeocoder struct{ coords Coordinates }

func (g fixedGeocoder) Geocode(ctx context.Context, address string) (Coordinates, error) {
	return g.coords, nil
}

func TestResolve_Found(t *testing.T) {
	geocoder := newFakeGeocoder(map[string]Coordinates{"1 Main St, Aptos, CA": coordsX})
	resolver := NewLocationResolver(geocoder, time.Second, nil)

	res := resolver.Resolve(context.Background(), "  1 Main St,   Aptos, CA ")
	require.True(t, res.Found())

	coords, ok := res.Coordinates()
	assert.True(t, ok)
	assert.Equal(t, coordsX, coords)
}

func TestResolve_FailuresAreNotFound(t *testing.T) {
	erroring := newFakeGeocoder(nil)
	erroring.errs["bad"] = errors.New("OVER_QUERY_LIMIT")

	tests := []struct {
		name     string
		geocoder Geocoder
		address  string
		timeout  time.Duration
	}{
		{"empty address", newFakeGeocoder(nil), "   ", 0},
		{"no match", newFakeGeocoder(nil), "unknown", 0},
		{"provider error", erroring, "bad", 0},
		{"panic", panickingGeocoder{}, "anything", 0},
		{"timeout", slowGeocoder{}, "anything", 10 * time.Millisecond},
		{"invalid coordinates", fixedGeocoder{Coordinates{Latitude: 123, Longitude: 0}}, "anything", 0},
		{"nil geocoder", nil, "anything", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewLocationResolver(tt.geocoder, tt.timeout, nil).Resolve(context.Background(), tt.address)

			assert.False(t, res.Found())
			coords, ok := res.Coordinates()
			assert.False(t, ok)
			assert.Equal(t, Coordinates{}, coords)
		})
	}
}

func TestResolve_CachesSuccessesOnly(t *testing.T) {
	geocoder := newFakeGeocoder(map[string]Coordinates{"good": coordsX})
	cache := NewGeocodeCache(10, time.Minute)
	resolver := NewLocationResolver(geocoder, 0, cache)

	for i := 0; i < 3; i++ {
		assert.True(t, resolver.Resolve(context.Background(), "good").Found())
		assert.False(t, resolver.Resolve(context.Background(), "bad").Found())
	}

	assert.Equal(t, 1, geocoder.callCount("good"))
	assert.Equal(t, 3, geocoder.callCount("bad"))
	assert.Equal(t, 1, cache.Len())
}

func TestResolutionZeroValueIsNotFound(t *testing.T) {
	var res Resolution
	assert.False(t, res.Found())
	assert.Equal(t, NotFound(), res)
	assert.True(t, Resolved(coordsY).Found())
}
