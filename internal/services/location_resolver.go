package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// ErrGeocodeNoMatch is returned by geocoders when the provider reports no result
var ErrGeocodeNoMatch = errors.New("no geocoding match")

// Geocoder turns a free-text address into coordinates using an external provider
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Coordinates, error)
}

// Resolution is the outcome of resolving one address. The zero value is
// NotFound; coordinates are only reachable through Coordinates().
type Resolution struct {
	coords Coordinates
	found  bool
}

// Resolved wraps coordinates in a successful Resolution
func Resolved(coords Coordinates) Resolution {
	return Resolution{coords: coords, found: true}
}

// NotFound is the failed Resolution
func NotFound() Resolution {
	return Resolution{}
}

// Found reports whether the address resolved
func (r Resolution) Found() bool { return r.found }

// Coordinates returns the resolved position and whether there is one
func (r Resolution) Coordinates() (Coordinates, bool) {
	return r.coords, r.found
}

// LocationResolver resolves addresses through a Geocoder. Every failure
// (no match, provider error, timeout, panic) is reported as NotFound.
type LocationResolver struct {
	geocoder Geocoder
	timeout  time.Duration
	cache    *GeocodeCache
}

// NewLocationResolver creates a resolver. timeout bounds each provider call
// (0 leaves it to the caller's context); cache may be nil.
func NewLocationResolver(geocoder Geocoder, timeout time.Duration, cache *GeocodeCache) *LocationResolver {
	return &LocationResolver{
		geocoder: geocoder,
		timeout:  timeout,
		cache:    cache,
	}
}

// normalizeAddress collapses whitespace so equivalent strings share a cache key
func normalizeAddress(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Resolve geocodes address, returning NotFound on any failure
func (r *LocationResolver) Resolve(ctx context.Context, address string) Resolution {
	norm := normalizeAddress(address)
	if norm == "" {
		return NotFound()
	}

	if r.cache != nil {
		if coords, ok := r.cache.Get(norm); ok {
			return Resolved(coords)
		}
	}

	coords, err := r.geocode(ctx, norm)
	if err != nil {
		if errors.Is(err, ErrGeocodeNoMatch) {
			log.Printf("   ⚠️  No geocoding match for %q", norm)
		} else {
			log.Printf("   ❌ Geocoding failed for %q: %v", norm, err)
		}
		return NotFound()
	}

	if !validCoordinates(coords) {
		log.Printf("   ❌ Geocoder returned invalid coordinates for %q: %s", norm, coords)
		return NotFound()
	}

	if r.cache != nil {
		r.cache.Set(norm, coords)
	}

	return Resolved(coords)
}

func (r *LocationResolver) geocode(ctx context.Context, address string) (coords Coordinates, err error) {
	if r.geocoder == nil {
		return Coordinates{}, errors.New("no geocoder configured")
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("geocoder panic: %v", p)
		}
	}()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	return r.geocoder.Geocode(ctx, address)
}

func validCoordinates(c Coordinates) bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}
