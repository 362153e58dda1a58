package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"
)

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleGeocoder geocodes and reverse-geocodes through the Google Maps Geocoding API
type GoogleGeocoder struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// ReverseGeocodeResult is a formatted address for a coordinate pair
type ReverseGeocodeResult struct {
	FormattedAddress string      `json:"formatted_address"`
	Coordinates      Coordinates `json:"coordinates"`
}

type googleGeocodeResponse struct {
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewGoogleGeocoder creates a geocoder. ratePerSecond <= 0 disables limiting.
func NewGoogleGeocoder(apiKey string, ratePerSecond float64, client *http.Client) *GoogleGeocoder {
	if client == nil {
		client = http.DefaultClient
	}
	return &GoogleGeocoder{
		apiKey:  apiKey,
		baseURL: googleGeocodeURL,
		client:  client,
		limiter: newProviderLimiter(ratePerSecond),
	}
}

// newProviderLimiter allows ratePerSecond requests with a burst of the same size
func newProviderLimiter(ratePerSecond float64) *rate.Limiter {
	if ratePerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(ratePerSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(ratePerSecond), burst)
}

// Geocode converts an address string to coordinates using the first result
func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (Coordinates, error) {
	params := url.Values{}
	params.Add("address", address)
	params.Add("key", g.apiKey)

	result, err := g.lookup(ctx, params)
	if err != nil {
		return Coordinates{}, err
	}

	loc := result.Results[0].Geometry.Location
	return Coordinates{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}

// ReverseGeocode converts coordinates to the best formatted address
func (g *GoogleGeocoder) ReverseGeocode(ctx context.Context, coords Coordinates) (*ReverseGeocodeResult, error) {
	params := url.Values{}
	params.Add("latlng", coords.String())
	params.Add("key", g.apiKey)

	result, err := g.lookup(ctx, params)
	if err != nil {
		return nil, err
	}

	return &ReverseGeocodeResult{
		FormattedAddress: result.Results[0].FormattedAddress,
		Coordinates:      coords,
	}, nil
}

// lookup performs one API call. A response with at least one result is
// guaranteed on success.
func (g *GoogleGeocoder) lookup(ctx context.Context, params url.Values) (*googleGeocodeResponse, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status code %d", resp.StatusCode)
	}

	var result googleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	switch result.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, ErrGeocodeNoMatch
	default:
		log.Printf("   ❌ [Google] Geocoding status %s: %s", result.Status, result.ErrorMessage)
		return nil, fmt.Errorf("geocoding API returned status: %s", result.Status)
	}

	if len(result.Results) == 0 {
		return nil, ErrGeocodeNoMatch
	}

	return &result, nil
}
