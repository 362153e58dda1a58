package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"
)

const hereGeocodeURL = "https://geocode.search.hereapi.com/v1/geocode"

// hereGeocodeResponse represents the response from HERE Geocoding API
type hereGeocodeResponse struct {
	Items []struct {
		Position struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"position"`
		Address struct {
			Label string `json:"label"`
		} `json:"address"`
		Scoring struct {
			QueryScore float64 `json:"queryScore"`
		} `json:"scoring"`
	} `json:"items"`
}

// HEREGeocoder geocodes addresses using the HERE Geocoding & Search API v1
type HEREGeocoder struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewHEREGeocoder creates a HERE geocoder. ratePerSecond <= 0 disables limiting.
func NewHEREGeocoder(apiKey string, ratePerSecond float64, client *http.Client) *HEREGeocoder {
	if client == nil {
		client = http.DefaultClient
	}
	return &HEREGeocoder{
		apiKey:  apiKey,
		baseURL: hereGeocodeURL,
		client:  client,
		limiter: newProviderLimiter(ratePerSecond),
	}
}

// Geocode returns the position of the first (best) HERE match for address
func (h *HEREGeocoder) Geocode(ctx context.Context, address string) (Coordinates, error) {
	if err := h.limiter.Wait(ctx); err != nil {
		return Coordinates{}, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Add("q", address)
	params.Add("apiKey", h.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("failed to build geocoding request: %w", err)
	}

	log.Printf("🌍 Geocoding: %s", address)

	resp, err := h.client.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("failed to make geocoding request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Coordinates{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("geocoding API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result hereGeocodeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return Coordinates{}, fmt.Errorf("failed to parse geocoding response: %w", err)
	}

	if len(result.Items) == 0 {
		return Coordinates{}, ErrGeocodeNoMatch
	}

	best := result.Items[0]
	log.Printf("   ✅ Found: %.6f, %.6f (confidence: %.2f)", best.Position.Lat, best.Position.Lng, best.Scoring.QueryScore)

	return Coordinates{Latitude: best.Position.Lat, Longitude: best.Position.Lng}, nil
}
