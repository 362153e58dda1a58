package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
)

const googleDirectionsURL = "https://maps.googleapis.com/maps/api/directions/json"

type googleDirectionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Routes       []struct {
		WaypointOrder []int `json:"waypoint_order"`
		Legs          []struct {
			Distance struct {
				Value int `json:"value"` // meters
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"` // seconds
			} `json:"duration"`
		} `json:"legs"`
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
	} `json:"routes"`
}

// GoogleDirectionsOptimizer sequences stops with the Google Directions API
// using waypoints=optimize:true
type GoogleDirectionsOptimizer struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGoogleDirectionsOptimizer creates a Directions-backed optimizer
func NewGoogleDirectionsOptimizer(apiKey string, client *http.Client) *GoogleDirectionsOptimizer {
	if client == nil {
		client = http.DefaultClient
	}
	return &GoogleDirectionsOptimizer{
		apiKey:  apiKey,
		baseURL: googleDirectionsURL,
		client:  client,
	}
}

// OptimizeRoute requests an optimized driving route through req.Waypoints
func (g *GoogleDirectionsOptimizer) OptimizeRoute(ctx context.Context, req OptimizeRequest) (*OptimizeResult, error) {
	mode := req.Mode
	if mode == "" {
		mode = TravelModeDriving
	}

	params := url.Values{}
	params.Add("origin", req.Origin.String())
	params.Add("destination", req.Destination.String())
	params.Add("mode", mode)
	params.Add("key", g.apiKey)
	if len(req.Waypoints) > 0 {
		points := make([]string, len(req.Waypoints))
		for i, wp := range req.Waypoints {
			points[i] = wp.String()
		}
		params.Add("waypoints", "optimize:true|"+strings.Join(points, "|"))
	}

	log.Printf("🗺️  [Google] Requesting directions with %d waypoints", len(req.Waypoints))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directions API returned status code %d", resp.StatusCode)
	}

	var result googleDirectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if result.Status != "OK" {
		log.Printf("   ❌ [Google] Directions status %s: %s", result.Status, result.ErrorMessage)
		return nil, fmt.Errorf("directions API returned status: %s", result.Status)
	}
	if len(result.Routes) == 0 {
		return nil, fmt.Errorf("directions API returned no routes")
	}

	route := result.Routes[0]
	out := &OptimizeResult{
		WaypointOrder:       route.WaypointOrder,
		LegDistancesMeters:  make([]int, len(route.Legs)),
		LegDurationsSeconds: make([]int, len(route.Legs)),
		EncodedPath:         route.OverviewPolyline.Points,
	}
	if out.WaypointOrder == nil {
		out.WaypointOrder = []int{}
	}
	for i, leg := range route.Legs {
		out.LegDistancesMeters[i] = leg.Distance.Value
		out.LegDurationsSeconds[i] = leg.Duration.Value
	}

	log.Printf("   ✅ [Google] %d legs, order %v", len(route.Legs), out.WaypointOrder)

	return out, nil
}
