package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	hereWaypointsURL = "https://wps.hereapi.com/v8/findsequence2"

	hereStartID        = "start"
	hereEndID          = "end"
	hereDestinationIDs = "wp"
)

// hereSequenceResponse is the slice of the findsequence2 response we use
type hereSequenceResponse struct {
	Results []struct {
		Waypoints []struct {
			ID       string `json:"id"`
			Sequence int    `json:"sequence"`
		} `json:"waypoints"`
		Distance         string `json:"distance"`
		Time             string `json:"time"`
		Interconnections []struct {
			FromWaypoint string  `json:"fromWaypoint"`
			ToWaypoint   string  `json:"toWaypoint"`
			Distance     float64 `json:"distance"` // meters
			Time         float64 `json:"time"`     // seconds
		} `json:"interconnections"`
	} `json:"results"`
}

// HEREWaypointsOptimizer sequences stops with the HERE Waypoints Sequence API v8.
// HERE returns no path geometry, so EncodedPath is always empty.
type HEREWaypointsOptimizer struct {
	apiKey  string
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// NewHEREWaypointsOptimizer creates a HERE waypoints optimizer
func NewHEREWaypointsOptimizer(apiKey string, client *http.Client) *HEREWaypointsOptimizer {
	if client == nil {
		client = http.DefaultClient
	}
	return &HEREWaypointsOptimizer{
		apiKey:  apiKey,
		baseURL: hereWaypointsURL,
		client:  client,
		now:     time.Now,
	}
}

func hereWaypointID(i int) string {
	return hereDestinationIDs + strconv.Itoa(i)
}

// OptimizeRoute calls findsequence2 with a fixed start and end and maps the
// returned sequence back to request waypoint indices
func (s *HEREWaypointsOptimizer) OptimizeRoute(ctx context.Context, req OptimizeRequest) (*OptimizeResult, error) {
	log.Printf("🗺️  [HERE Maps] Optimizing route with %d waypoints", len(req.Waypoints))
	log.Printf("   Start: %s", req.Origin)
	log.Printf("   End: %s", req.Destination)

	params := url.Values{}
	params.Add("apiKey", s.apiKey)
	params.Add("mode", "fastest;car;traffic:enabled")
	params.Add("improveFor", "time")
	params.Add("departure", s.now().UTC().Format(time.RFC3339))
	params.Add("start", fmt.Sprintf("%s;%s", hereStartID, req.Origin))
	for i, wp := range req.Waypoints {
		params.Add(fmt.Sprintf("destination%d", i+1), fmt.Sprintf("%s;%s", hereWaypointID(i), wp))
	}
	params.Add("end", fmt.Sprintf("%s;%s", hereEndID, req.Destination))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	log.Printf("   📡 Calling HERE Maps API...")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("   ❌ HERE Maps API error (%d): %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("HERE Maps API returned status %d", resp.StatusCode)
	}

	var hereResp hereSequenceResponse
	if err := json.Unmarshal(body, &hereResp); err != nil {
		log.Printf("   ❌ Failed to parse HERE response: %v", err)
		return nil, fmt.Errorf("failed to parse HERE response: %w", err)
	}

	if len(hereResp.Results) == 0 {
		return nil, fmt.Errorf("HERE Maps returned no results")
	}
	result := hereResp.Results[0]

	sequenced := result.Waypoints
	sort.SliceStable(sequenced, func(a, b int) bool {
		return sequenced[a].Sequence < sequenced[b].Sequence
	})

	order := make([]int, 0, len(req.Waypoints))
	for _, wp := range sequenced {
		if wp.ID == hereStartID || wp.ID == hereEndID {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(wp.ID, hereDestinationIDs))
		if err != nil || !strings.HasPrefix(wp.ID, hereDestinationIDs) {
			return nil, fmt.Errorf("unknown waypoint id %q in HERE response", wp.ID)
		}
		order = append(order, idx)
	}

	out := &OptimizeResult{
		WaypointOrder:       order,
		LegDistancesMeters:  make([]int, 0, len(result.Interconnections)),
		LegDurationsSeconds: make([]int, 0, len(result.Interconnections)),
	}
	for _, leg := range result.Interconnections {
		out.LegDistancesMeters = append(out.LegDistancesMeters, int(math.Round(leg.Distance)))
		out.LegDurationsSeconds = append(out.LegDurationsSeconds, int(math.Round(leg.Time)))
	}

	log.Printf("   ✅ HERE Maps optimization successful!")
	log.Printf("      Total Distance: %s m", result.Distance)
	log.Printf("      Total Duration: %s s", result.Time)
	log.Printf("      Optimized Order: %v", order)

	return out, nil
}
