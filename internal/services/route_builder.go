package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

var (
	// ErrNoRoute means no itinerary could be produced. Every error from
	// BuildRoute matches it.
	ErrNoRoute = errors.New("no route")

	// ErrNoDeliveries means there was nothing to deliver
	ErrNoDeliveries = fmt.Errorf("%w: no deliveries", ErrNoRoute)
)

// TravelModeDriving is the only mode the driver app uses
const TravelModeDriving = "driving"

// OptimizeRequest asks a provider to order Waypoints between Origin and Destination
type OptimizeRequest struct {
	Origin      Coordinates
	Destination Coordinates
	Waypoints   []Coordinates
	Mode        string
}

// OptimizeResult is the provider's answer. WaypointOrder is a permutation of
// request waypoint indices; legs run origin -> ... -> destination.
type OptimizeResult struct {
	WaypointOrder       []int
	LegDistancesMeters  []int
	LegDurationsSeconds []int
	EncodedPath         string
}

// RouteOptimizer sequences waypoints through an external routing service
type RouteOptimizer interface {
	OptimizeRoute(ctx context.Context, req OptimizeRequest) (*OptimizeResult, error)
}

// RouteBuilder turns collected stops into an optimized Route
type RouteBuilder struct {
	optimizer RouteOptimizer
	timeout   time.Duration
}

// NewRouteBuilder creates a builder. timeout bounds the optimizer call
// (0 leaves it to the caller's context).
func NewRouteBuilder(optimizer RouteOptimizer, timeout time.Duration) *RouteBuilder {
	return &RouteBuilder{
		optimizer: optimizer,
		timeout:   timeout,
	}
}

// routePlan carries a route through its construction stages:
// selectOrigin -> selectDestination -> partitionWaypoints -> reorder -> aggregate
type routePlan struct {
	pickups     []Stop
	deliveries  []Stop
	origin      Stop
	originIdx   int // index into pickups, or -1 when origin is a delivery
	destination Stop
	destIdx     int // index into deliveries
	waypoints   []Stop
	ordered     []Stop
}

func newRoutePlan(stops []Stop) *routePlan {
	p := &routePlan{originIdx: -1, destIdx: -1}
	for _, s := range stops {
		if s.Kind == StopKindDelivery {
			p.deliveries = append(p.deliveries, s)
		} else {
			p.pickups = append(p.pickups, s)
		}
	}
	return p
}

// selectOrigin picks the driver position, else the first pickup, else the
// first delivery
func (p *routePlan) selectOrigin() {
	for i, s := range p.pickups {
		if s.IsDriverStart() {
			p.origin, p.originIdx = s, i
			return
		}
	}
	if len(p.pickups) > 0 {
		p.origin, p.originIdx = p.pickups[0], 0
		return
	}
	p.origin, p.originIdx = p.deliveries[0], -1
}

// selectDestination picks the last delivery by input order
func (p *routePlan) selectDestination() {
	p.destIdx = len(p.deliveries) - 1
	p.destination = p.deliveries[p.destIdx]
}

// originIsDestination is true for a single-delivery, no-pickup route
func (p *routePlan) originIsDestination() bool {
	return p.originIdx == -1 && p.destIdx == 0
}

// partitionWaypoints collects every stop except origin and destination:
// remaining pickups first, then remaining deliveries
func (p *routePlan) partitionWaypoints() {
	p.waypoints = make([]Stop, 0, len(p.pickups)+len(p.deliveries))
	for i, s := range p.pickups {
		if i == p.originIdx {
			continue
		}
		p.waypoints = append(p.waypoints, s)
	}
	for i, s := range p.deliveries {
		if i == p.destIdx || (p.originIdx == -1 && i == 0) {
			continue
		}
		p.waypoints = append(p.waypoints, s)
	}
}

func (p *routePlan) request() OptimizeRequest {
	coords := make([]Coordinates, len(p.waypoints))
	for i, w := range p.waypoints {
		coords[i] = w.Coordinates
	}
	return OptimizeRequest{
		Origin:      p.origin.Coordinates,
		Destination: p.destination.Coordinates,
		Waypoints:   coords,
		Mode:        TravelModeDriving,
	}
}

// reorder rebuilds the stop sequence as origin ++ waypoints[order...] ++
// destination. order must be a permutation of waypoint indices.
func (p *routePlan) reorder(order []int) error {
	if len(order) != len(p.waypoints) {
		return fmt.Errorf("waypoint order has %d entries, want %d", len(order), len(p.waypoints))
	}

	seen := make([]bool, len(p.waypoints))
	ordered := make([]Stop, 0, len(p.waypoints)+2)
	ordered = append(ordered, p.origin)
	for _, idx := range order {
		if idx < 0 || idx >= len(p.waypoints) {
			return fmt.Errorf("waypoint index %d out of range", idx)
		}
		if seen[idx] {
			return fmt.Errorf("waypoint index %d repeated", idx)
		}
		seen[idx] = true
		ordered = append(ordered, p.waypoints[idx])
	}
	if !p.originIsDestination() {
		ordered = append(ordered, p.destination)
	}

	p.ordered = ordered
	return nil
}

// aggregate sums per-leg metrics into a Route. There must be exactly one leg
// between each pair of consecutive ordered stops.
func (p *routePlan) aggregate(result *OptimizeResult) (*Route, error) {
	if len(result.LegDistancesMeters) != len(result.LegDurationsSeconds) {
		return nil, fmt.Errorf("leg metrics mismatch: %d distances, %d durations",
			len(result.LegDistancesMeters), len(result.LegDurationsSeconds))
	}
	wantLegs := len(p.ordered) - 1
	if wantLegs < 1 || len(result.LegDistancesMeters) != wantLegs {
		return nil, fmt.Errorf("provider returned %d legs for %d stops",
			len(result.LegDistancesMeters), len(p.ordered))
	}

	route := &Route{
		Stops:        p.ordered,
		PathEncoding: result.EncodedPath,
	}
	for i := range result.LegDistancesMeters {
		route.TotalDistanceMeters += result.LegDistancesMeters[i]
		route.TotalDurationSeconds += result.LegDurationsSeconds[i]
	}
	return route, nil
}

// BuildRoute asks the optimizer for the best visiting order of stops. It
// fails with ErrNoDeliveries when stops has no delivery and with ErrNoRoute
// when the provider fails or answers with something unusable.
func (b *RouteBuilder) BuildRoute(ctx context.Context, stops []Stop) (route *Route, err error) {
	plan := newRoutePlan(stops)
	if len(plan.deliveries) == 0 {
		return nil, ErrNoDeliveries
	}

	plan.selectOrigin()
	plan.selectDestination()
	plan.partitionWaypoints()

	log.Printf("🗺️  Building route: origin=%s destination=%s waypoints=%d",
		plan.origin.ID, plan.destination.ID, len(plan.waypoints))

	if plan.originIsDestination() {
		if err := plan.reorder(nil); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoRoute, err)
		}
		return &Route{Stops: plan.ordered}, nil
	}

	result, err := b.optimize(ctx, plan.request())
	if err != nil {
		log.Printf("   ❌ Route optimization failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrNoRoute, err)
	}

	if err := plan.reorder(result.WaypointOrder); err != nil {
		log.Printf("   ❌ Unusable waypoint order: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrNoRoute, err)
	}

	route, err = plan.aggregate(result)
	if err != nil {
		log.Printf("   ❌ Unusable route metrics: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrNoRoute, err)
	}

	log.Printf("   ✅ Route built: %d stops, %s, %s",
		len(route.Stops), route.DistanceText(), route.DurationText())

	return route, nil
}

func (b *RouteBuilder) optimize(ctx context.Context, req OptimizeRequest) (result *OptimizeResult, err error) {
	if b.optimizer == nil {
		return nil, errors.New("no route optimizer configured")
	}

	defer func() {
		if p := recover(); p != nil {
			result, err = nil, fmt.Errorf("optimizer panic: %v", p)
		}
	}()

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	result, err = b.optimizer.OptimizeRoute(ctx, req)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, errors.New("optimizer returned no result")
	}
	return result, nil
}
