package services

import (
	"context"
	"errors"
	"log"

	"farmroute-backend/internal/models"
)

// DeliveryRoute is a route computation outcome. Route is nil when no route
// could be built, in which case Reason says why.
type DeliveryRoute struct {
	Route      *Route
	Reason     string
	Unresolved []UnresolvedOrder
}

// HasRoute reports whether a route was built
func (d *DeliveryRoute) HasRoute() bool {
	return d.Route != nil
}

// DeliveryRouteService collects stops for a set of orders and sequences them
type DeliveryRouteService struct {
	collector *StopCollector
	builder   *RouteBuilder
}

// NewDeliveryRouteService wires a collector and a builder together
func NewDeliveryRouteService(collector *StopCollector, builder *RouteBuilder) *DeliveryRouteService {
	return &DeliveryRouteService{
		collector: collector,
		builder:   builder,
	}
}

// PlanRoute computes a fresh route for orderIDs. Nothing is persisted;
// calling it again recomputes from current order data.
func (s *DeliveryRouteService) PlanRoute(ctx context.Context, orderIDs []string, driverLocation *Coordinates) *DeliveryRoute {
	collection := s.collector.CollectStops(ctx, orderIDs, driverLocation)

	out := &DeliveryRoute{Unresolved: collection.Unresolved}

	route, err := s.builder.BuildRoute(ctx, collection.Stops)
	switch {
	case err == nil:
		out.Route = route
	case errors.Is(err, ErrNoDeliveries):
		log.Printf("   ⚠️  No deliveries to route for %d orders", len(orderIDs))
		out.Reason = models.NoRouteReasonNoDeliveries
	default:
		log.Printf("   ❌ Route unavailable: %v", err)
		out.Reason = models.NoRouteReasonRoutingFailed
	}

	return out
}

// ToRouteResponse converts the outcome into the API shape
func (d *DeliveryRoute) ToRouteResponse() models.RouteResponse {
	resp := models.RouteResponse{
		HasRoute:         d.HasRoute(),
		Reason:           d.Reason,
		Stops:            []models.RouteStopResponse{},
		UnresolvedOrders: make([]models.UnresolvedOrderResponse, 0, len(d.Unresolved)),
	}

	for _, u := range d.Unresolved {
		resp.UnresolvedOrders = append(resp.UnresolvedOrders, models.UnresolvedOrderResponse{
			OrderID: u.OrderID,
			Reason:  u.Reason,
		})
	}

	if d.Route == nil {
		return resp
	}

	for _, s := range d.Route.Stops {
		resp.Stops = append(resp.Stops, models.RouteStopResponse{
			ID:         s.ID,
			Kind:       string(s.Kind),
			Address:    s.Address,
			Latitude:   s.Coordinates.Latitude,
			Longitude:  s.Coordinates.Longitude,
			OrderID:    s.OrderID,
			SellerName: s.SellerName,
			ItemCount:  s.ItemCount,
		})
	}
	resp.TotalDistanceMeters = d.Route.TotalDistanceMeters
	resp.TotalDurationSeconds = d.Route.TotalDurationSeconds
	resp.DistanceText = d.Route.DistanceText()
	resp.DurationText = d.Route.DurationText()
	resp.PathEncoding = d.Route.PathEncoding
	resp.NavigationURL = NavigationURL(d.Route.Stops)

	return resp
}
