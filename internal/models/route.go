package models

// BuildRouteRequest is the request body for POST /api/routes/build
type BuildRouteRequest struct {
	OrderIDs       []string        `json:"order_ids"`
	DriverLocation *DriverLocation `json:"driver_location,omitempty"`
}

// Reasons a route could not be produced
const (
	NoRouteReasonNoDeliveries  = "no_deliveries"
	NoRouteReasonRoutingFailed = "routing_failed"
)

// RouteStopResponse is one stop of a route as sent to the driver app
type RouteStopResponse struct {
	ID         string  `json:"id"`
	Kind       string  `json:"kind"` // "pickup" or "delivery"
	Address    string  `json:"address"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	OrderID    string  `json:"order_id,omitempty"`
	SellerName string  `json:"seller_name,omitempty"`
	ItemCount  int     `json:"item_count,omitempty"`
}

// UnresolvedOrderResponse explains why an order is missing from the route
type UnresolvedOrderResponse struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

// RouteResponse is the driver map payload. HasRoute=false is the explicit
// "no route" state; the app shows "No Active Deliveries".
type RouteResponse struct {
	HasRoute             bool                      `json:"has_route"`
	Reason               string                    `json:"reason,omitempty"`
	Stops                []RouteStopResponse       `json:"stops"`
	TotalDistanceMeters  int                       `json:"total_distance_meters"`
	TotalDurationSeconds int                       `json:"total_duration_seconds"`
	DistanceText         string                    `json:"distance_text,omitempty"`
	DurationText         string                    `json:"duration_text,omitempty"`
	PathEncoding         string                    `json:"path_encoding,omitempty"`
	NavigationURL        string                    `json:"navigation_url,omitempty"`
	UnresolvedOrders     []UnresolvedOrderResponse `json:"unresolved_orders"`
}
