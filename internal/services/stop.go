package services

import "fmt"

// Coordinates represents latitude and longitude
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// String formats coordinates as "lat,lng" the way mapping APIs expect
func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}

// StopKind distinguishes where goods are collected from where they are dropped off
type StopKind string

const (
	StopKindPickup   StopKind = "pickup"
	StopKindDelivery StopKind = "delivery"
)

const (
	DriverStartStopID    = "driver-start"
	DriverStartAddress   = "Your Location"
	pickupStopIDPrefix   = "pickup-"
	deliveryStopIDPrefix = "delivery-"
)

// Stop is a single location the driver must visit. Stops are passed by
// value and never modified after construction.
type Stop struct {
	ID          string
	Kind        StopKind
	Address     string
	Coordinates Coordinates

	// Delivery stops only
	OrderID string

	// Pickup stops only
	SellerName string
	ItemCount  int
}

// IsDriverStart reports whether the stop is the synthetic origin at the
// driver's current position
func (s Stop) IsDriverStart() bool {
	return s.ID == DriverStartStopID
}

func newDriverStartStop(location Coordinates) Stop {
	return Stop{
		ID:          DriverStartStopID,
		Kind:        StopKindPickup,
		Address:     DriverStartAddress,
		Coordinates: location,
	}
}

func newDeliveryStop(orderID, address string, coords Coordinates) Stop {
	return Stop{
		ID:          deliveryStopIDPrefix + orderID,
		Kind:        StopKindDelivery,
		Address:     address,
		Coordinates: coords,
		OrderID:     orderID,
	}
}

func newPickupStop(sellerID, sellerName, address string, itemCount int, coords Coordinates) Stop {
	return Stop{
		ID:          pickupStopIDPrefix + sellerID,
		Kind:        StopKindPickup,
		Address:     address,
		Coordinates: coords,
		SellerName:  sellerName,
		ItemCount:   itemCount,
	}
}

// Route is the optimized itinerary for a set of orders
type Route struct {
	Stops                []Stop
	TotalDistanceMeters  int
	TotalDurationSeconds int

	// Provider polyline, passed through untouched
	PathEncoding string
}

// DistanceText is the route distance for display
func (r *Route) DistanceText() string {
	return FormatDistance(float64(r.TotalDistanceMeters))
}

// DurationText is the route duration for display
func (r *Route) DurationText() string {
	return FormatDuration(r.TotalDurationSeconds)
}
