package models

import "fmt"

// DriverLocation is the driver's current position as reported by the app.
// It is only used as the optional origin of a route and is never stored.
type DriverLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks that the position is a real lat/lng pair
func (l DriverLocation) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("latitude %.6f out of range", l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("longitude %.6f out of range", l.Longitude)
	}
	return nil
}
