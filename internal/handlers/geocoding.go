package handlers

import (
	"context"
	"log"
	"net/http"

	"farmroute-backend/internal/models"
	"farmroute-backend/internal/services"
	"farmroute-backend/pkg/utils"
)

// AddressResolver resolves addresses to coordinates
type AddressResolver interface {
	Resolve(ctx context.Context, address string) services.Resolution
}

// ReverseGeocoder turns coordinates into an address
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, coords services.Coordinates) (*services.ReverseGeocodeResult, error)
}

// ReverseGeocodeRequest represents a request to reverse geocode coordinates
type ReverseGeocodeRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GeocodeRequest represents a request to geocode an address
type GeocodeRequest struct {
	Address string `json:"address"`
}

// GeocodeResponse is a successful forward geocode
type GeocodeResponse struct {
	Address     string               `json:"address"`
	Coordinates services.Coordinates `json:"coordinates"`
}

// Geocode handles POST /api/geocoding/forward
func Geocode(resolver AddressResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GeocodeRequest
		if err := utils.DecodeJSON(r, &req); err != nil || req.Address == "" {
			utils.RespondError(w, http.StatusBadRequest, "address is required")
			return
		}

		coords, ok := resolver.Resolve(r.Context(), req.Address).Coordinates()
		if !ok {
			utils.RespondError(w, http.StatusNotFound, "Address could not be located")
			return
		}

		utils.RespondJSON(w, http.StatusOK, GeocodeResponse{
			Address:     req.Address,
			Coordinates: coords,
		})
	}
}

// ReverseGeocode handles POST /api/geocoding/reverse. reverser is nil when
// the configured provider has no reverse lookup.
func ReverseGeocode(reverser ReverseGeocoder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reverser == nil {
			utils.RespondError(w, http.StatusNotImplemented, "Reverse geocoding is not available")
			return
		}

		var req ReverseGeocodeRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		loc := models.DriverLocation{Latitude: req.Lat, Longitude: req.Lng}
		if err := loc.Validate(); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		address, err := reverser.ReverseGeocode(r.Context(), services.Coordinates{Latitude: req.Lat, Longitude: req.Lng})
		if err != nil {
			log.Printf("❌ Reverse geocoding failed: %v", err)
			utils.RespondError(w, http.StatusBadGateway, "Failed to reverse geocode")
			return
		}

		utils.RespondJSON(w, http.StatusOK, address)
	}
}
