package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"farmroute-backend/internal/middleware"
	"farmroute-backend/internal/models"
	"farmroute-backend/internal/services"
	"farmroute-backend/pkg/utils"
)

// MaxRouteOrders caps how many orders one route request may cover
const MaxRouteOrders = 50

// RoutePlanner computes a route for a set of orders
type RoutePlanner interface {
	PlanRoute(ctx context.Context, orderIDs []string, driverLocation *services.Coordinates) *services.DeliveryRoute
}

// DriverOrderLister lists the orders assigned to a driver
type DriverOrderLister interface {
	ListActiveOrdersForDriver(ctx context.Context, driverID string) ([]models.Order, error)
}

// BuildRoute handles POST /api/routes/build. Only orders actively assigned to
// the caller are routed; any other id is reported back as not_assigned.
func BuildRoute(orders DriverOrderLister, planner RoutePlanner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req models.BuildRouteRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := validateOrderIDs(req.OrderIDs); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		var origin *services.Coordinates
		if req.DriverLocation != nil {
			if err := req.DriverLocation.Validate(); err != nil {
				utils.RespondError(w, http.StatusBadRequest, err.Error())
				return
			}
			origin = &services.Coordinates{
				Latitude:  req.DriverLocation.Latitude,
				Longitude: req.DriverLocation.Longitude,
			}
		}

		log.Printf("📥 REQUEST: POST /api/routes/build (%d orders)", len(req.OrderIDs))

		active, err := orders.ListActiveOrdersForDriver(r.Context(), userClaims.UserID)
		if err != nil {
			log.Printf("❌ Failed to list orders for driver %s: %v", userClaims.UserID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to load orders")
			return
		}

		allowed, excluded := partitionAssigned(req.OrderIDs, active)
		if len(excluded) > 0 {
			log.Printf("⚠️  Driver %s requested %d orders not assigned to them", userClaims.UserID, len(excluded))
		}

		resp := planner.PlanRoute(r.Context(), allowed, origin).ToRouteResponse()
		for _, id := range excluded {
			resp.UnresolvedOrders = append(resp.UnresolvedOrders, models.UnresolvedOrderResponse{
				OrderID: id,
				Reason:  services.UnresolvedNotAssigned,
			})
		}
		utils.RespondJSON(w, http.StatusOK, resp)
	}
}

// partitionAssigned splits requested ids into those among active and the rest,
// keeping request order
func partitionAssigned(requested []string, active []models.Order) (allowed, excluded []string) {
	assigned := make(map[string]struct{}, len(active))
	for _, o := range active {
		assigned[o.ID] = struct{}{}
	}

	allowed = make([]string, 0, len(requested))
	for _, id := range requested {
		id = strings.TrimSpace(id)
		if _, ok := assigned[id]; ok {
			allowed = append(allowed, id)
		} else {
			excluded = append(excluded, id)
		}
	}
	return allowed, excluded
}

// GetDriverRoute handles GET /api/driver/route?lat=&lng=, routing the
// caller's active orders
func GetDriverRoute(orders DriverOrderLister, planner RoutePlanner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		origin, err := parseDriverLocation(r)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		active, err := orders.ListActiveOrdersForDriver(r.Context(), userClaims.UserID)
		if err != nil {
			log.Printf("❌ Failed to list orders for driver %s: %v", userClaims.UserID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to load orders")
			return
		}

		orderIDs := make([]string, 0, len(active))
		for _, o := range active {
			orderIDs = append(orderIDs, o.ID)
		}
		if len(orderIDs) > MaxRouteOrders {
			log.Printf("⚠️  Driver %s has %d active orders, routing the oldest %d", userClaims.UserID, len(orderIDs), MaxRouteOrders)
			orderIDs = orderIDs[:MaxRouteOrders]
		}

		result := planner.PlanRoute(r.Context(), orderIDs, origin)
		utils.RespondJSON(w, http.StatusOK, result.ToRouteResponse())
	}
}

func validateOrderIDs(ids []string) error {
	if len(ids) == 0 {
		return errors.New("order_ids is required")
	}
	if len(ids) > MaxRouteOrders {
		return fmt.Errorf("at most %d order_ids per route", MaxRouteOrders)
	}
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return errors.New("order_ids must not contain empty ids")
		}
	}
	return nil
}

// parseDriverLocation reads optional lat/lng query parameters; both or
// neither must be present
func parseDriverLocation(r *http.Request) (*services.Coordinates, error) {
	q := r.URL.Query()
	latStr, lngStr := q.Get("lat"), q.Get("lng")
	if latStr == "" && lngStr == "" {
		return nil, nil
	}
	if latStr == "" || lngStr == "" {
		return nil, errors.New("lat and lng must be provided together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid lat %q", latStr)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid lng %q", lngStr)
	}

	loc := models.DriverLocation{Latitude: lat, Longitude: lng}
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	return &services.Coordinates{Latitude: lat, Longitude: lng}, nil
}
