package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"farmroute-backend/internal/database"
	"farmroute-backend/internal/middleware"
	"farmroute-backend/internal/models"
	"farmroute-backend/pkg/utils"
)

// OrderAssigner hands orders to a driver
type OrderAssigner interface {
	AssignOrdersToDriver(ctx context.Context, driverID string, orderIDs []string) (int, error)
}

// DriverDirectory resolves driver accounts and their device tokens
type DriverDirectory interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetFCMTokens(ctx context.Context, userID string) ([]string, error)
}

// Notifier pushes assignment notices to devices
type Notifier interface {
	NotifyOrdersAssigned(ctx context.Context, tokens []string, orderCount int) error
}

// RouteEvents tells connected drivers their route changed and connected
// admins that an assignment happened
type RouteEvents interface {
	NotifyRouteInvalidated(driverID, reason string)
	NotifyOrdersAssigned(driverID string, assigned int)
}

// GetDriverOrders handles GET /api/driver/orders
func GetDriverOrders(orders DriverOrderLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		active, err := orders.ListActiveOrdersForDriver(r.Context(), userClaims.UserID)
		if err != nil {
			log.Printf("❌ Failed to list orders for driver %s: %v", userClaims.UserID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to load orders")
			return
		}

		utils.RespondJSON(w, http.StatusOK, active)
	}
}

// AssignOrders handles POST /api/manager/orders/assign. notifier may be nil
// when push notifications are disabled.
func AssignOrders(orders OrderAssigner, drivers DriverDirectory, notifier Notifier, events RouteEvents) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.AssignOrdersRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.DriverID == "" {
			utils.RespondError(w, http.StatusBadRequest, "driver_id is required")
			return
		}
		if err := validateOrderIDs(req.OrderIDs); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		log.Printf("📥 REQUEST: POST /api/manager/orders/assign (%d orders -> %s)", len(req.OrderIDs), req.DriverID)

		driver, err := drivers.GetUserByID(r.Context(), req.DriverID)
		if errors.Is(err, database.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Driver not found")
			return
		}
		if err != nil {
			log.Printf("❌ Driver lookup failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to load driver")
			return
		}
		if driver.Role != models.RoleDriver {
			utils.RespondError(w, http.StatusBadRequest, "User is not a driver")
			return
		}

		assigned, err := orders.AssignOrdersToDriver(r.Context(), req.DriverID, req.OrderIDs)
		if err != nil {
			log.Printf("❌ Failed to assign orders: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to assign orders")
			return
		}

		resp := models.AssignOrdersResponse{DriverID: req.DriverID, Assigned: assigned}
		if assigned == 0 {
			utils.RespondJSON(w, http.StatusOK, resp)
			return
		}

		if events != nil {
			events.NotifyRouteInvalidated(req.DriverID, "orders_assigned")
			events.NotifyOrdersAssigned(req.DriverID, assigned)
		}

		if notifier != nil {
			tokens, err := drivers.GetFCMTokens(r.Context(), req.DriverID)
			if err != nil {
				log.Printf("⚠️  Could not load FCM tokens for %s: %v", req.DriverID, err)
			} else if len(tokens) > 0 {
				if err := notifier.NotifyOrdersAssigned(r.Context(), tokens, assigned); err != nil {
					log.Printf("⚠️  Push notification failed for %s: %v", req.DriverID, err)
				} else {
					resp.Notified = true
				}
			}
		}

		log.Printf("✅ Assigned %d orders to %s", assigned, driver.Email)
		utils.RespondJSON(w, http.StatusOK, resp)
	}
}
