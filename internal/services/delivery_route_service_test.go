package services

import (
	"context"
	"errors"
	"testing"

	"farmroute-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlanner(orders *fakeOrders, geocoder Geocoder, optimizer RouteOptimizer) *DeliveryRouteService {
	return NewDeliveryRouteService(newTestCollector(orders, geocoder), NewRouteBuilder(optimizer, 0))
}

func TestPlanRoute_Success(t *testing.T) {
	orders := newFakeOrders()
	orders.addOrder("X", "10 Pine St", sellerS1)
	orders.addOrder("Y", "20 Oak St", sellerS1, sellerS2)
	orders.addOrder("Z", "Nowhere Rd")

	geocoder := newFakeGeocoder(map[string]Coordinates{
		deliveryAddress("10 Pine St"): coordsX,
		deliveryAddress("20 Oak St"):  coordsY,
		sellerS1.BusinessAddress:      coordsS1,
		sellerS2.BusinessAddress:      coordsS2,
	})

	planner := newTestPlanner(orders, geocoder, identityOptimizer{})
	outcome := planner.PlanRoute(context.Background(), []string{"X", "Y", "Z"}, nil)

	require.True(t, outcome.HasRoute())
	assert.Empty(t, outcome.Reason)
	assert.Equal(t, []string{"pickup-s1", "pickup-s2", "delivery-X", "delivery-Y"}, stopIDs(outcome.Route.Stops))
	assert.Equal(t, []UnresolvedOrder{{OrderID: "Z", Reason: UnresolvedGeocodeFailed}}, outcome.Unresolved)

	resp := outcome.ToRouteResponse()
	assert.True(t, resp.HasRoute)
	require.Len(t, resp.Stops, 4)
	assert.Equal(t, "pickup", resp.Stops[0].Kind)
	assert.Equal(t, "Green Acres", resp.Stops[0].SellerName)
	assert.Equal(t, 2, resp.Stops[0].ItemCount)
	assert.Equal(t, "delivery", resp.Stops[3].Kind)
	assert.Equal(t, "Y", resp.Stops[3].OrderID)
	assert.Equal(t, coordsY.Latitude, resp.Stops[3].Latitude)
	assert.Equal(t, 300, resp.TotalDistanceMeters)
	assert.Equal(t, 180, resp.TotalDurationSeconds)
	assert.Equal(t, "0.2 mi", resp.DistanceText)
	assert.Equal(t, "3 min", resp.DurationText)
	assert.NotEmpty(t, resp.NavigationURL)
	assert.Equal(t, []models.UnresolvedOrderResponse{{OrderID: "Z", Reason: "geocode_failed"}}, resp.UnresolvedOrders)
}

func TestPlanRoute_NoDeliveries(t *testing.T) {
	orders := newFakeOrders()
	orders.addOrder("X", "Nowhere Rd", sellerS1)
	geocoder := newFakeGeocoder(map[string]Coordinates{sellerS1.BusinessAddress: coordsS1})
	optimizer := &fakeOptimizer{}

	outcome := newTestPlanner(orders, geocoder, optimizer).PlanRoute(context.Background(), []string{"X"}, nil)

	assert.False(t, outcome.HasRoute())
	assert.Equal(t, models.NoRouteReasonNoDeliveries, outcome.Reason)
	assert.Equal(t, 0, optimizer.calls)

	resp := outcome.ToRouteResponse()
	assert.False(t, resp.HasRoute)
	assert.Equal(t, "no_deliveries", resp.Reason)
	assert.NotNil(t, resp.Stops)
	assert.Empty(t, resp.Stops)
	assert.Empty(t, resp.NavigationURL)
	assert.Len(t, resp.UnresolvedOrders, 1)
}

func TestPlanRoute_ProviderFailure(t *testing.T) {
	orders := newFakeOrders()
	orders.addOrder("X", "10 Pine St", sellerS1)
	geocoder := newFakeGeocoder(map[string]Coordinates{
		deliveryAddress("10 Pine St"): coordsX,
		sellerS1.BusinessAddress:      coordsS1,
	})

	planner := newTestPlanner(orders, geocoder, &fakeOptimizer{err: errors.New("OVER_QUERY_LIMIT")})
	outcome := planner.PlanRoute(context.Background(), []string{"X"}, nil)

	assert.False(t, outcome.HasRoute())
	assert.Equal(t, models.NoRouteReasonRoutingFailed, outcome.Reason)

	resp := outcome.ToRouteResponse()
	assert.Empty(t, resp.Stops)
	assert.Empty(t, resp.UnresolvedOrders)
	assert.NotNil(t, resp.UnresolvedOrders)
}

func TestPlanRoute_RecomputesOnEveryCall(t *testing.T) {
	orders := newFakeOrders()
	orders.addOrder("X", "10 Pine St")
	geocoder := newFakeGeocoder(map[string]Coordinates{deliveryAddress("10 Pine St"): coordsX})
	planner := newTestPlanner(orders, geocoder, identityOptimizer{})

	first := planner.PlanRoute(context.Background(), []string{"X"}, nil)
	require.True(t, first.HasRoute())

	orders.addOrder("Y", "20 Oak St")
	geocoder.coords[deliveryAddress("20 Oak St")] = coordsY

	second := planner.PlanRoute(context.Background(), []string{"X", "Y"}, nil)
	require.True(t, second.HasRoute())
	assert.Len(t, second.Route.Stops, 2)
	assert.Len(t, first.Route.Stops, 1)
}
