package services

import (
	"context"
	"errors"
	"sync"

	"farmroute-backend/internal/models"
)

// fakeGeocoder resolves addresses from a fixed table and counts calls
type fakeGeocoder struct {
	mu     sync.Mutex
	coords map[string]Coordinates
	errs   map[string]error
	calls  map[string]int
}

func newFakeGeocoder(coords map[string]Coordinates) *fakeGeocoder {
	return &fakeGeocoder{
		coords: coords,
		errs:   map[string]error{},
		calls:  map[string]int{},
	}
}

func (g *fakeGeocoder) Geocode(ctx context.Context, address string) (Coordinates, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[address]++
	if err, ok := g.errs[address]; ok {
		return Coordinates{}, err
	}
	if c, ok := g.coords[address]; ok {
		return c, nil
	}
	return Coordinates{}, ErrGeocodeNoMatch
}

func (g *fakeGeocoder) callCount(address string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[address]
}

// fakeOrders is an in-memory OrderRepository
type fakeOrders struct {
	orders   map[string]*models.Order
	items    map[string][]models.OrderItem
	orderErr map[string]error
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{
		orders:   map[string]*models.Order{},
		items:    map[string][]models.OrderItem{},
		orderErr: map[string]error{},
	}
}

func (f *fakeOrders) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	if err, ok := f.orderErr[orderID]; ok {
		return nil, err
	}
	o, ok := f.orders[orderID]
	if !ok {
		return nil, errors.New("order not found")
	}
	return o, nil
}

func (f *fakeOrders) GetOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	return f.items[orderID], nil
}

// addOrder registers an order delivered to street with one item per seller
func (f *fakeOrders) addOrder(id, street string, sellers ...*models.Seller) {
	f.orders[id] = &models.Order{
		ID:              id,
		Status:          models.OrderStatusConfirmed,
		DeliveryAddress: &models.Address{Street: street, City: "Santa Cruz", State: "CA", Zip: "95060"},
	}
	for i, s := range sellers {
		f.items[id] = append(f.items[id], models.OrderItem{
			ID:       id + "-item-" + string(rune('a'+i)),
			OrderID:  id,
			Quantity: 1,
			Product:  models.Product{ID: "p-" + s.ID, Name: "Produce", Seller: s},
		})
	}
}

func deliveryAddress(street string) string {
	return (&models.Address{Street: street, City: "Santa Cruz", State: "CA", Zip: "95060"}).String()
}

// fakeOptimizer returns a canned result and records what it was asked
type fakeOptimizer struct {
	result *OptimizeResult
	err    error
	panics bool
	calls  int
	last   OptimizeRequest
}

func (o *fakeOptimizer) OptimizeRoute(ctx context.Context, req OptimizeRequest) (*OptimizeResult, error) {
	o.calls++
	o.last = req
	if o.panics {
		panic("provider exploded")
	}
	if o.err != nil {
		return nil, o.err
	}
	return o.result, nil
}

// identityOptimizer keeps waypoints in request order with one 100 m / 60 s leg per hop
type identityOptimizer struct{}

func (identityOptimizer) OptimizeRoute(ctx context.Context, req OptimizeRequest) (*OptimizeResult, error) {
	n := len(req.Waypoints)
	out := &OptimizeResult{WaypointOrder: make([]int, n)}
	for i := range out.WaypointOrder {
		out.WaypointOrder[i] = i
	}
	for i := 0; i <= n; i++ {
		out.LegDistancesMeters = append(out.LegDistancesMeters, 100)
		out.LegDurationsSeconds = append(out.LegDurationsSeconds, 60)
	}
	return out, nil
}

// reverseOptimizer visits waypoints in reverse request order
type reverseOptimizer struct{}

func (reverseOptimizer) OptimizeRoute(ctx context.Context, req OptimizeRequest) (*OptimizeResult, error) {
	n := len(req.Waypoints)
	out := &OptimizeResult{WaypointOrder: make([]int, n), EncodedPath: "abc~def"}
	for i := range out.WaypointOrder {
		out.WaypointOrder[i] = n - 1 - i
	}
	for i := 0; i <= n; i++ {
		out.LegDistancesMeters = append(out.LegDistancesMeters, 1000)
		out.LegDurationsSeconds = append(out.LegDurationsSeconds, 120)
	}
	return out, nil
}

func stopIDs(stops []Stop) []string {
	ids := make([]string, len(stops))
	for i, s := range stops {
		ids[i] = s.ID
	}
	return ids
}

func countKind(stops []Stop, kind StopKind) int {
	n := 0
	for _, s := range stops {
		if s.Kind == kind {
			n++
		}
	}
	return n
}
