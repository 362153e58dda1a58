package services

import (
	"context"
	"log"
	"strings"

	"farmroute-backend/internal/models"

	"golang.org/x/sync/errgroup"
)

// OrderRepository is the read side of order storage the collector needs
type OrderRepository interface {
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	GetOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error)
}

// Why an order contributed no delivery stop
const (
	UnresolvedOrderLookupFailed = "order_lookup_failed"
	UnresolvedMissingAddress    = "missing_address"
	UnresolvedGeocodeFailed     = "geocode_failed"

	// UnresolvedNotAssigned marks an order the requesting driver may not route
	UnresolvedNotAssigned = "not_assigned"
)

// UnresolvedOrder is an order that could not be placed on the route
type UnresolvedOrder struct {
	OrderID string
	Reason  string
}

// StopCollection is the result of gathering stops for a set of orders.
// Stops is [driver-start?] ++ deliveries ++ pickups.
type StopCollection struct {
	Stops             []Stop
	Unresolved        []UnresolvedOrder
	UnresolvedSellers []string
}

// Deliveries returns only the delivery stops
func (c *StopCollection) Deliveries() []Stop {
	out := make([]Stop, 0, len(c.Stops))
	for _, s := range c.Stops {
		if s.Kind == StopKindDelivery {
			out = append(out, s)
		}
	}
	return out
}

// maxConcurrentPickupResolves caps parallel geocoding of seller addresses
const maxConcurrentPickupResolves = 4

// StopCollector turns order ids into the set of places a driver must visit
type StopCollector struct {
	orders   OrderRepository
	resolver *LocationResolver
}

// NewStopCollector creates a collector backed by orders and resolver
func NewStopCollector(orders OrderRepository, resolver *LocationResolver) *StopCollector {
	return &StopCollector{
		orders:   orders,
		resolver: resolver,
	}
}

// sellerSet accumulates distinct sellers in first-seen order. It is only
// written by the sequential order loop in CollectStops.
type sellerSet struct {
	order     []models.Seller
	index     map[string]int
	itemCount []int
}

func newSellerSet() *sellerSet {
	return &sellerSet{index: make(map[string]int)}
}

func (s *sellerSet) add(seller models.Seller) {
	if i, ok := s.index[seller.ID]; ok {
		s.itemCount[i]++
		return
	}
	s.index[seller.ID] = len(s.order)
	s.order = append(s.order, seller)
	s.itemCount = append(s.itemCount, 1)
}

// CollectStops resolves delivery and pickup locations for orderIDs. Orders
// are processed one at a time; sellers are deduplicated across all orders.
// A nil driverLocation means no synthetic origin stop.
func (c *StopCollector) CollectStops(
	ctx context.Context,
	orderIDs []string,
	driverLocation *Coordinates,
) *StopCollection {
	result := &StopCollection{
		Stops:      make([]Stop, 0, len(orderIDs)*2+1),
		Unresolved: []UnresolvedOrder{},
	}

	if driverLocation != nil {
		result.Stops = append(result.Stops, newDriverStartStop(*driverLocation))
	}

	log.Printf("📦 Collecting stops for %d orders", len(orderIDs))

	sellers := newSellerSet()
	seenOrders := make(map[string]struct{}, len(orderIDs))

	for _, orderID := range orderIDs {
		orderID = strings.TrimSpace(orderID)
		if orderID == "" {
			continue
		}
		if _, dup := seenOrders[orderID]; dup {
			continue
		}
		seenOrders[orderID] = struct{}{}

		if stop, reason := c.collectDelivery(ctx, orderID); reason != "" {
			result.Unresolved = append(result.Unresolved, UnresolvedOrder{OrderID: orderID, Reason: reason})
		} else {
			result.Stops = append(result.Stops, stop)
		}

		c.collectSellers(ctx, orderID, sellers)
	}

	pickups, failed := c.resolvePickups(ctx, sellers)
	result.Stops = append(result.Stops, pickups...)
	result.UnresolvedSellers = failed

	log.Printf("   ✅ %d stops collected (%d sellers, %d unresolved orders)",
		len(result.Stops), len(sellers.order), len(result.Unresolved))

	return result
}

func (c *StopCollector) collectDelivery(ctx context.Context, orderID string) (Stop, string) {
	order, err := c.orders.GetOrder(ctx, orderID)
	if err != nil || order == nil {
		log.Printf("   ❌ Order %s lookup failed: %v", orderID, err)
		return Stop{}, UnresolvedOrderLookupFailed
	}

	if order.DeliveryAddress == nil {
		log.Printf("   ⚠️  Order %s has no delivery address", orderID)
		return Stop{}, UnresolvedMissingAddress
	}

	address := normalizeAddress(order.DeliveryAddress.String())
	coords, ok := c.resolver.Resolve(ctx, address).Coordinates()
	if !ok {
		return Stop{}, UnresolvedGeocodeFailed
	}

	return newDeliveryStop(orderID, address, coords), ""
}

// collectSellers adds the sellers behind every line item of orderID.
// Items without a seller need no pickup and are skipped.
func (c *StopCollector) collectSellers(ctx context.Context, orderID string, sellers *sellerSet) {
	items, err := c.orders.GetOrderItems(ctx, orderID)
	if err != nil {
		log.Printf("   ⚠️  Order %s items lookup failed: %v", orderID, err)
		return
	}

	for _, item := range items {
		seller := item.Product.Seller
		if seller == nil || strings.TrimSpace(seller.ID) == "" {
			continue
		}
		sellers.add(*seller)
	}
}

// resolvePickups geocodes each distinct seller address. The set is only read
// here; each goroutine writes its own slot so output keeps first-seen order.
func (c *StopCollector) resolvePickups(ctx context.Context, sellers *sellerSet) ([]Stop, []string) {
	if len(sellers.order) == 0 {
		return nil, nil
	}

	resolutions := make([]Resolution, len(sellers.order))

	// Resolve never fails; a seller that cannot be located is NotFound
	var g errgroup.Group
	g.SetLimit(maxConcurrentPickupResolves)
	for i, seller := range sellers.order {
		g.Go(func() error {
			resolutions[i] = c.resolver.Resolve(ctx, seller.BusinessAddress)
			return nil
		})
	}
	g.Wait()

	pickups := make([]Stop, 0, len(sellers.order))
	var failed []string
	for i, seller := range sellers.order {
		coords, ok := resolutions[i].Coordinates()
		if !ok {
			failed = append(failed, seller.ID)
			continue
		}

		name := strings.TrimSpace(seller.BusinessName)
		if name == "" {
			name = seller.ID
		}
		pickups = append(pickups, newPickupStop(
			seller.ID,
			name,
			normalizeAddress(seller.BusinessAddress),
			sellers.itemCount[i],
			coords,
		))
	}

	return pickups, failed
}
