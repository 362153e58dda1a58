package models

import (
	"fmt"
	"strings"
)

// OrderStatus tracks an order through fulfillment
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// IsActive reports whether the order still needs a driver visit
func (s OrderStatus) IsActive() bool {
	return s == OrderStatusConfirmed || s == OrderStatusOutForDelivery
}

// Address is a customer postal address
type Address struct {
	ID     string `json:"id" db:"id"`
	Street string `json:"street" db:"street"`
	City   string `json:"city" db:"city"`
	State  string `json:"state" db:"state"`
	Zip    string `json:"zip" db:"zip"`
}

// String formats the address as a single geocodable line, e.g.
// "12 Orchard Rd, Watsonville, CA 95076". Empty parts are skipped.
func (a Address) String() string {
	parts := make([]string, 0, 3)
	if s := strings.TrimSpace(a.Street); s != "" {
		parts = append(parts, s)
	}
	if c := strings.TrimSpace(a.City); c != "" {
		parts = append(parts, c)
	}

	stateZip := strings.TrimSpace(fmt.Sprintf("%s %s", strings.TrimSpace(a.State), strings.TrimSpace(a.Zip)))
	if stateZip != "" {
		parts = append(parts, stateZip)
	}

	return strings.Join(parts, ", ")
}

// Order is a customer order. DeliveryAddress is nil when the order has no
// address on file.
type Order struct {
	ID              string      `json:"id" db:"id"`
	CustomerID      string      `json:"customer_id" db:"customer_id"`
	DriverID        *string     `json:"driver_id,omitempty" db:"driver_id"`
	Status          OrderStatus `json:"status" db:"status"`
	TotalCents      int64       `json:"total_cents" db:"total_cents"`
	DeliveryAddress *Address    `json:"delivery_address,omitempty"`
	CreatedAt       int64       `json:"created_at" db:"created_at"` // Unix timestamp
	UpdatedAt       int64       `json:"updated_at" db:"updated_at"` // Unix timestamp
}

// Seller is a farm or producer that goods are picked up from
type Seller struct {
	ID              string `json:"id" db:"id"`
	BusinessName    string `json:"business_name" db:"business_name"`
	BusinessAddress string `json:"business_address" db:"business_address"`
}

// Product is a listed item. Seller is nil when the product is not linked to
// a seller (nothing to pick up).
type Product struct {
	ID         string  `json:"id" db:"id"`
	Name       string  `json:"name" db:"name"`
	PriceCents int64   `json:"price_cents" db:"price_cents"`
	Seller     *Seller `json:"seller,omitempty"`
}

// OrderItem is one line of an order
type OrderItem struct {
	ID       string  `json:"id" db:"id"`
	OrderID  string  `json:"order_id" db:"order_id"`
	Quantity int     `json:"quantity" db:"quantity"`
	Product  Product `json:"product"`
}

// AssignOrdersRequest is the request body for POST /api/manager/orders/assign
type AssignOrdersRequest struct {
	DriverID string   `json:"driver_id"`
	OrderIDs []string `json:"order_ids"`
}

// AssignOrdersResponse reports how many orders were handed to the driver
type AssignOrdersResponse struct {
	DriverID string `json:"driver_id"`
	Assigned int    `json:"assigned"`
	Notified bool   `json:"notified"`
}
