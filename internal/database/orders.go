package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"farmroute-backend/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// OrderStore reads and updates orders and their line items
type OrderStore struct {
	db *sqlx.DB
}

// NewOrderStore creates a store on db
func NewOrderStore(db *sqlx.DB) *OrderStore {
	return &OrderStore{db: db}
}

// orderRow is an order joined with its (optional) delivery address
type orderRow struct {
	ID         string             `db:"id"`
	CustomerID string             `db:"customer_id"`
	DriverID   sql.NullString     `db:"driver_id"`
	Status     models.OrderStatus `db:"status"`
	TotalCents int64              `db:"total_cents"`
	CreatedAt  int64              `db:"created_at"`
	UpdatedAt  int64              `db:"updated_at"`
	AddressID  sql.NullString     `db:"address_id"`
	Street     sql.NullString     `db:"street"`
	City       sql.NullString     `db:"city"`
	State      sql.NullString     `db:"state"`
	Zip        sql.NullString     `db:"zip"`
}

func (r orderRow) toOrder() models.Order {
	order := models.Order{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		Status:     r.Status,
		TotalCents: r.TotalCents,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.DriverID.Valid {
		driverID := r.DriverID.String
		order.DriverID = &driverID
	}
	if r.AddressID.Valid {
		order.DeliveryAddress = &models.Address{
			ID:     r.AddressID.String,
			Street: r.Street.String,
			City:   r.City.String,
			State:  r.State.String,
			Zip:    r.Zip.String,
		}
	}
	return order
}

const orderSelect = `
	SELECT o.id, o.customer_id, o.driver_id, o.status, o.total_cents, o.created_at, o.updated_at,
	       a.id AS address_id, a.street, a.city, a.state, a.zip
	FROM orders o
	LEFT JOIN addresses a ON a.id = o.delivery_address_id`

// GetOrder returns an order with its delivery address, or ErrNotFound
func (s *OrderStore) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var row orderRow
	err := s.db.GetContext(ctx, &row, orderSelect+` WHERE o.id = $1`, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}

	order := row.toOrder()
	return &order, nil
}

// orderItemRow is a line item joined with its product and (optional) seller
type orderItemRow struct {
	ID              string         `db:"id"`
	OrderID         string         `db:"order_id"`
	Quantity        int            `db:"quantity"`
	ProductID       string         `db:"product_id"`
	ProductName     string         `db:"product_name"`
	PriceCents      int64          `db:"price_cents"`
	SellerID        sql.NullString `db:"seller_id"`
	BusinessName    sql.NullString `db:"business_name"`
	BusinessAddress sql.NullString `db:"business_address"`
}

// GetOrderItems returns the line items of an order with product and seller
func (s *OrderStore) GetOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	var rows []orderItemRow
	query := `
		SELECT oi.id, oi.order_id, oi.quantity,
		       p.id AS product_id, p.name AS product_name, p.price_cents,
		       s.id AS seller_id, s.business_name, s.business_address
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		LEFT JOIN sellers s ON s.id = p.seller_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`
	if err := s.db.SelectContext(ctx, &rows, query, orderID); err != nil {
		return nil, fmt.Errorf("failed to get items for order %s: %w", orderID, err)
	}

	items := make([]models.OrderItem, 0, len(rows))
	for _, r := range rows {
		item := models.OrderItem{
			ID:       r.ID,
			OrderID:  r.OrderID,
			Quantity: r.Quantity,
			Product: models.Product{
				ID:         r.ProductID,
				Name:       r.ProductName,
				PriceCents: r.PriceCents,
			},
		}
		if r.SellerID.Valid {
			item.Product.Seller = &models.Seller{
				ID:              r.SellerID.String,
				BusinessName:    r.BusinessName.String,
				BusinessAddress: r.BusinessAddress.String,
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// ListActiveOrdersForDriver returns the driver's orders still awaiting delivery,
// oldest first
func (s *OrderStore) ListActiveOrdersForDriver(ctx context.Context, driverID string) ([]models.Order, error) {
	var rows []orderRow
	query := orderSelect + `
		WHERE o.driver_id = $1 AND o.status IN ('confirmed', 'out_for_delivery')
		ORDER BY o.created_at ASC, o.id ASC`
	if err := s.db.SelectContext(ctx, &rows, query, driverID); err != nil {
		return nil, fmt.Errorf("failed to list orders for driver %s: %w", driverID, err)
	}

	orders := make([]models.Order, 0, len(rows))
	for _, r := range rows {
		orders = append(orders, r.toOrder())
	}
	return orders, nil
}

// AssignOrdersToDriver hands active orders to driverID and marks them out for
// delivery. Orders that are not active are left untouched; the number of
// orders updated is returned.
func (s *OrderStore) AssignOrdersToDriver(ctx context.Context, driverID string, orderIDs []string) (int, error) {
	if len(orderIDs) == 0 {
		return 0, nil
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET driver_id = $1, status = 'out_for_delivery', updated_at = $2
		WHERE id = ANY($3) AND status IN ('confirmed', 'out_for_delivery')
	`, driverID, time.Now().Unix(), pq.Array(orderIDs))
	if err != nil {
		return 0, fmt.Errorf("failed to assign orders: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read assigned count: %w", err)
	}
	return int(affected), nil
}
