package database

import (
	"context"
	"errors"
	"testing"

	"farmroute-backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

var orderColumns = []string{
	"id", "customer_id", "driver_id", "status", "total_cents", "created_at", "updated_at",
	"address_id", "street", "city", "state", "zip",
}

func TestMigrateExecutesAllStatements(t *testing.T) {
	db, mock := newMockDB(t)
	for range migrations {
		mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, Migrate(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateStopsOnError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(".*").WillReturnError(errors.New("permission denied"))

	err := Migrate(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrder(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`FROM orders o`).
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow("o1", "c1", "d1", "confirmed", 4200, 100, 200, "a1", "10 Pine St", "Santa Cruz", "CA", "95060"))

	order, err := NewOrderStore(db).GetOrder(context.Background(), "o1")
	require.NoError(t, err)

	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	require.NotNil(t, order.DriverID)
	assert.Equal(t, "d1", *order.DriverID)
	require.NotNil(t, order.DeliveryAddress)
	assert.Equal(t, "10 Pine St", order.DeliveryAddress.Street)
	assert.Equal(t, "95060", order.DeliveryAddress.Zip)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrder_WithoutAddress(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`FROM orders o`).
		WithArgs("o2").
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow("o2", "c1", nil, "pending", 100, 1, 1, nil, nil, nil, nil, nil))

	order, err := NewOrderStore(db).GetOrder(context.Background(), "o2")
	require.NoError(t, err)
	assert.Nil(t, order.DriverID)
	assert.Nil(t, order.DeliveryAddress)
}

func TestGetOrder_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`FROM orders o`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(orderColumns))

	_, err := NewOrderStore(db).GetOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOrderItems(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`FROM order_items oi`).
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "order_id", "quantity", "product_id", "product_name", "price_cents",
			"seller_id", "business_name", "business_address",
		}).
			AddRow("i1", "o1", 2, "p1", "Strawberries", 600, "s1", "Green Acres", "1 Farm Rd").
			AddRow("i2", "o1", 1, "p2", "Orphaned Jam", 500, nil, nil, nil))

	items, err := NewOrderStore(db).GetOrderItems(context.Background(), "o1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.NotNil(t, items[0].Product.Seller)
	assert.Equal(t, "s1", items[0].Product.Seller.ID)
	assert.Equal(t, "Green Acres", items[0].Product.Seller.BusinessName)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Nil(t, items[1].Product.Seller)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveOrdersForDriver(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`WHERE o.driver_id = \$1`).
		WithArgs("d1").
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow("o1", "c1", "d1", "confirmed", 1, 1, 1, "a1", "10 Pine St", "Santa Cruz", "CA", "95060").
			AddRow("o2", "c2", "d1", "out_for_delivery", 1, 2, 2, "a2", "20 Oak St", "Santa Cruz", "CA", "95060"))

	orders, err := NewOrderStore(db).ListActiveOrdersForDriver(context.Background(), "d1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[1].ID)
	assert.Equal(t, models.OrderStatusOutForDelivery, orders[1].Status)
}

func TestAssignOrdersToDriver(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`UPDATE orders`).
		WithArgs("d1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := NewOrderStore(db).AssignOrdersToDriver(context.Background(), "d1", []string{"o1", "o2", "o3"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignOrdersToDriver_Empty(t *testing.T) {
	db, mock := newMockDB(t)

	n, err := NewOrderStore(db).AssignOrdersToDriver(context.Background(), "d1", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("driver@farmroute.app").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "name", "role", "created_at", "updated_at"}).
			AddRow("u1", "driver@farmroute.app", "hash", "Dana Driver", "driver", 1, 1))

	user, err := NewUserStore(db).GetUserByEmail(context.Background(), "driver@farmroute.app")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, models.RoleDriver, user.Role)
}

func TestGetUserByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "name", "role", "created_at", "updated_at"}))

	_, err := NewUserStore(db).GetUserByID(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFCMTokens(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO fcm_tokens`).
		WithArgs("u1", "tok-1", "ios", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`SELECT token FROM fcm_tokens`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"token"}).AddRow("tok-1").AddRow("tok-0"))

	store := NewUserStore(db)
	require.NoError(t, store.UpsertFCMToken(context.Background(), "u1", "tok-1", "ios"))

	tokens, err := store.GetFCMTokens(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-1", "tok-0"}, tokens)
	assert.NoError(t, mock.ExpectationsWereMet())
}
