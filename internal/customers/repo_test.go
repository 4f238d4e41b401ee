package customers

import (
	"context"
	"testing"

	"github.com/emberwick/emberwick-backend/pkg/db/models"
	"github.com/emberwick/emberwick-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCustomersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	customers := `
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  customer_id TEXT NOT NULL,
  email TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  shipping_address TEXT,
  subtotal NUMERIC NOT NULL,
  product_savings NUMERIC NOT NULL DEFAULT 0,
  coupon_code TEXT,
  coupon_discount NUMERIC NOT NULL DEFAULT 0,
  shipping NUMERIC NOT NULL DEFAULT 0,
  grand_total NUMERIC NOT NULL,
  canceled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(customers).Error)
	require.NoError(t, db.Exec(orders).Error)
	return db
}

func mustCreateOrderFor(t *testing.T, db *gorm.DB, customerID uuid.UUID, grandTotal, status string) {
	t.Helper()
	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: "EW-" + uuid.NewString()[:12],
		CustomerID:  customerID,
		Email:       "shopper@example.com",
		GrandTotal:  decimal.RequireFromString(grandTotal),
		Subtotal:    decimal.RequireFromString(grandTotal),
	}
	require.NoError(t, db.Create(order).Error)
	require.NoError(t, db.Model(order).UpdateColumn("status", status).Error)
}

func TestUpsertByEmailCreatesThenRefreshes(t *testing.T) {
	repo := NewRepository(setupCustomersTestDB(t))
	ctx := context.Background()

	first, err := repo.UpsertByEmail(ctx, " Shopper@Example.COM ", "Rowan Fletcher")
	require.NoError(t, err)
	assert.Equal(t, "shopper@example.com", first.Email)

	second, err := repo.UpsertByEmail(ctx, "shopper@example.com", "Rowan A. Fletcher")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Rowan A. Fletcher", second.Name)
}

func TestListAggregatesOrders(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	customer, err := repo.UpsertByEmail(ctx, "shopper@example.com", "Rowan Fletcher")
	require.NoError(t, err)

	mustCreateOrderFor(t, db, customer.ID, "79.00", "paid")
	mustCreateOrderFor(t, db, customer.ID, "21.00", "pending")
	mustCreateOrderFor(t, db, customer.ID, "50.00", "canceled")

	result, err := repo.List(ctx, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, result.Customers, 1)

	summary := result.Customers[0]
	assert.Equal(t, 2, summary.OrderCount)
	assert.True(t, summary.LifetimeSpend.Equal(decimal.RequireFromString("100.00")),
		"expected lifetime spend 100.00, got %s", summary.LifetimeSpend)
}

func TestListIncludesCustomersWithoutOrders(t *testing.T) {
	repo := NewRepository(setupCustomersTestDB(t))
	ctx := context.Background()

	_, err := repo.UpsertByEmail(ctx, "quiet@example.com", "Quiet Browser")
	require.NoError(t, err)

	result, err := repo.List(ctx, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, result.Customers, 1)
	assert.Equal(t, 0, result.Customers[0].OrderCount)
	assert.True(t, result.Customers[0].LifetimeSpend.IsZero())
}
