package checkout

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/emberwick/emberwick-backend/internal/cart"
	"github.com/emberwick/emberwick-backend/internal/catalog"
	"github.com/emberwick/emberwick-backend/internal/coupons"
	"github.com/emberwick/emberwick-backend/internal/customers"
	"github.com/emberwick/emberwick-backend/internal/orders"
	"github.com/emberwick/emberwick-backend/pkg/db/models"
	"github.com/emberwick/emberwick-backend/pkg/enums"
	pkgerrors "github.com/emberwick/emberwick-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var checkoutSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT,
  scent_notes TEXT,
  image_url TEXT,
  unit_price NUMERIC NOT NULL,
  sale_price NUMERIC,
  inventory_qty INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS coupons (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  type TEXT NOT NULL,
  value NUMERIC NOT NULL,
  minimum_subtotal NUMERIC NOT NULL DEFAULT 0,
  starts_at DATETIME,
  expires_at DATETIME,
  is_active INTEGER NOT NULL DEFAULT 1,
  redemption_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS orders (
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
);`,
	`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  current_unit_price NUMERIC NOT NULL,
  line_total NUMERIC NOT NULL,
  created_at DATETIME
);`,
}

type sqliteTxRunner struct {
	db *gorm.DB
}

func (r *sqliteTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

type memorySnapshotStore struct {
	carts map[string]string
}

func newMemorySnapshotStore() *memorySnapshotStore {
	return &memorySnapshotStore{carts: map[string]string{}}
}

func (m *memorySnapshotStore) Load(ctx context.Context, token string) *cart.Cart {
	raw, ok := m.carts[token]
	if !ok {
		return cart.NewCart()
	}
	var c cart.Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return cart.NewCart()
	}
	if c.Items == nil {
		c.Items = []cart.LineItem{}
	}
	return &c
}

func (m *memorySnapshotStore) Save(ctx context.Context, token string, c *cart.Cart) {
	payload, err := json.Marshal(c)
	if err != nil {
		return
	}
	m.carts[token] = string(payload)
}

func (m *memorySnapshotStore) Delete(ctx context.Context, token string) {
	delete(m.carts, token)
}

type checkoutFixture struct {
	svc       Service
	db        *gorm.DB
	snapshots *memorySnapshotStore
	product   *models.Product
	coupon    *models.Coupon
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	for _, stmt := range checkoutSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}

	sale := decimal.RequireFromString("32.00")
	product := &models.Product{
		ID:           uuid.New(),
		Name:         "Cedar & Smoke",
		Slug:         "cedar-smoke",
		UnitPrice:    decimal.RequireFromString("40.00"),
		SalePrice:    &sale,
		InventoryQty: 10,
		IsActive:     true,
	}
	require.NoError(t, db.Create(product).Error)

	coupon := &models.Coupon{
		ID:       uuid.New(),
		Code:     "EMBER10",
		Type:     enums.CouponTypePercentage,
		Value:    decimal.RequireFromString("10"),
		IsActive: true,
	}
	require.NoError(t, db.Create(coupon).Error)

	couponRepo := coupons.NewRepository(db)
	validator, err := coupons.NewValidator(couponRepo)
	require.NoError(t, err)

	snapshots := newMemorySnapshotStore()
	svc, err := NewService(
		snapshots,
		validator,
		catalog.NewRepository(db),
		couponRepo,
		customers.NewRepository(db),
		orders.NewRepository(db),
		&sqliteTxRunner{db: db},
		NewFlatRater(decimal.RequireFromString("15.00")),
		nil,
		nil,
	)
	require.NoError(t, err)

	return &checkoutFixture{svc: svc, db: db, snapshots: snapshots, product: product, coupon: coupon}
}

func (f *checkoutFixture) seedCart(t *testing.T, token string, qty int, withCoupon bool) {
	t.Helper()
	c := cart.NewCart()
	c.Add(cart.LineItem{
		ProductID:        f.product.ID,
		Name:             f.product.Name,
		UnitPrice:        f.product.UnitPrice,
		CurrentUnitPrice: f.product.CurrentUnitPrice(),
		Quantity:         qty,
	})
	if withCoupon {
		c.ApplyCoupon(&cart.Coupon{Code: f.coupon.Code, Type: f.coupon.Type, Value: f.coupon.Value})
	}
	f.snapshots.Save(context.Background(), token, c)
}

func placeInput() PlaceOrderInput {
	return PlaceOrderInput{
		Email: "Shopper@Example.com",
		Name:  "Rowan Fletcher",
		Address: models.Address{
			Line1:      "12 Wick Lane",
			City:       "Portland",
			State:      "OR",
			PostalCode: "97201",
			Country:    "US",
		},
	}
}

func TestPlaceOrderWithCoupon(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedCart(t, "tok", 2, true)

	order, err := f.svc.PlaceOrder(context.Background(), "tok", placeInput())
	require.NoError(t, err)

	// 2 x 32.00 = 64.00, 10% coupon = 6.40, shipping 15.00.
	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("64.00")), "subtotal %s", order.Subtotal)
	assert.True(t, order.ProductSavings.Equal(decimal.RequireFromString("16.00")), "savings %s", order.ProductSavings)
	assert.True(t, order.CouponDiscount.Equal(decimal.RequireFromString("6.40")), "discount %s", order.CouponDiscount)
	assert.True(t, order.GrandTotal.Equal(decimal.RequireFromString("72.60")), "grand total %s", order.GrandTotal)
	require.NotNil(t, order.CouponCode)
	assert.Equal(t, "EMBER10", *order.CouponCode)
	assert.Equal(t, "shopper@example.com", order.Email)
	assert.Contains(t, order.OrderNumber, "EW-")

	var product models.Product
	require.NoError(t, f.db.First(&product, "id = ?", f.product.ID).Error)
	assert.Equal(t, 8, product.InventoryQty)

	var coupon models.Coupon
	require.NoError(t, f.db.First(&coupon, "id = ?", f.coupon.ID).Error)
	assert.Equal(t, 1, coupon.RedemptionCount)

	// Snapshot is gone once the order commits.
	assert.True(t, f.snapshots.Load(context.Background(), "tok").IsEmpty())
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), "tok", placeInput())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestPlaceOrderInsufficientInventory(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedCart(t, "tok", 11, false)

	_, err := f.svc.PlaceOrder(context.Background(), "tok", placeInput())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPlaceOrderDeactivatedProduct(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedCart(t, "tok", 1, false)
	require.NoError(t, f.db.Model(f.product).UpdateColumn("is_active", false).Error)

	_, err := f.svc.PlaceOrder(context.Background(), "tok", placeInput())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestPlaceOrderStaleCouponFailsClosed(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedCart(t, "tok", 2, true)

	expired := time.Now().Add(-time.Hour)
	require.NoError(t, f.db.Model(f.coupon).UpdateColumn("expires_at", expired).Error)

	_, err := f.svc.PlaceOrder(context.Background(), "tok", placeInput())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeCouponExpired, typed.Code())

	// The coupon is stripped so the next quote is honest.
	reloaded := f.snapshots.Load(context.Background(), "tok")
	assert.Nil(t, reloaded.Coupon)
	assert.False(t, reloaded.IsEmpty())
}

func TestPlaceOrderRepricesStaleCart(t *testing.T) {
	f := newCheckoutFixture(t)

	// The snapshot still carries the old 32.00 sale price; the sale has
	// since ended.
	f.seedCart(t, "tok", 1, false)
	require.NoError(t, f.db.Model(f.product).UpdateColumn("sale_price", nil).Error)

	order, err := f.svc.PlaceOrder(context.Background(), "tok", placeInput())
	require.NoError(t, err)
	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("40.00")), "subtotal %s", order.Subtotal)
	assert.True(t, order.ProductSavings.IsZero())
}
