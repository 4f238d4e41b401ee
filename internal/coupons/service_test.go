package coupons

import (
	"context"
	"fmt"
	"testing"
	"time"

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

func setupCouponsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	coupons := `
CREATE TABLE IF NOT EXISTS coupons (
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
);`
	require.NoError(t, db.Exec(coupons).Error)
	return db
}

func mustCreateCoupon(t *testing.T, db *gorm.DB, mutate func(*models.Coupon)) *models.Coupon {
	t.Helper()
	coupon := &models.Coupon{
		ID:       uuid.New(),
		Code:     fmt.Sprintf("EMBER%s", uuid.NewString()[:8]),
		Type:     enums.CouponTypePercentage,
		Value:    decimal.RequireFromString("10"),
		IsActive: true,
	}
	if mutate != nil {
		mutate(coupon)
	}
	require.NoError(t, db.Create(coupon).Error)
	return coupon
}

func newValidatorFixture(t *testing.T) (*Validator, *gorm.DB) {
	t.Helper()
	db := setupCouponsTestDB(t)
	validator, err := NewValidator(NewRepository(db))
	require.NoError(t, err)
	return validator, db
}

func TestValidateResolvesCoupon(t *testing.T) {
	validator, db := newValidatorFixture(t)
	created := mustCreateCoupon(t, db, func(c *models.Coupon) {
		c.Code = "EMBER10"
	})

	coupon, err := validator.Validate(context.Background(), "  ember10 ", decimal.RequireFromString("100.00"))
	require.NoError(t, err)
	assert.Equal(t, created.Code, coupon.Code)
	assert.Equal(t, enums.CouponTypePercentage, coupon.Type)
	assert.True(t, coupon.Value.Equal(created.Value))
}

func TestValidateUnknownCode(t *testing.T) {
	validator, _ := newValidatorFixture(t)

	_, err := validator.Validate(context.Background(), "NOPE", decimal.RequireFromString("100.00"))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeCouponInvalid, typed.Code())
}

func TestValidateInactiveCode(t *testing.T) {
	validator, db := newValidatorFixture(t)
	mustCreateCoupon(t, db, func(c *models.Coupon) {
		c.Code = "PAUSED"
		c.IsActive = false
	})

	_, err := validator.Validate(context.Background(), "PAUSED", decimal.RequireFromString("100.00"))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeCouponInvalid, typed.Code())
}

func TestValidateNotYetStarted(t *testing.T) {
	validator, db := newValidatorFixture(t)
	starts := time.Now().Add(24 * time.Hour)
	mustCreateCoupon(t, db, func(c *models.Coupon) {
		c.Code = "SOON"
		c.StartsAt = &starts
	})

	_, err := validator.Validate(context.Background(), "SOON", decimal.RequireFromString("100.00"))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeCouponInvalid, typed.Code())
}

func TestValidateExpiredCode(t *testing.T) {
	validator, db := newValidatorFixture(t)
	expired := time.Now().Add(-time.Hour)
	mustCreateCoupon(t, db, func(c *models.Coupon) {
		c.Code = "BYGONE"
		c.ExpiresAt = &expired
	})

	_, err := validator.Validate(context.Background(), "BYGONE", decimal.RequireFromString("100.00"))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeCouponExpired, typed.Code())
}

func TestValidateMinimumNotMet(t *testing.T) {
	validator, db := newValidatorFixture(t)
	mustCreateCoupon(t, db, func(c *models.Coupon) {
		c.Code = "BIGSPEND"
		c.MinimumSubtotal = decimal.RequireFromString("75.00")
	})

	_, err := validator.Validate(context.Background(), "BIGSPEND", decimal.RequireFromString("74.99"))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeCouponMinimum, typed.Code())
	assert.Contains(t, typed.Message(), "75.00")

	_, err = validator.Validate(context.Background(), "BIGSPEND", decimal.RequireFromString("75.00"))
	require.NoError(t, err)
}

func TestAdminCreateCoupon(t *testing.T) {
	db := setupCouponsTestDB(t)
	repo := NewRepository(db)
	svc, err := NewAdminService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	created, err := svc.CreateCoupon(ctx, CreateCouponInput{
		Code:     " glow15 ",
		Type:     enums.CouponTypeFixed,
		Value:    decimal.RequireFromString("15.00"),
		IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "GLOW15", created.Code)

	_, err = svc.CreateCoupon(ctx, CreateCouponInput{
		Code:  "GLOW15",
		Type:  enums.CouponTypeFixed,
		Value: decimal.RequireFromString("5.00"),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestAdminCreateCouponRejectsBadValues(t *testing.T) {
	db := setupCouponsTestDB(t)
	svc, err := NewAdminService(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	cases := []CreateCouponInput{
		{Code: "ZERO", Type: enums.CouponTypeFixed, Value: decimal.Zero},
		{Code: "NEG", Type: enums.CouponTypePercentage, Value: decimal.RequireFromString("-10")},
		{Code: "BADTYPE", Type: enums.CouponType("bogus"), Value: decimal.RequireFromString("10")},
		{Code: "", Type: enums.CouponTypeFixed, Value: decimal.RequireFromString("10")},
	}
	for _, input := range cases {
		_, err := svc.CreateCoupon(ctx, input)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "input %+v", input)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestRepositoryIncrementRedemption(t *testing.T) {
	db := setupCouponsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	coupon := mustCreateCoupon(t, db, nil)

	require.NoError(t, repo.IncrementRedemption(ctx, coupon.ID))
	require.NoError(t, repo.IncrementRedemption(ctx, coupon.ID))

	refetched, err := repo.GetByID(ctx, coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, refetched.RedemptionCount)
}
