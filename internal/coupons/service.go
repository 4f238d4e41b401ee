package coupons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emberwick/emberwick-backend/internal/cart"
	pkgerrors "github.com/emberwick/emberwick-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Validator checks a coupon code against the live coupon table. It is the
// single authority on whether a code grants a discount; callers treat any
// error as "no coupon".
type Validator struct {
	repo *Repository
	now  func() time.Time
}

// NewValidator constructs a database-backed coupon validator.
func NewValidator(repo *Repository) (*Validator, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &Validator{repo: repo, now: time.Now}, nil
}

// Validate resolves the code into an applicable discount. Rejections come
// back as coded errors whose messages are safe to show to the shopper.
func (v *Validator) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*cart.Coupon, error) {
	coupon, err := v.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeCouponInvalid, "coupon code is not valid")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}

	now := v.now()
	if !coupon.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeCouponInvalid, "coupon code is not valid")
	}
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeCouponInvalid, "coupon code is not valid")
	}
	if coupon.ExpiresAt != nil && now.After(*coupon.ExpiresAt) {
		return nil, pkgerrors.New(pkgerrors.CodeCouponExpired, "coupon code has expired")
	}
	if subtotal.LessThan(coupon.MinimumSubtotal) {
		return nil, pkgerrors.New(pkgerrors.CodeCouponMinimum,
			fmt.Sprintf("order subtotal must be at least %s to use this coupon", coupon.MinimumSubtotal.StringFixed(2)),
		)
	}

	return &cart.Coupon{
		Code:  coupon.Code,
		Type:  coupon.Type,
		Value: coupon.Value,
	}, nil
}
