package cart

import (
	"github.com/emberwick/emberwick-backend/pkg/enums"
	"github.com/emberwick/emberwick-backend/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coupon is the validated, order-level discount attached to a cart. It is
// only ever seeded by a successful validation call; an unconfirmed coupon
// is never applied.
type Coupon struct {
	Code  string           `json:"code"`
	Type  enums.CouponType `json:"type"`
	Value decimal.Decimal  `json:"value"`
}

// Discount returns the coupon's discount against the given subtotal,
// clamped so it never exceeds the subtotal. Pure: safe to call on every
// recompute. A nil coupon discounts nothing.
func (c *Coupon) Discount(subtotal decimal.Decimal) decimal.Decimal {
	if c == nil || subtotal.Sign() <= 0 {
		return decimal.Zero
	}

	var raw decimal.Decimal
	switch c.Type {
	case enums.CouponTypePercentage:
		raw = money.Percent(subtotal, c.Value)
	case enums.CouponTypeFixed:
		raw = c.Value
	default:
		return decimal.Zero
	}

	return money.Min(money.FloorZero(raw), subtotal)
}

// ApplyCoupon replaces any existing coupon; last write wins.
func (c *Cart) ApplyCoupon(coupon *Coupon) {
	c.Coupon = coupon
	c.PendingCouponTicket = nil
}

// RemoveCoupon drops the active coupon and invalidates any outstanding
// validation ticket so an in-flight result cannot reinstate it.
func (c *Cart) RemoveCoupon() {
	c.Coupon = nil
	c.PendingCouponTicket = nil
}

// BeginCouponApply stamps a fresh validation ticket and returns it.
func (c *Cart) BeginCouponApply() uuid.UUID {
	ticket := uuid.New()
	c.PendingCouponTicket = &ticket
	return ticket
}

// CompleteCouponApply attaches the coupon only if the ticket is still the
// most recent one; stale results are discarded (last-request-wins).
func (c *Cart) CompleteCouponApply(ticket uuid.UUID, coupon *Coupon) bool {
	if c.PendingCouponTicket == nil || *c.PendingCouponTicket != ticket {
		return false
	}
	c.ApplyCoupon(coupon)
	return true
}
