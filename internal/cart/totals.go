package cart

import (
	"fmt"

	pkgerrors "github.com/emberwick/emberwick-backend/pkg/errors"
	"github.com/emberwick/emberwick-backend/pkg/money"
	"github.com/shopspring/decimal"
)

// Totals is the derived pricing tuple shown on every surface. It is never
// persisted; it is recomputed from the cart and coupon on demand so that
// the drawer, the cart page, and the order summary cannot drift.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	OriginalTotal  decimal.Decimal `json:"original_total"`
	ProductSavings decimal.Decimal `json:"product_savings"`
	CouponDiscount decimal.Decimal `json:"coupon_discount"`
	TotalSavings   decimal.Decimal `json:"total_savings"`
	Shipping       decimal.Decimal `json:"shipping"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
}

// ComputeTotals derives the full totals tuple. Shipping is injected: nil
// means the external rate is unresolved and contributes nothing. The
// function is pure; identical inputs always yield identical totals.
//
// Every line item must satisfy currentUnitPrice <= unitPrice. That is a
// catalog invariant, not re-derived here; a violation is a programmer
// error and is reported rather than silently corrected.
func ComputeTotals(items []LineItem, coupon *Coupon, shipping *decimal.Decimal) (Totals, error) {
	subtotal := decimal.Zero
	originalTotal := decimal.Zero

	for _, item := range items {
		if item.CurrentUnitPrice.GreaterThan(item.UnitPrice) {
			return Totals{}, pkgerrors.New(
				pkgerrors.CodePricingInvariant,
				fmt.Sprintf("product %s priced above its unit price", item.ProductID),
			)
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		subtotal = subtotal.Add(item.CurrentUnitPrice.Mul(qty))
		originalTotal = originalTotal.Add(item.UnitPrice.Mul(qty))
	}

	productSavings := originalTotal.Sub(subtotal)
	couponDiscount := coupon.Discount(subtotal)

	shippingCharge := decimal.Zero
	if shipping != nil {
		shippingCharge = *shipping
	}

	return Totals{
		Subtotal:       subtotal,
		OriginalTotal:  originalTotal,
		ProductSavings: productSavings,
		CouponDiscount: couponDiscount,
		TotalSavings:   productSavings.Add(couponDiscount),
		Shipping:       shippingCharge,
		GrandTotal:     money.FloorZero(subtotal.Sub(couponDiscount).Add(shippingCharge)),
	}, nil
}
