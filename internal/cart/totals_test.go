package cart

import (
	"testing"

	"github.com/emberwick/emberwick-backend/pkg/enums"
	pkgerrors "github.com/emberwick/emberwick-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func priced(unit, current string, qty int) LineItem {
	return LineItem{
		ProductID:        uuid.New(),
		UnitPrice:        dec(unit),
		CurrentUnitPrice: dec(current),
		Quantity:         qty,
	}
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	t.Parallel()

	shipping := dec("15.00")
	totals, err := ComputeTotals(nil, nil, &shipping)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !totals.Subtotal.IsZero() || !totals.OriginalTotal.IsZero() ||
		!totals.ProductSavings.IsZero() || !totals.CouponDiscount.IsZero() {
		t.Fatalf("expected zeroed totals, got %+v", totals)
	}
	if !totals.GrandTotal.Equal(shipping) {
		t.Fatalf("expected grand total %s, got %s", shipping, totals.GrandTotal)
	}
}

func TestComputeTotalsEmptyCartUnresolvedShipping(t *testing.T) {
	t.Parallel()

	totals, err := ComputeTotals(nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !totals.GrandTotal.IsZero() {
		t.Fatalf("expected zero grand total, got %s", totals.GrandTotal)
	}
}

func TestComputeTotalsDiscountedItemNoCoupon(t *testing.T) {
	t.Parallel()

	shipping := dec("15.00")
	items := []LineItem{priced("40.00", "32.00", 2)}

	totals, err := ComputeTotals(items, nil, &shipping)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	checks := map[string][2]decimal.Decimal{
		"subtotal":        {totals.Subtotal, dec("64.00")},
		"original total":  {totals.OriginalTotal, dec("80.00")},
		"product savings": {totals.ProductSavings, dec("16.00")},
		"coupon discount": {totals.CouponDiscount, decimal.Zero},
		"grand total":     {totals.GrandTotal, dec("79.00")},
	}
	for name, pair := range checks {
		if !pair[0].Equal(pair[1]) {
			t.Fatalf("%s: expected %s, got %s", name, pair[1], pair[0])
		}
	}
}

func TestCouponDiscountClampsToSubtotal(t *testing.T) {
	t.Parallel()

	shipping := dec("15.00")
	items := []LineItem{priced("50.00", "50.00", 1)}
	coupon := &Coupon{Code: "BLOWOUT", Type: enums.CouponTypePercentage, Value: dec("120")}

	totals, err := ComputeTotals(items, coupon, &shipping)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !totals.CouponDiscount.Equal(dec("50.00")) {
		t.Fatalf("expected discount clamped to 50.00, got %s", totals.CouponDiscount)
	}
	if !totals.GrandTotal.Equal(shipping) {
		t.Fatalf("expected grand total %s, got %s", shipping, totals.GrandTotal)
	}
}

func TestCouponClampProperty(t *testing.T) {
	t.Parallel()

	subtotals := []string{"0", "0.01", "10.00", "49.99", "50.00", "1234.56"}
	fixedValues := []string{"0.01", "5.00", "50.00", "5000.00"}
	percentValues := []string{"1", "10", "50", "100", "120", "250"}

	for _, s := range subtotals {
		subtotal := dec(s)

		for _, v := range fixedValues {
			coupon := &Coupon{Type: enums.CouponTypeFixed, Value: dec(v)}
			got := coupon.Discount(subtotal)
			want := decimal.Min(dec(v), subtotal)
			if subtotal.Sign() <= 0 {
				want = decimal.Zero
			}
			if !got.Equal(want) {
				t.Fatalf("fixed %s on %s: expected %s, got %s", v, s, want, got)
			}
			if got.GreaterThan(subtotal) {
				t.Fatalf("fixed discount %s exceeds subtotal %s", got, subtotal)
			}
		}

		for _, p := range percentValues {
			coupon := &Coupon{Type: enums.CouponTypePercentage, Value: dec(p)}
			got := coupon.Discount(subtotal)
			if got.GreaterThan(subtotal) {
				t.Fatalf("percentage discount %s exceeds subtotal %s", got, subtotal)
			}
			if got.IsNegative() {
				t.Fatalf("negative discount %s", got)
			}
		}
	}
}

func TestProductSavingsNeverNegative(t *testing.T) {
	t.Parallel()

	carts := [][]LineItem{
		{priced("40.00", "32.00", 2), priced("18.50", "18.50", 1)},
		{priced("9.99", "0.01", 7)},
		{priced("100.00", "99.99", 3), priced("5.00", "2.50", 4), priced("1.00", "1.00", 1)},
	}

	for _, items := range carts {
		totals, err := ComputeTotals(items, nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if totals.ProductSavings.IsNegative() {
			t.Fatalf("negative product savings %s", totals.ProductSavings)
		}
	}
}

func TestGrandTotalNeverNegative(t *testing.T) {
	t.Parallel()

	items := []LineItem{priced("10.00", "5.00", 1)}
	coupon := &Coupon{Type: enums.CouponTypeFixed, Value: dec("9999.00")}

	for _, shipping := range []*decimal.Decimal{nil, ptrDec("0"), ptrDec("15.00")} {
		totals, err := ComputeTotals(items, coupon, shipping)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if totals.GrandTotal.IsNegative() {
			t.Fatalf("negative grand total %s", totals.GrandTotal)
		}
	}
}

func TestDiscountReadIsIdempotent(t *testing.T) {
	t.Parallel()

	coupon := &Coupon{Code: "EMBER10", Type: enums.CouponTypePercentage, Value: dec("10")}
	subtotal := dec("123.45")

	first := coupon.Discount(subtotal)
	second := coupon.Discount(subtotal)

	if !first.Equal(second) {
		t.Fatalf("discount drifted between reads: %s then %s", first, second)
	}
	if !coupon.Value.Equal(dec("10")) {
		t.Fatalf("discount read mutated coupon: %+v", coupon)
	}
}

func TestTotalsIdenticalAcrossSurfaces(t *testing.T) {
	t.Parallel()

	// Drawer, cart page, and order summary all call the same calculator;
	// identical state must yield identical figures.
	items := []LineItem{
		priced("40.00", "32.00", 2),
		priced("22.00", "22.00", 1),
	}
	coupon := &Coupon{Code: "EMBER10", Type: enums.CouponTypePercentage, Value: dec("10")}
	shipping := dec("15.00")

	var results []Totals
	for surface := 0; surface < 3; surface++ {
		totals, err := ComputeTotals(items, coupon, &shipping)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		results = append(results, totals)
	}

	for _, totals := range results[1:] {
		if !totals.Subtotal.Equal(results[0].Subtotal) ||
			!totals.CouponDiscount.Equal(results[0].CouponDiscount) ||
			!totals.GrandTotal.Equal(results[0].GrandTotal) {
			t.Fatalf("surfaces diverged: %+v vs %+v", totals, results[0])
		}
	}
}

func TestPricingInvariantViolationSurfaces(t *testing.T) {
	t.Parallel()

	items := []LineItem{priced("10.00", "12.00", 1)}

	_, err := ComputeTotals(items, nil, nil)
	if err == nil {
		t.Fatal("expected invariant violation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodePricingInvariant {
		t.Fatalf("unexpected error: %v", err)
	}
}

func ptrDec(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}
