package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func testItem(id uuid.UUID, qty int) LineItem {
	return LineItem{
		ProductID:        id,
		Name:             "Cedar & Smoke",
		UnitPrice:        decimal.NewFromInt(40),
		CurrentUnitPrice: decimal.NewFromInt(32),
		Quantity:         qty,
	}
}

func TestAddAccumulatesInsteadOfDuplicating(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	c := NewCart()

	for i := 0; i < 5; i++ {
		c.Add(testItem(id, 2))
	}

	if len(c.Items) != 1 {
		t.Fatalf("expected a single line item, got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 10 {
		t.Fatalf("expected quantity 10, got %d", c.Items[0].Quantity)
	}
}

func TestAddKeepsProductIDsUnique(t *testing.T) {
	t.Parallel()

	c := NewCart()
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	// Interleave repeated adds across several products.
	for i := 0; i < 12; i++ {
		c.Add(testItem(ids[i%len(ids)], 1))
	}

	seen := map[uuid.UUID]bool{}
	for _, item := range c.Items {
		if seen[item.ProductID] {
			t.Fatalf("duplicate product %s in cart", item.ProductID)
		}
		seen[item.ProductID] = true
	}
	if len(c.Items) != len(ids) {
		t.Fatalf("expected %d line items, got %d", len(ids), len(c.Items))
	}
}

func TestUpdateQuantityBelowOneRemoves(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	for _, qty := range []int{0, -1, -100} {
		c := NewCart()
		c.Add(testItem(id, 3))

		c.UpdateQuantity(id, qty)

		if _, ok := c.Find(id); ok {
			t.Fatalf("expected product removed for quantity %d", qty)
		}
	}
}

func TestUpdateQuantitySetsInPlace(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	c := NewCart()
	c.Add(testItem(id, 3))

	c.UpdateQuantity(id, 7)

	item, ok := c.Find(id)
	if !ok || item.Quantity != 7 {
		t.Fatalf("expected quantity 7, got %+v", item)
	}
}

func TestMissingProductOperationsAreNoOps(t *testing.T) {
	t.Parallel()

	c := NewCart()
	c.Add(testItem(uuid.New(), 1))

	missing := uuid.New()
	c.UpdateQuantity(missing, 5)
	c.Remove(missing)

	if len(c.Items) != 1 {
		t.Fatalf("expected untouched cart, got %d items", len(c.Items))
	}
}

func TestClearDropsItemsAndCoupon(t *testing.T) {
	t.Parallel()

	c := NewCart()
	c.Add(testItem(uuid.New(), 1))
	c.ApplyCoupon(&Coupon{Code: "EMBER10"})
	c.BeginCouponApply()

	c.Clear()

	if !c.IsEmpty() || c.Coupon != nil || c.PendingCouponTicket != nil {
		t.Fatalf("expected fully cleared cart, got %+v", c)
	}
}
