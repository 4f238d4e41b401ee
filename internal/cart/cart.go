package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one product-plus-quantity entry in a cart. The descriptive
// fields are opaque to pricing.
type LineItem struct {
	ProductID        uuid.UUID       `json:"product_id"`
	Name             string          `json:"name"`
	ImageURL         string          `json:"image_url"`
	ScentNotes       []string        `json:"scent_notes,omitempty"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	CurrentUnitPrice decimal.Decimal `json:"current_unit_price"`
	Quantity         int             `json:"quantity"`
}

// Cart holds the session's line items, keyed by product identity, plus at
// most one order-level coupon. Item order is preserved for stable display
// but is not significant to pricing.
type Cart struct {
	Items  []LineItem `json:"items"`
	Coupon *Coupon    `json:"coupon,omitempty"`

	// PendingCouponTicket marks an outstanding coupon validation. A
	// validation result only applies while its ticket is still current.
	PendingCouponTicket *uuid.UUID `json:"pending_coupon_ticket,omitempty"`
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{Items: []LineItem{}}
}

// Add inserts the item or, when the product is already present, increments
// the existing entry's quantity. ProductID stays unique within the cart.
func (c *Cart) Add(item LineItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// UpdateQuantity replaces the entry's quantity in place. A quantity below
// one is a removal. Missing products are a silent no-op.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) {
	if quantity < 1 {
		c.Remove(productID)
		return
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

// Remove deletes the entry if present; no-op otherwise.
func (c *Cart) Remove(productID uuid.UUID) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart and drops any coupon state, including an
// outstanding validation ticket.
func (c *Cart) Clear() {
	c.Items = []LineItem{}
	c.Coupon = nil
	c.PendingCouponTicket = nil
}

// IsEmpty reports whether the cart holds no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Find returns the line item for the product, if present.
func (c *Cart) Find(productID uuid.UUID) (*LineItem, bool) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i], true
		}
	}
	return nil, false
}
