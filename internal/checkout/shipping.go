package checkout

import (
	"context"

	"github.com/emberwick/emberwick-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// ShippingRater prices delivery for an order. Implementations may consult
// carriers; the storefront ships everything at a flat rate today.
type ShippingRater interface {
	Rate(ctx context.Context, subtotal decimal.Decimal, address models.Address) (decimal.Decimal, error)
}

type flatRater struct {
	amount decimal.Decimal
}

// NewFlatRater returns a rater that charges the same amount everywhere.
func NewFlatRater(amount decimal.Decimal) ShippingRater {
	return &flatRater{amount: amount}
}

func (r *flatRater) Rate(ctx context.Context, subtotal decimal.Decimal, address models.Address) (decimal.Decimal, error) {
	return r.amount, nil
}
