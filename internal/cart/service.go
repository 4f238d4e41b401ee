package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/emberwick/emberwick-backend/pkg/db/models"
	pkgerrors "github.com/emberwick/emberwick-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type productLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// CouponValidator is the boundary to the coupon pricing collaborator. A
// non-nil error always means "no coupon applied".
type CouponValidator interface {
	Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*Coupon, error)
}

// Quote pairs a cart with the totals derived from it. Every surface that
// renders money reads one of these.
type Quote struct {
	Cart   *Cart
	Totals Totals
}

// Service is the single source of truth for cart state during a session.
type Service interface {
	GetCart(ctx context.Context, token string) (*Quote, error)
	AddItem(ctx context.Context, token string, productID uuid.UUID, quantity int) (*Quote, error)
	UpdateQuantity(ctx context.Context, token string, productID uuid.UUID, quantity int) (*Quote, error)
	RemoveItem(ctx context.Context, token string, productID uuid.UUID) (*Quote, error)
	ApplyCoupon(ctx context.Context, token string, code string) (*Quote, error)
	RemoveCoupon(ctx context.Context, token string) (*Quote, error)
	Clear(ctx context.Context, token string)
}

type service struct {
	snapshots    SnapshotStore
	products     productLoader
	coupons      CouponValidator
	flatShipping decimal.Decimal
}

// NewService builds a cart service backed by the provided stack.
func NewService(snapshots SnapshotStore, products productLoader, coupons CouponValidator, flatShipping decimal.Decimal) (Service, error) {
	if snapshots == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if coupons == nil {
		return nil, fmt.Errorf("coupon validator required")
	}
	if flatShipping.IsNegative() {
		return nil, fmt.Errorf("flat shipping rate must not be negative")
	}
	return &service{
		snapshots:    snapshots,
		products:     products,
		coupons:      coupons,
		flatShipping: flatShipping,
	}, nil
}

func (s *service) GetCart(ctx context.Context, token string) (*Quote, error) {
	return s.quote(s.snapshots.Load(ctx, token))
}

func (s *service) AddItem(ctx context.Context, token string, productID uuid.UUID, quantity int) (*Quote, error) {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	cart := s.snapshots.Load(ctx, token)

	requested := quantity
	if existing, ok := cart.Find(productID); ok {
		requested += existing.Quantity
	}
	if requested > product.InventoryQty {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient inventory for product")
	}

	cart.Add(LineItem{
		ProductID:        product.ID,
		Name:             product.Name,
		ImageURL:         product.ImageURL,
		ScentNotes:       product.ScentNotes,
		UnitPrice:        product.UnitPrice,
		CurrentUnitPrice: product.CurrentUnitPrice(),
		Quantity:         quantity,
	})

	s.snapshots.Save(ctx, token, cart)
	return s.quote(cart)
}

func (s *service) UpdateQuantity(ctx context.Context, token string, productID uuid.UUID, quantity int) (*Quote, error) {
	cart := s.snapshots.Load(ctx, token)
	cart.UpdateQuantity(productID, quantity)
	s.snapshots.Save(ctx, token, cart)
	return s.quote(cart)
}

func (s *service) RemoveItem(ctx context.Context, token string, productID uuid.UUID) (*Quote, error) {
	cart := s.snapshots.Load(ctx, token)
	cart.Remove(productID)
	s.snapshots.Save(ctx, token, cart)
	return s.quote(cart)
}

// ApplyCoupon validates the code against the current subtotal and attaches
// the result. The ticket stamped before validation guarantees that a
// result resolving after the coupon was removed (or the cart cleared) is
// discarded instead of reinstating a stale coupon.
func (s *service) ApplyCoupon(ctx context.Context, token string, code string) (*Quote, error) {
	cart := s.snapshots.Load(ctx, token)
	if cart.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot apply a coupon to an empty cart")
	}

	ticket := cart.BeginCouponApply()
	s.snapshots.Save(ctx, token, cart)

	totals, err := ComputeTotals(cart.Items, nil, nil)
	if err != nil {
		return nil, err
	}

	coupon, err := s.coupons.Validate(ctx, code, totals.Subtotal)
	if err != nil {
		// Fail closed: an unconfirmed coupon is never applied.
		current := s.snapshots.Load(ctx, token)
		if current.PendingCouponTicket != nil && *current.PendingCouponTicket == ticket {
			current.RemoveCoupon()
			s.snapshots.Save(ctx, token, current)
		}
		return nil, err
	}

	current := s.snapshots.Load(ctx, token)
	if current.CompleteCouponApply(ticket, coupon) {
		s.snapshots.Save(ctx, token, current)
	}
	return s.quote(current)
}

func (s *service) RemoveCoupon(ctx context.Context, token string) (*Quote, error) {
	cart := s.snapshots.Load(ctx, token)
	cart.RemoveCoupon()
	s.snapshots.Save(ctx, token, cart)
	return s.quote(cart)
}

// Clear empties the cart and deletes the stored snapshot. Invoked after a
// completed order.
func (s *service) Clear(ctx context.Context, token string) {
	s.snapshots.Delete(ctx, token)
}

func (s *service) quote(cart *Cart) (*Quote, error) {
	shipping := s.flatShipping
	totals, err := ComputeTotals(cart.Items, cart.Coupon, &shipping)
	if err != nil {
		return nil, err
	}
	return &Quote{Cart: cart, Totals: totals}, nil
}
