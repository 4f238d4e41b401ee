package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emberwick/emberwick-backend/internal/cart"
	"github.com/emberwick/emberwick-backend/internal/catalog"
	"github.com/emberwick/emberwick-backend/internal/coupons"
	"github.com/emberwick/emberwick-backend/internal/customers"
	"github.com/emberwick/emberwick-backend/internal/orders"
	"github.com/emberwick/emberwick-backend/pkg/db/models"
	pkgerrors "github.com/emberwick/emberwick-backend/pkg/errors"
	"github.com/emberwick/emberwick-backend/pkg/logger"
	"github.com/emberwick/emberwick-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PlaceOrderInput is the validated checkout payload.
type PlaceOrderInput struct {
	Email   string
	Name    string
	Address models.Address
}

// Service turns a cart into a durable order.
type Service interface {
	PlaceOrder(ctx context.Context, token string, input PlaceOrderInput) (*models.Order, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	snapshots    cart.SnapshotStore
	validator    cart.CouponValidator
	catalogRepo  *catalog.Repository
	couponRepo   *coupons.Repository
	customerRepo *customers.Repository
	orderRepo    *orders.Repository
	tx           txRunner
	rater        ShippingRater
	checkoutMet  *metrics.CheckoutMetrics
	logg         *logger.Logger
	now          func() time.Time
}

// NewService constructs the checkout service.
func NewService(
	snapshots cart.SnapshotStore,
	validator cart.CouponValidator,
	catalogRepo *catalog.Repository,
	couponRepo *coupons.Repository,
	customerRepo *customers.Repository,
	orderRepo *orders.Repository,
	tx txRunner,
	rater ShippingRater,
	checkoutMet *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if snapshots == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if validator == nil {
		return nil, fmt.Errorf("coupon validator required")
	}
	if catalogRepo == nil || couponRepo == nil || customerRepo == nil || orderRepo == nil {
		return nil, fmt.Errorf("all repositories required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if rater == nil {
		return nil, fmt.Errorf("shipping rater required")
	}
	return &service{
		snapshots:    snapshots,
		validator:    validator,
		catalogRepo:  catalogRepo,
		couponRepo:   couponRepo,
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		tx:           tx,
		rater:        rater,
		checkoutMet:  checkoutMet,
		logg:         logg,
		now:          time.Now,
	}, nil
}

// PlaceOrder re-prices the cart against the live catalog, re-validates any
// attached coupon, and writes the order atomically. The cart snapshot is
// only deleted once the order has committed.
func (s *service) PlaceOrder(ctx context.Context, token string, input PlaceOrderInput) (*models.Order, error) {
	current := s.snapshots.Load(ctx, token)
	if current.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	lines, err := s.repriceLines(ctx, current.Items)
	if err != nil {
		s.checkoutMet.IncOrder("failed")
		return nil, err
	}

	merchandise, err := cart.ComputeTotals(lines, nil, nil)
	if err != nil {
		s.checkoutMet.IncOrder("failed")
		return nil, err
	}

	coupon, err := s.revalidateCoupon(ctx, token, current, merchandise.Subtotal)
	if err != nil {
		s.checkoutMet.IncOrder("failed")
		return nil, err
	}

	shipping, err := s.rater.Rate(ctx, merchandise.Subtotal, input.Address)
	if err != nil {
		s.checkoutMet.IncOrder("failed")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate shipping")
	}

	totals, err := cart.ComputeTotals(lines, coupon, &shipping)
	if err != nil {
		s.checkoutMet.IncOrder("failed")
		return nil, err
	}

	order := s.buildOrder(input, lines, coupon, totals)
	if err := s.persistOrder(ctx, order, lines, coupon, input); err != nil {
		s.checkoutMet.IncOrder("failed")
		return nil, err
	}

	s.checkoutMet.IncOrder("placed")
	if coupon != nil {
		s.checkoutMet.IncCouponRedemption(coupon.Type.String())
	}
	if s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("order %s placed for %s", order.OrderNumber, order.Email))
	}

	s.snapshots.Delete(ctx, token)
	return order, nil
}

// repriceLines rebuilds every line at current catalog prices so a quote
// rendered minutes ago cannot pin an outdated price.
func (s *service) repriceLines(ctx context.Context, items []cart.LineItem) ([]cart.LineItem, error) {
	lines := make([]cart.LineItem, 0, len(items))
	for _, item := range items {
		product, err := s.catalogRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeConflict,
					fmt.Sprintf("%s is no longer available", item.Name))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if !product.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("%s is no longer available", product.Name))
		}
		if item.Quantity > product.InventoryQty {
			return nil, pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("insufficient inventory for %s", product.Name))
		}
		lines = append(lines, cart.LineItem{
			ProductID:        product.ID,
			Name:             product.Name,
			ImageURL:         product.ImageURL,
			ScentNotes:       product.ScentNotes,
			UnitPrice:        product.UnitPrice,
			CurrentUnitPrice: product.CurrentUnitPrice(),
			Quantity:         item.Quantity,
		})
	}
	return lines, nil
}

// revalidateCoupon confirms the attached coupon against the live coupon
// table and current subtotal. A rejection strips the coupon from the
// snapshot before surfacing, so retrying checkout quotes honestly.
func (s *service) revalidateCoupon(ctx context.Context, token string, current *cart.Cart, subtotal decimal.Decimal) (*cart.Coupon, error) {
	if current.Coupon == nil {
		return nil, nil
	}

	coupon, err := s.validator.Validate(ctx, current.Coupon.Code, subtotal)
	if err != nil {
		current.RemoveCoupon()
		s.snapshots.Save(ctx, token, current)
		return nil, err
	}
	return coupon, nil
}

func (s *service) buildOrder(input PlaceOrderInput, lines []cart.LineItem, coupon *cart.Coupon, totals cart.Totals) *models.Order {
	order := &models.Order{
		ID:              uuid.New(),
		OrderNumber:     s.newOrderNumber(),
		Email:           customers.NormalizeEmail(input.Email),
		ShippingAddress: input.Address,
		Subtotal:        totals.Subtotal,
		ProductSavings:  totals.ProductSavings,
		CouponDiscount:  totals.CouponDiscount,
		Shipping:        totals.Shipping,
		GrandTotal:      totals.GrandTotal,
	}
	if coupon != nil {
		code := coupon.Code
		order.CouponCode = &code
	}
	for _, line := range lines {
		order.Items = append(order.Items, models.OrderItem{
			ID:               uuid.New(),
			OrderID:          order.ID,
			ProductID:        line.ProductID,
			Name:             line.Name,
			Quantity:         line.Quantity,
			UnitPrice:        line.UnitPrice,
			CurrentUnitPrice: line.CurrentUnitPrice,
			LineTotal:        line.CurrentUnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}
	return order
}

func (s *service) persistOrder(ctx context.Context, order *models.Order, lines []cart.LineItem, coupon *cart.Coupon, input PlaceOrderInput) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		customer, err := s.customerRepo.WithTx(tx).UpsertByEmail(ctx, input.Email, input.Name)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert customer")
		}
		order.CustomerID = customer.ID

		catalogTx := s.catalogRepo.WithTx(tx)
		for _, line := range lines {
			if err := catalogTx.DecrementInventory(ctx, line.ProductID, line.Quantity); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeConflict,
						fmt.Sprintf("insufficient inventory for %s", line.Name))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement inventory")
			}
		}

		if _, err := s.orderRepo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		if coupon != nil {
			couponTx := s.couponRepo.WithTx(tx)
			stored, err := couponTx.GetByCode(ctx, coupon.Code)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon for redemption")
			}
			if err := couponTx.IncrementRedemption(ctx, stored.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record coupon redemption")
			}
		}
		return nil
	})
}

func (s *service) newOrderNumber() string {
	return fmt.Sprintf("EW-%s-%s",
		s.now().UTC().Format("20060102"),
		strings.ToUpper(uuid.NewString()[:8]),
	)
}
