package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/emberwick/emberwick-backend/api/middleware"
	"github.com/emberwick/emberwick-backend/api/responses"
	"github.com/emberwick/emberwick-backend/api/validators"
	"github.com/emberwick/emberwick-backend/internal/checkout"
	"github.com/emberwick/emberwick-backend/pkg/db/models"
	pkgerrors "github.com/emberwick/emberwick-backend/pkg/errors"
	"github.com/emberwick/emberwick-backend/pkg/logger"
	"github.com/emberwick/emberwick-backend/pkg/money"
)

type checkoutRequest struct {
	Email           string         `json:"email" validate:"required,email"`
	Name            string         `json:"name" validate:"required"`
	ShippingAddress addressPayload `json:"shipping_address" validate:"required"`
}

type addressPayload struct {
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// CheckoutPlaceOrder converts the cart into a durable order.
func CheckoutPlaceOrder(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		token := middleware.CartTokenFromContext(r.Context())
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart token missing from context"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), token, checkout.PlaceOrderInput{
			Email: payload.Email,
			Name:  payload.Name,
			Address: models.Address{
				Line1:      payload.ShippingAddress.Line1,
				Line2:      payload.ShippingAddress.Line2,
				City:       payload.ShippingAddress.City,
				State:      payload.ShippingAddress.State,
				PostalCode: payload.ShippingAddress.PostalCode,
				Country:    payload.ShippingAddress.Country,
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}

type orderItemResponse struct {
	ID               uuid.UUID `json:"id"`
	ProductID        uuid.UUID `json:"product_id"`
	Name             string    `json:"name"`
	Quantity         int       `json:"quantity"`
	UnitPrice        string    `json:"unit_price"`
	CurrentUnitPrice string    `json:"current_unit_price"`
	LineTotal        string    `json:"line_total"`
}

type orderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerID      uuid.UUID           `json:"customer_id"`
	Email           string              `json:"email"`
	Status          string              `json:"status"`
	ShippingAddress models.Address      `json:"shipping_address"`
	Subtotal        string              `json:"subtotal"`
	ProductSavings  string              `json:"product_savings"`
	CouponCode      *string             `json:"coupon_code,omitempty"`
	CouponDiscount  string              `json:"coupon_discount"`
	Shipping        string              `json:"shipping"`
	GrandTotal      string              `json:"grand_total"`
	Items           []orderItemResponse `json:"items,omitempty"`
	CanceledAt      *time.Time          `json:"canceled_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func newOrderResponse(order *models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ID:               item.ID,
			ProductID:        item.ProductID,
			Name:             item.Name,
			Quantity:         item.Quantity,
			UnitPrice:        money.Format(item.UnitPrice),
			CurrentUnitPrice: money.Format(item.CurrentUnitPrice),
			LineTotal:        money.Format(item.LineTotal),
		})
	}

	status := order.Status.String()
	if status == "" {
		status = "pending"
	}

	return orderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
		Email:           order.Email,
		Status:          status,
		ShippingAddress: order.ShippingAddress,
		Subtotal:        money.Format(order.Subtotal),
		ProductSavings:  money.Format(order.ProductSavings),
		CouponCode:      order.CouponCode,
		CouponDiscount:  money.Format(order.CouponDiscount),
		Shipping:        money.Format(order.Shipping),
		GrandTotal:      money.Format(order.GrandTotal),
		Items:           items,
		CanceledAt:      order.CanceledAt,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}
