package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emberwick/emberwick-backend/api/middleware"
	"github.com/emberwick/emberwick-backend/api/responses"
	"github.com/emberwick/emberwick-backend/api/validators"
	cartsvc "github.com/emberwick/emberwick-backend/internal/cart"
	pkgerrors "github.com/emberwick/emberwick-backend/pkg/errors"
	"github.com/emberwick/emberwick-backend/pkg/logger"
	"github.com/emberwick/emberwick-backend/pkg/money"
)

// CartGet returns the current cart with freshly computed totals.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := requireCartToken(w, r, svc, logg)
		if !ok {
			return
		}

		quote, err := svc.GetCart(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newQuoteResponse(quote))
	}
}

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// CartAddItem adds a product to the cart, merging quantities when the
// product is already present.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := requireCartToken(w, r, svc, logg)
		if !ok {
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.AddItem(r.Context(), token, payload.ProductID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newQuoteResponse(quote))
	}
}

type updateItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// CartUpdateItem replaces a line's quantity. Zero removes the line.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := requireCartToken(w, r, svc, logg)
		if !ok {
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.UpdateQuantity(r.Context(), token, productID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newQuoteResponse(quote))
	}
}

// CartRemoveItem removes a line entirely.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := requireCartToken(w, r, svc, logg)
		if !ok {
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		quote, err := svc.RemoveItem(r.Context(), token, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newQuoteResponse(quote))
	}
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

// CartApplyCoupon validates the code against the current subtotal and, on
// success, attaches it to the cart.
func CartApplyCoupon(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := requireCartToken(w, r, svc, logg)
		if !ok {
			return
		}

		var payload applyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.ApplyCoupon(r.Context(), token, payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newQuoteResponse(quote))
	}
}

// CartRemoveCoupon detaches the coupon from the cart.
func CartRemoveCoupon(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := requireCartToken(w, r, svc, logg)
		if !ok {
			return
		}

		quote, err := svc.RemoveCoupon(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newQuoteResponse(quote))
	}
}

func requireCartToken(w http.ResponseWriter, r *http.Request, svc cartsvc.Service, logg *logger.Logger) (string, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
		return "", false
	}
	token := middleware.CartTokenFromContext(r.Context())
	if token == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart token missing from context"))
		return "", false
	}
	return token, true
}

type quoteItemResponse struct {
	ProductID        uuid.UUID `json:"product_id"`
	Name             string    `json:"name"`
	ImageURL         string    `json:"image_url,omitempty"`
	ScentNotes       []string  `json:"scent_notes,omitempty"`
	UnitPrice        string    `json:"unit_price"`
	CurrentUnitPrice string    `json:"current_unit_price"`
	OnSale           bool      `json:"on_sale"`
	Quantity         int       `json:"quantity"`
	LineTotal        string    `json:"line_total"`
}

type quoteCouponResponse struct {
	Code  string `json:"code"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

type totalsResponse struct {
	Subtotal       string `json:"subtotal"`
	OriginalTotal  string `json:"original_total"`
	ProductSavings string `json:"product_savings"`
	CouponDiscount string `json:"coupon_discount"`
	TotalSavings   string `json:"total_savings"`
	Shipping       string `json:"shipping"`
	GrandTotal     string `json:"grand_total"`
}

type quoteResponse struct {
	Items  []quoteItemResponse  `json:"items"`
	Coupon *quoteCouponResponse `json:"coupon,omitempty"`
	Totals totalsResponse       `json:"totals"`
}

func newQuoteResponse(quote *cartsvc.Quote) quoteResponse {
	items := make([]quoteItemResponse, 0, len(quote.Cart.Items))
	for _, item := range quote.Cart.Items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		items = append(items, quoteItemResponse{
			ProductID:        item.ProductID,
			Name:             item.Name,
			ImageURL:         item.ImageURL,
			ScentNotes:       item.ScentNotes,
			UnitPrice:        money.Format(item.UnitPrice),
			CurrentUnitPrice: money.Format(item.CurrentUnitPrice),
			OnSale:           item.CurrentUnitPrice.LessThan(item.UnitPrice),
			Quantity:         item.Quantity,
			LineTotal:        money.Format(item.CurrentUnitPrice.Mul(qty)),
		})
	}

	resp := quoteResponse{
		Items:  items,
		Totals: newTotalsResponse(quote.Totals),
	}
	if quote.Cart.Coupon != nil {
		resp.Coupon = &quoteCouponResponse{
			Code:  quote.Cart.Coupon.Code,
			Type:  quote.Cart.Coupon.Type.String(),
			Value: money.Format(quote.Cart.Coupon.Value),
		}
	}
	return resp
}

func newTotalsResponse(totals cartsvc.Totals) totalsResponse {
	return totalsResponse{
		Subtotal:       money.Format(totals.Subtotal),
		OriginalTotal:  money.Format(totals.OriginalTotal),
		ProductSavings: money.Format(totals.ProductSavings),
		CouponDiscount: money.Format(totals.CouponDiscount),
		TotalSavings:   money.Format(totals.TotalSavings),
		Shipping:       money.Format(totals.Shipping),
		GrandTotal:     money.Format(totals.GrandTotal),
	}
}
