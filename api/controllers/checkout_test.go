package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/emberwick/emberwick-backend/internal/checkout"
	"github.com/emberwick/emberwick-backend/pkg/db/models"
	"github.com/emberwick/emberwick-backend/pkg/enums"
	pkgerrors "github.com/emberwick/emberwick-backend/pkg/errors"
)

type stubCheckoutService struct {
	order *models.Order
	err   error

	gotInput checkout.PlaceOrderInput
}

func (s *stubCheckoutService) PlaceOrder(ctx context.Context, token string, input checkout.PlaceOrderInput) (*models.Order, error) {
	s.gotInput = input
	return s.order, s.err
}

const checkoutBody = `{
	"email": "jamie@example.com",
	"name": "Jamie Doe",
	"shipping_address": {
		"line1": "12 Wick Lane",
		"city": "Portland",
		"state": "OR",
		"postal_code": "97201",
		"country": "US"
	}
}`

func TestCheckoutPlaceOrderCreated(t *testing.T) {
	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: "EW-20260830-ABCD1234",
		Email:       "jamie@example.com",
		Status:      enums.OrderStatusPending,
		Subtotal:    dec(t, "64.00"),
		GrandTotal:  dec(t, "79.00"),
	}
	svc := &stubCheckoutService{order: order}
	handler := CheckoutPlaceOrder(svc, nil)

	req := withToken(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(checkoutBody)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotInput.Address.City != "Portland" {
		t.Fatalf("address not forwarded: %+v", svc.gotInput.Address)
	}

	var envelope struct {
		Data orderResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderNumber != order.OrderNumber {
		t.Fatalf("unexpected order number: %s", envelope.Data.OrderNumber)
	}
	if envelope.Data.GrandTotal != "79.00" {
		t.Fatalf("unexpected grand total: %s", envelope.Data.GrandTotal)
	}
}

func TestCheckoutPlaceOrderRejectsMissingEmail(t *testing.T) {
	handler := CheckoutPlaceOrder(&stubCheckoutService{}, nil)

	body := `{"name":"Jamie","shipping_address":{"line1":"12 Wick Lane","city":"Portland","state":"OR","postal_code":"97201","country":"US"}}`
	req := withToken(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutPlaceOrderConflictOnInventory(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeConflict, "insufficient inventory for Cedar & Smoke")}
	handler := CheckoutPlaceOrder(svc, nil)

	req := withToken(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(checkoutBody)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}
