package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/emberwick/emberwick-backend/api/responses"
	"github.com/emberwick/emberwick-backend/api/validators"
	"github.com/emberwick/emberwick-backend/internal/customers"
	pkgerrors "github.com/emberwick/emberwick-backend/pkg/errors"
	"github.com/emberwick/emberwick-backend/pkg/logger"
	"github.com/emberwick/emberwick-backend/pkg/money"
)

// AdminCustomerList lists customers with order counts and lifetime spend.
func AdminCustomerList(svc customers.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListCustomers(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list := make([]customerSummaryResponse, 0, len(result.Customers))
		for _, summary := range result.Customers {
			list = append(list, customerSummaryResponse{
				ID:            summary.Customer.ID,
				Email:         summary.Customer.Email,
				Name:          summary.Customer.Name,
				OrderCount:    summary.OrderCount,
				LifetimeSpend: money.Format(summary.LifetimeSpend),
				CreatedAt:     summary.Customer.CreatedAt,
			})
		}
		responses.WriteSuccess(w, customerListResponse{Customers: list, NextCursor: result.NextCursor})
	}
}

// AdminCustomerGet returns one customer with their order history.
func AdminCustomerGet(svc customers.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetCustomer(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history := make([]orderResponse, 0, len(detail.Orders))
		for i := range detail.Orders {
			history = append(history, newOrderResponse(&detail.Orders[i]))
		}
		responses.WriteSuccess(w, customerDetailResponse{
			ID:        detail.Customer.ID,
			Email:     detail.Customer.Email,
			Name:      detail.Customer.Name,
			CreatedAt: detail.Customer.CreatedAt,
			UpdatedAt: detail.Customer.UpdatedAt,
			Orders:    history,
		})
	}
}

type customerSummaryResponse struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	OrderCount    int       `json:"order_count"`
	LifetimeSpend string    `json:"lifetime_spend"`
	CreatedAt     time.Time `json:"created_at"`
}

type customerListResponse struct {
	Customers  []customerSummaryResponse `json:"customers"`
	NextCursor string                    `json:"next_cursor,omitempty"`
}

type customerDetailResponse struct {
	ID        uuid.UUID       `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Orders    []orderResponse `json:"orders"`
}
