package controllers

import (
	"net/http"
	"time"

	"github.com/emberwick/emberwick-backend/api/responses"
	"github.com/emberwick/emberwick-backend/api/validators"
	"github.com/emberwick/emberwick-backend/internal/dashboard"
	pkgerrors "github.com/emberwick/emberwick-backend/pkg/errors"
	"github.com/emberwick/emberwick-backend/pkg/logger"
	"github.com/emberwick/emberwick-backend/pkg/money"
)

const (
	defaultDashboardDays = 30
	maxDashboardDays     = 365
)

// AdminDashboardSummary serves the headline tiles for a trailing window.
func AdminDashboardSummary(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		since, err := parseSince(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summarize(r.Context(), since)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dashboardSummaryResponse{
			Revenue:           money.Format(summary.Revenue),
			OrderCount:        summary.OrderCount,
			AverageOrderValue: money.Format(summary.AverageOrderValue),
			CouponRedemptions: summary.CouponRedemptions,
			CouponDiscounted:  money.Format(summary.CouponDiscounted),
		})
	}
}

// AdminDashboardTopProducts serves the best-sellers table.
func AdminDashboardTopProducts(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		since, err := parseSince(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 5, 1, 50)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.TopProducts(r.Context(), since, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list := make([]topProductResponse, 0, len(rows))
		for _, row := range rows {
			list = append(list, topProductResponse{
				ProductID: row.ProductID.String(),
				Name:      row.Name,
				UnitsSold: row.UnitsSold,
				Revenue:   money.Format(row.Revenue),
			})
		}
		responses.WriteSuccess(w, map[string]any{"products": list})
	}
}

// AdminDashboardDailyRevenue serves the revenue time series.
func AdminDashboardDailyRevenue(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		since, err := parseSince(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.DailyRevenue(r.Context(), since)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list := make([]dailyPointResponse, 0, len(rows))
		for _, row := range rows {
			list = append(list, dailyPointResponse{
				Day:        row.Day,
				Revenue:    money.Format(row.Revenue),
				OrderCount: row.OrderCount,
			})
		}
		responses.WriteSuccess(w, map[string]any{"series": list})
	}
}

func parseSince(r *http.Request) (time.Time, error) {
	days, err := validators.ParseQueryInt(r, "days", defaultDashboardDays, 1, maxDashboardDays)
	if err != nil {
		return time.Time{}, err
	}
	return time.Now().UTC().AddDate(0, 0, -days), nil
}

type dashboardSummaryResponse struct {
	Revenue           string `json:"revenue"`
	OrderCount        int    `json:"order_count"`
	AverageOrderValue string `json:"average_order_value"`
	CouponRedemptions int    `json:"coupon_redemptions"`
	CouponDiscounted  string `json:"coupon_discounted"`
}

type topProductResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitsSold int    `json:"units_sold"`
	Revenue   string `json:"revenue"`
}

type dailyPointResponse struct {
	Day        string `json:"day"`
	Revenue    string `json:"revenue"`
	OrderCount int    `json:"order_count"`
}
