package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/emberwick/emberwick-backend/api/responses"
	"github.com/emberwick/emberwick-backend/api/validators"
	"github.com/emberwick/emberwick-backend/internal/coupons"
	"github.com/emberwick/emberwick-backend/pkg/db/models"
	"github.com/emberwick/emberwick-backend/pkg/enums"
	pkgerrors "github.com/emberwick/emberwick-backend/pkg/errors"
	"github.com/emberwick/emberwick-backend/pkg/logger"
	"github.com/emberwick/emberwick-backend/pkg/money"
)

// AdminCouponList lists coupons newest-first.
func AdminCouponList(svc coupons.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListCoupons(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list := make([]couponResponse, 0, len(result.Coupons))
		for i := range result.Coupons {
			list = append(list, newCouponResponse(&result.Coupons[i]))
		}
		responses.WriteSuccess(w, couponListResponse{Coupons: list, NextCursor: result.NextCursor})
	}
}

// AdminCouponGet returns one coupon by id.
func AdminCouponGet(svc coupons.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := svc.GetCoupon(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCouponResponse(coupon))
	}
}

type createCouponRequest struct {
	Code            string     `json:"code" validate:"required"`
	Type            string     `json:"type" validate:"required,oneof=percentage fixed"`
	Value           string     `json:"value" validate:"required"`
	MinimumSubtotal *string    `json:"minimum_subtotal"`
	StartsAt        *time.Time `json:"starts_at"`
	ExpiresAt       *time.Time `json:"expires_at"`
	IsActive        *bool      `json:"is_active"`
}

// AdminCouponCreate creates a coupon.
func AdminCouponCreate(svc coupons.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		var payload createCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		couponType, err := enums.ParseCouponType(payload.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid coupon type"))
			return
		}
		value, err := parseMoneyField(payload.Value, "value")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		minimum, err := parseOptionalMoneyField(payload.MinimumSubtotal, "minimum_subtotal")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := coupons.CreateCouponInput{
			Code:      payload.Code,
			Type:      couponType,
			Value:     value,
			StartsAt:  payload.StartsAt,
			ExpiresAt: payload.ExpiresAt,
			IsActive:  true,
		}
		if minimum != nil {
			input.MinimumSubtotal = *minimum
		}
		if payload.IsActive != nil {
			input.IsActive = *payload.IsActive
		}

		coupon, err := svc.CreateCoupon(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCouponResponse(coupon))
	}
}

type updateCouponRequest struct {
	Value           *string    `json:"value"`
	MinimumSubtotal *string    `json:"minimum_subtotal"`
	StartsAt        *time.Time `json:"starts_at"`
	ExpiresAt       *time.Time `json:"expires_at"`
	IsActive        *bool      `json:"is_active"`
}

// AdminCouponUpdate applies a partial update. The code and type are fixed
// at creation.
func AdminCouponUpdate(svc coupons.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := coupons.UpdateCouponInput{
			StartsAt:  payload.StartsAt,
			ExpiresAt: payload.ExpiresAt,
			IsActive:  payload.IsActive,
		}
		if input.Value, err = parseOptionalMoneyField(payload.Value, "value"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.MinimumSubtotal, err = parseOptionalMoneyField(payload.MinimumSubtotal, "minimum_subtotal"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := svc.UpdateCoupon(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCouponResponse(coupon))
	}
}

// AdminCouponDelete removes a coupon.
func AdminCouponDelete(svc coupons.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCoupon(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type couponResponse struct {
	ID              uuid.UUID  `json:"id"`
	Code            string     `json:"code"`
	Type            string     `json:"type"`
	Value           string     `json:"value"`
	MinimumSubtotal string     `json:"minimum_subtotal"`
	StartsAt        *time.Time `json:"starts_at,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	IsActive        bool       `json:"is_active"`
	RedemptionCount int        `json:"redemption_count"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type couponListResponse struct {
	Coupons    []couponResponse `json:"coupons"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

func newCouponResponse(coupon *models.Coupon) couponResponse {
	return couponResponse{
		ID:              coupon.ID,
		Code:            coupon.Code,
		Type:            coupon.Type.String(),
		Value:           money.Format(coupon.Value),
		MinimumSubtotal: money.Format(coupon.MinimumSubtotal),
		StartsAt:        coupon.StartsAt,
		ExpiresAt:       coupon.ExpiresAt,
		IsActive:        coupon.IsActive,
		RedemptionCount: coupon.RedemptionCount,
		CreatedAt:       coupon.CreatedAt,
		UpdatedAt:       coupon.UpdatedAt,
	}
}
