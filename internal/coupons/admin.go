package coupons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emberwick/emberwick-backend/pkg/db/models"
	"github.com/emberwick/emberwick-backend/pkg/enums"
	pkgerrors "github.com/emberwick/emberwick-backend/pkg/errors"
	"github.com/emberwick/emberwick-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AdminService exposes back-office coupon management.
type AdminService interface {
	ListCoupons(ctx context.Context, params pagination.Params) (*ListResult, error)
	GetCoupon(ctx context.Context, id uuid.UUID) (*models.Coupon, error)
	CreateCoupon(ctx context.Context, input CreateCouponInput) (*models.Coupon, error)
	UpdateCoupon(ctx context.Context, id uuid.UUID, input UpdateCouponInput) (*models.Coupon, error)
	DeleteCoupon(ctx context.Context, id uuid.UUID) error
}

// CreateCouponInput holds the validated payload to create a coupon.
type CreateCouponInput struct {
	Code            string
	Type            enums.CouponType
	Value           decimal.Decimal
	MinimumSubtotal decimal.Decimal
	StartsAt        *time.Time
	ExpiresAt       *time.Time
	IsActive        bool
}

// UpdateCouponInput holds optional mutation values for a coupon.
type UpdateCouponInput struct {
	Value           *decimal.Decimal
	MinimumSubtotal *decimal.Decimal
	StartsAt        *time.Time
	ExpiresAt       *time.Time
	IsActive        *bool
}

type adminService struct {
	repo *Repository
}

// NewAdminService constructs the back-office coupon service.
func NewAdminService(repo *Repository) (AdminService, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &adminService{repo: repo}, nil
}

func (s *adminService) ListCoupons(ctx context.Context, params pagination.Params) (*ListResult, error) {
	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}
	return result, nil
}

func (s *adminService) GetCoupon(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	coupon, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	return coupon, nil
}

func (s *adminService) CreateCoupon(ctx context.Context, input CreateCouponInput) (*models.Coupon, error) {
	code := NormalizeCode(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	if err := validateCouponValues(input.Type, input.Value, input.MinimumSubtotal); err != nil {
		return nil, err
	}
	if err := validateWindow(input.StartsAt, input.ExpiresAt); err != nil {
		return nil, err
	}

	taken, err := s.repo.CodeExists(ctx, code, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check coupon code")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already in use")
	}

	coupon := &models.Coupon{
		ID:              uuid.New(),
		Code:            code,
		Type:            input.Type,
		Value:           input.Value,
		MinimumSubtotal: input.MinimumSubtotal,
		StartsAt:        input.StartsAt,
		ExpiresAt:       input.ExpiresAt,
		IsActive:        input.IsActive,
	}
	created, err := s.repo.Create(ctx, coupon)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create coupon")
	}
	return created, nil
}

func (s *adminService) UpdateCoupon(ctx context.Context, id uuid.UUID, input UpdateCouponInput) (*models.Coupon, error) {
	coupon, err := s.GetCoupon(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Value != nil {
		coupon.Value = *input.Value
	}
	if input.MinimumSubtotal != nil {
		coupon.MinimumSubtotal = *input.MinimumSubtotal
	}
	if input.StartsAt != nil {
		coupon.StartsAt = input.StartsAt
	}
	if input.ExpiresAt != nil {
		coupon.ExpiresAt = input.ExpiresAt
	}
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}

	if err := validateCouponValues(coupon.Type, coupon.Value, coupon.MinimumSubtotal); err != nil {
		return nil, err
	}
	if err := validateWindow(coupon.StartsAt, coupon.ExpiresAt); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, coupon)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update coupon")
	}
	return updated, nil
}

func (s *adminService) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCoupon(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete coupon")
	}
	return nil
}

func validateCouponValues(couponType enums.CouponType, value, minimum decimal.Decimal) error {
	if !couponType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "type must be percentage or fixed")
	}
	if value.Sign() <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "value must be positive")
	}
	if minimum.Sign() < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "minimum_subtotal cannot be negative")
	}
	return nil
}

func validateWindow(startsAt, expiresAt *time.Time) error {
	if startsAt != nil && expiresAt != nil && expiresAt.Before(*startsAt) {
		return pkgerrors.New(pkgerrors.CodeValidation, "expires_at cannot precede starts_at")
	}
	return nil
}
