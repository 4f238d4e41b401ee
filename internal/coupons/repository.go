package coupons

import (
	"context"
	"strings"

	"github.com/emberwick/emberwick-backend/pkg/db/models"
	"github.com/emberwick/emberwick-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository wires together coupon persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// GetByID loads a coupon row by primary key.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

// GetByCode looks a coupon up by its normalized (uppercase) code.
func (r *Repository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "code = ?", NormalizeCode(code)).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

// CodeExists reports whether another coupon already claims the code.
func (r *Repository) CodeExists(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error) {
	qb := r.db.WithContext(ctx).Model(&models.Coupon{}).Where("code = ?", NormalizeCode(code))
	if excludeID != nil {
		qb = qb.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := qb.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListResult is a single page of coupons plus the cursor for the next one.
type ListResult struct {
	Coupons    []models.Coupon
	NextCursor string
}

// List returns coupons newest-first using keyset pagination.
func (r *Repository) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.Coupon{})
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Coupon
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &ListResult{Coupons: rows, NextCursor: nextCursor}, nil
}

// Create inserts a new coupon row.
func (r *Repository) Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	if err := r.db.WithContext(ctx).Create(coupon).Error; err != nil {
		return nil, err
	}
	return coupon, nil
}

// Update persists the full coupon row.
func (r *Repository) Update(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	if err := r.db.WithContext(ctx).Save(coupon).Error; err != nil {
		return nil, err
	}
	return coupon, nil
}

// Delete removes a coupon by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Coupon{}).Error
}

// IncrementRedemption bumps the redemption counter by one.
func (r *Repository) IncrementRedemption(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ?", id).
		UpdateColumn("redemption_count", gorm.Expr("redemption_count + 1")).
		Error
}

// NormalizeCode upper-cases and trims a user-entered coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
