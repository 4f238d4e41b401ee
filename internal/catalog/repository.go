package catalog

import (
	"context"
	"strings"

	"github.com/emberwick/emberwick-backend/pkg/db/models"
	"github.com/emberwick/emberwick-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository wires together catalog persistence helpers.
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

// GetByID loads the product without filtering on visibility.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetBySlug loads the product by its storefront slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// SlugExists reports whether any other product already claims the slug.
func (r *Repository) SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	qb := r.db.WithContext(ctx).Model(&models.Product{}).Where("slug = ?", slug)
	if excludeID != nil {
		qb = qb.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := qb.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListQuery holds filters for cursor-paginated product listings.
type ListQuery struct {
	Pagination pagination.Params
	ActiveOnly bool
	Search     string
}

// ListResult is a single page of products plus the cursor for the next one.
type ListResult struct {
	Products   []models.Product
	NextCursor string
}

// List returns products newest-first using keyset pagination.
func (r *Repository) List(ctx context.Context, query ListQuery) (*ListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.Product{})
	if query.ActiveOnly {
		qb = qb.Where("is_active = ?", true)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		// Matches scent notes too, so "cedar" finds every cedar-noted candle.
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where(
			"(LOWER(name) LIKE ? OR LOWER(slug) LIKE ? OR LOWER(CAST(scent_notes AS TEXT)) LIKE ?)",
			pattern, pattern, pattern,
		)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &ListResult{Products: rows, NextCursor: nextCursor}, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update persists the full product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// DecrementInventory atomically reduces stock, refusing to oversell.
func (r *Repository) DecrementInventory(ctx context.Context, id uuid.UUID, qty int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND inventory_qty >= ?", id, qty).
		UpdateColumn("inventory_qty", gorm.Expr("inventory_qty - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
