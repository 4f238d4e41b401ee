package customers

import (
	"context"
	"strings"
	"time"

	"github.com/emberwick/emberwick-backend/pkg/db/models"
	"github.com/emberwick/emberwick-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository wires together customer persistence helpers.
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

// GetByID loads a customer row by primary key.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpsertByEmail creates the customer or refreshes the stored name. Email is
// the identity key, normalized to lowercase.
func (r *Repository) UpsertByEmail(ctx context.Context, email, name string) (*models.Customer, error) {
	customer := &models.Customer{
		ID:    uuid.New(),
		Email: NormalizeEmail(email),
		Name:  name,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.Assignments(map[string]any{"name": name, "updated_at": time.Now().UTC()}),
		}).
		Create(customer).
		Error
	if err != nil {
		return nil, err
	}

	// Re-read so conflicting inserts return the surviving row.
	var stored models.Customer
	if err := r.db.WithContext(ctx).First(&stored, "email = ?", customer.Email).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// Summary is a customer row joined with its order aggregates.
type Summary struct {
	Customer      models.Customer
	OrderCount    int
	LifetimeSpend decimal.Decimal
}

// ListResult is a single page of customer summaries plus the next cursor.
type ListResult struct {
	Customers  []Summary
	NextCursor string
}

type summaryRecord struct {
	models.Customer
	OrderCount    int
	LifetimeSpend decimal.Decimal
}

// List returns customers newest-first with order counts and lifetime spend.
// Canceled orders are excluded from both aggregates.
func (r *Repository) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Table("customers c").
		Select(strings.Join([]string{
			"c.id",
			"c.email",
			"c.name",
			"c.created_at",
			"c.updated_at",
			"COUNT(o.id) AS order_count",
			"COALESCE(SUM(o.grand_total), 0) AS lifetime_spend",
		}, ", ")).
		Joins("LEFT JOIN orders o ON o.customer_id = c.id AND o.status <> 'canceled'").
		Group("c.id")

	if cursor != nil {
		qb = qb.Where("(c.created_at < ?) OR (c.created_at = ? AND c.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var records []summaryRecord
	if err := qb.Order("c.created_at DESC").Order("c.id DESC").Limit(limitWithBuffer).Scan(&records).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(records) > pageSize {
		records = records[:pageSize]
		last := records[len(records)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	summaries := make([]Summary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, Summary{
			Customer:      record.Customer,
			OrderCount:    record.OrderCount,
			LifetimeSpend: record.LifetimeSpend,
		})
	}

	return &ListResult{Customers: summaries, NextCursor: nextCursor}, nil
}

// NormalizeEmail lower-cases and trims the identity key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
