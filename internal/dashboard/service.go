package dashboard

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/emberwick/emberwick-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Summary is the headline tile row on the back-office dashboard. All
// figures exclude canceled orders.
type Summary struct {
	Revenue           decimal.Decimal `json:"revenue"`
	OrderCount        int             `json:"order_count"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	CouponRedemptions int             `json:"coupon_redemptions"`
	CouponDiscounted  decimal.Decimal `json:"coupon_discounted"`
}

// TopProduct is one row of the best-sellers table.
type TopProduct struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitsSold int             `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// DailyPoint is one day of the revenue series.
type DailyPoint struct {
	Day        string          `json:"day"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int             `json:"order_count"`
}

// Service exposes back-office analytics reads.
type Service interface {
	Summarize(ctx context.Context, since time.Time) (*Summary, error)
	TopProducts(ctx context.Context, since time.Time, limit int) ([]TopProduct, error)
	DailyRevenue(ctx context.Context, since time.Time) ([]DailyPoint, error)
}

type service struct {
	db *gorm.DB
}

// NewService constructs the dashboard service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection required")
	}
	return &service{db: db}, nil
}

const summaryQuery = `
SELECT COALESCE(SUM(grand_total), 0) AS revenue,
       COUNT(*) AS order_count,
       COUNT(coupon_code) AS coupon_redemptions,
       COALESCE(SUM(coupon_discount), 0) AS coupon_discounted
FROM orders
WHERE status <> 'canceled' AND created_at >= ?
`

func (s *service) Summarize(ctx context.Context, since time.Time) (*Summary, error) {
	var row struct {
		Revenue           decimal.Decimal
		OrderCount        int
		CouponRedemptions int
		CouponDiscounted  decimal.Decimal
	}
	if err := s.db.WithContext(ctx).Raw(summaryQuery, since).Scan(&row).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "summarize orders")
	}

	aov := decimal.Zero
	if row.OrderCount > 0 {
		aov = row.Revenue.DivRound(decimal.NewFromInt(int64(row.OrderCount)), 2)
	}

	return &Summary{
		Revenue:           row.Revenue,
		OrderCount:        row.OrderCount,
		AverageOrderValue: aov,
		CouponRedemptions: row.CouponRedemptions,
		CouponDiscounted:  row.CouponDiscounted,
	}, nil
}

const topProductsQuery = `
SELECT i.product_id,
       i.name,
       SUM(i.quantity) AS units_sold,
       COALESCE(SUM(i.line_total), 0) AS revenue
FROM order_items i
JOIN orders o ON o.id = i.order_id
WHERE o.status <> 'canceled' AND o.created_at >= ?
GROUP BY i.product_id, i.name
ORDER BY units_sold DESC, revenue DESC
LIMIT ?
`

func (s *service) TopProducts(ctx context.Context, since time.Time, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []TopProduct
	if err := s.db.WithContext(ctx).Raw(topProductsQuery, since, limit).Scan(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rank products")
	}
	return rows, nil
}

const dailyRevenueQuery = `
SELECT DATE(created_at) AS day,
       COALESCE(SUM(grand_total), 0) AS revenue,
       COUNT(*) AS order_count
FROM orders
WHERE status <> 'canceled' AND created_at >= ?
GROUP BY DATE(created_at)
ORDER BY day ASC
`

func (s *service) DailyRevenue(ctx context.Context, since time.Time) ([]DailyPoint, error) {
	var rows []DailyPoint
	if err := s.db.WithContext(ctx).Raw(dailyRevenueQuery, since).Scan(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build revenue series")
	}
	return rows, nil
}
