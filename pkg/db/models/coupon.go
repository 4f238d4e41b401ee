package models

import (
	"time"

	"github.com/emberwick/emberwick-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coupon is an order-level, code-activated discount. Codes are stored
// uppercase; lookups normalize input the same way.
type Coupon struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code            string           `gorm:"column:code;not null;uniqueIndex"`
	Type            enums.CouponType `gorm:"column:type;type:text;not null"`
	Value           decimal.Decimal  `gorm:"column:value;type:numeric(12,2);not null"`
	MinimumSubtotal decimal.Decimal  `gorm:"column:minimum_subtotal;type:numeric(12,2);not null;default:0"`
	StartsAt        *time.Time       `gorm:"column:starts_at"`
	ExpiresAt       *time.Time       `gorm:"column:expires_at"`
	IsActive        bool             `gorm:"column:is_active;not null;default:true"`
	RedemptionCount int              `gorm:"column:redemption_count;not null;default:0"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
