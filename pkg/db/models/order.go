package models

import (
	"time"

	"github.com/emberwick/emberwick-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Address is the shipping destination captured at checkout.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Order is the durable record of a placed order. Monetary columns hold the
// totals quoted at placement; the coupon discount is recorded for audit but
// never re-applied from here.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber     string            `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerID      uuid.UUID         `gorm:"column:customer_id;type:uuid;not null"`
	Email           string            `gorm:"column:email;not null"`
	Status          enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	ShippingAddress Address           `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	Subtotal        decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	ProductSavings  decimal.Decimal   `gorm:"column:product_savings;type:numeric(12,2);not null;default:0"`
	CouponCode      *string           `gorm:"column:coupon_code"`
	CouponDiscount  decimal.Decimal   `gorm:"column:coupon_discount;type:numeric(12,2);not null;default:0"`
	Shipping        decimal.Decimal   `gorm:"column:shipping;type:numeric(12,2);not null;default:0"`
	GrandTotal      decimal.Decimal   `gorm:"column:grand_total;type:numeric(12,2);not null"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID"`
	CanceledAt      *time.Time        `gorm:"column:canceled_at"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
