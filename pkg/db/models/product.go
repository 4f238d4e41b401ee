package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. SalePrice, when set, must never exceed
// UnitPrice; that is enforced at data entry and trusted downstream.
type Product struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string           `gorm:"column:name;not null"`
	Slug         string           `gorm:"column:slug;not null;uniqueIndex"`
	Description  string           `gorm:"column:description"`
	ScentNotes   pq.StringArray   `gorm:"column:scent_notes;type:text[]"`
	ImageURL     string           `gorm:"column:image_url"`
	UnitPrice    decimal.Decimal  `gorm:"column:unit_price;type:numeric(12,2);not null"`
	SalePrice    *decimal.Decimal `gorm:"column:sale_price;type:numeric(12,2)"`
	InventoryQty int              `gorm:"column:inventory_qty;not null;default:0"`
	IsActive     bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// CurrentUnitPrice returns the effective per-unit price after any
// standing sale.
func (p Product) CurrentUnitPrice() decimal.Decimal {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.UnitPrice
}
