package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bdshop/storefront-backend/pkg/enums"
)

// Product represents a catalog listing managed by the content team.
type Product struct {
	ID          string               `gorm:"column:id;primaryKey"`
	Title       string               `gorm:"column:title;not null"`
	Slug        string               `gorm:"column:slug;not null"`
	ImageURL    *string              `gorm:"column:image_url"`
	Description *string              `gorm:"column:description"`
	Price       decimal.NullDecimal  `gorm:"column:price;type:numeric(12,2)"`
	Gender      *enums.ProductGender `gorm:"column:gender"`
	Stock       int                  `gorm:"column:stock;not null;default:0"`
	Categories  []Category           `gorm:"many2many:product_categories;joinForeignKey:ProductID;joinReferences:CategoryID"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// PriceFloat returns the price as a float, or nil when unset.
func (p Product) PriceFloat() *float64 {
	if !p.Price.Valid {
		return nil
	}
	f := p.Price.Decimal.InexactFloat64()
	return &f
}
