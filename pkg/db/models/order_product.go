package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderProduct references a catalog product purchased in an order.
type OrderProduct struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderID      uuid.UUID           `gorm:"column:order_id;type:uuid;not null"`
	ProductID    string              `gorm:"column:product_id;not null"`
	ProductTitle *string             `gorm:"column:product_title"`
	UnitPrice    decimal.NullDecimal `gorm:"column:unit_price;type:numeric(12,2)"`
	Quantity     int                 `gorm:"column:quantity;not null"`
}
