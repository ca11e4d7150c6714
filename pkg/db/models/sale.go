package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a promotional campaign redeemable with a coupon code.
type Sale struct {
	ID             string          `gorm:"column:id;primaryKey"`
	Title          string          `gorm:"column:title;not null"`
	Description    *string         `gorm:"column:description"`
	Badge          *string         `gorm:"column:badge"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:numeric(5,2);not null;default:0"`
	CouponCode     string          `gorm:"column:coupon_code;not null"`
	ValidFrom      *time.Time      `gorm:"column:valid_from"`
	ValidUntil     *time.Time      `gorm:"column:valid_until"`
	IsActive       bool            `gorm:"column:is_active;not null;default:false"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}
