package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bdshop/storefront-backend/pkg/enums"
	"github.com/bdshop/storefront-backend/pkg/types"
)

// Order is the persisted record of a completed hosted checkout.
type Order struct {
	ID                    uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber           string                  `gorm:"column:order_number;not null"`
	StripeSessionID       string                  `gorm:"column:stripe_session_id;not null"`
	StripeCustomerID      *string                 `gorm:"column:stripe_customer_id"`
	StripePaymentIntentID *string                 `gorm:"column:stripe_payment_intent_id"`
	ClerkUserID           *string                 `gorm:"column:clerk_user_id"`
	CustomerName          *string                 `gorm:"column:customer_name"`
	Email                 *string                 `gorm:"column:email"`
	Total                 decimal.Decimal         `gorm:"column:total;type:numeric(12,2);not null;default:0"`
	TotalPrice            decimal.NullDecimal     `gorm:"column:total_price;type:numeric(12,2)"`
	Currency              string                  `gorm:"column:currency;not null;default:'usd'"`
	AmountDiscount        decimal.Decimal         `gorm:"column:amount_discount;type:numeric(12,2);not null;default:0"`
	Status                enums.OrderRecordStatus `gorm:"column:status;not null;default:'pending'"`
	DeliveryStatus        enums.DeliveryStatus    `gorm:"column:delivery_status;not null;default:'confirmed'"`
	DeliveryNotes         *string                 `gorm:"column:delivery_notes"`
	ShippingAddress       *types.ShippingAddress  `gorm:"column:shipping_address;type:jsonb"`
	OrderDate             time.Time               `gorm:"column:order_date;not null"`
	Products              []OrderProduct          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// Revenue returns total_price when recorded and non-zero, else total.
func (o Order) Revenue() decimal.Decimal {
	if o.TotalPrice.Valid && !o.TotalPrice.Decimal.IsZero() {
		return o.TotalPrice.Decimal
	}
	return o.Total
}
