package orders

import (
	"time"

	"github.com/bdshop/storefront-backend/pkg/db/models"
	"github.com/bdshop/storefront-backend/pkg/types"
)

// OrderDTO is the admin view of an order record.
type OrderDTO struct {
	ID                    string                 `json:"id"`
	OrderNumber           string                 `json:"orderNumber"`
	StripeSessionID       string                 `json:"stripeCheckoutSessionId"`
	StripeCustomerID      *string                `json:"stripeCustomerId,omitempty"`
	StripePaymentIntentID *string                `json:"stripePaymentIntentId,omitempty"`
	UserID                *string                `json:"clerkUserId,omitempty"`
	CustomerName          *string                `json:"customerName,omitempty"`
	Email                 *string                `json:"email,omitempty"`
	Total                 float64                `json:"total"`
	TotalPrice            *float64               `json:"totalPrice,omitempty"`
	Currency              string                 `json:"currency"`
	AmountDiscount        float64                `json:"amountDiscount"`
	Status                string                 `json:"status"`
	DeliveryStatus        string                 `json:"deliveryStatus"`
	DeliveryNotes         *string                `json:"deliveryNotes,omitempty"`
	ShippingAddress       *types.ShippingAddress `json:"shippingAddress,omitempty"`
	OrderDate             time.Time              `json:"orderDate"`
	Products              []OrderProductDTO      `json:"products"`
}

type OrderProductDTO struct {
	ProductID string   `json:"productId"`
	Title     *string  `json:"title,omitempty"`
	UnitPrice *float64 `json:"unitPrice,omitempty"`
	Quantity  int      `json:"quantity"`
}

// NewOrderDTO maps a persisted order.
func NewOrderDTO(o models.Order) OrderDTO {
	dto := OrderDTO{
		ID:                    o.ID.String(),
		OrderNumber:           o.OrderNumber,
		StripeSessionID:       o.StripeSessionID,
		StripeCustomerID:      o.StripeCustomerID,
		StripePaymentIntentID: o.StripePaymentIntentID,
		UserID:                o.ClerkUserID,
		CustomerName:          o.CustomerName,
		Email:                 o.Email,
		Total:                 o.Total.InexactFloat64(),
		Currency:              o.Currency,
		AmountDiscount:        o.AmountDiscount.InexactFloat64(),
		Status:                o.Status.String(),
		DeliveryStatus:        o.DeliveryStatus.String(),
		DeliveryNotes:         o.DeliveryNotes,
		ShippingAddress:       o.ShippingAddress,
		OrderDate:             o.OrderDate,
		Products:              make([]OrderProductDTO, 0, len(o.Products)),
	}
	if o.TotalPrice.Valid {
		v := o.TotalPrice.Decimal.InexactFloat64()
		dto.TotalPrice = &v
	}
	for _, p := range o.Products {
		item := OrderProductDTO{
			ProductID: p.ProductID,
			Title:     p.ProductTitle,
			Quantity:  p.Quantity,
		}
		if p.UnitPrice.Valid {
			v := p.UnitPrice.Decimal.InexactFloat64()
			item.UnitPrice = &v
		}
		dto.Products = append(dto.Products, item)
	}
	return dto
}
