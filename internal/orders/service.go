package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bdshop/storefront-backend/pkg/db/models"
	"github.com/bdshop/storefront-backend/pkg/enums"
	pkgerrors "github.com/bdshop/storefront-backend/pkg/errors"
	"github.com/bdshop/storefront-backend/pkg/types"
)

const defaultCurrency = "usd"

type repository interface {
	Save(ctx context.Context, order *models.Order) (*models.Order, bool, error)
	List(ctx context.Context, limit int) ([]models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LineInput is one purchased product.
type LineInput struct {
	ProductID string
	Title     string
	UnitPrice *float64
	Quantity  int
}

// RecordInput describes a completed checkout to persist.
type RecordInput struct {
	OrderNumber     string
	SessionID       string
	CustomerID      string
	PaymentIntentID string
	UserID          string
	CustomerName    string
	Email           string
	Currency        string
	Total           decimal.Decimal
	AmountDiscount  decimal.Decimal
	PaymentStatus   enums.PaymentStatus
	Shipping        *types.ShippingAddress
	OrderDate       time.Time
	Items           []LineInput
}

// Service manages persisted order records.
type Service interface {
	Record(ctx context.Context, input RecordInput) (*models.Order, bool, error)
	List(ctx context.Context, limit int) ([]OrderDTO, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo repository
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

// Record stores the order once per checkout session. The bool reports whether
// a new record was created.
func (s *service) Record(ctx context.Context, input RecordInput) (*models.Order, bool, error) {
	if strings.TrimSpace(input.SessionID) == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if strings.TrimSpace(input.OrderNumber) == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}

	order := buildOrder(input)
	saved, created, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, false, passThrough(err, "save order")
	}
	return saved, created, nil
}

func buildOrder(input RecordInput) *models.Order {
	currency := strings.ToLower(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	status := enums.OrderRecordStatusPending
	if input.PaymentStatus.IsSettled() {
		status = enums.OrderRecordStatusPaid
	}
	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now().UTC()
	}

	order := &models.Order{
		OrderNumber:           input.OrderNumber,
		StripeSessionID:       strings.TrimSpace(input.SessionID),
		StripeCustomerID:      optional(input.CustomerID),
		StripePaymentIntentID: optional(input.PaymentIntentID),
		ClerkUserID:           optional(input.UserID),
		CustomerName:          optional(input.CustomerName),
		Email:                 optional(input.Email),
		Total:                 input.Total,
		TotalPrice:            decimal.NewNullDecimal(input.Total),
		Currency:              currency,
		AmountDiscount:        input.AmountDiscount,
		Status:                status,
		DeliveryStatus:        enums.DeliveryStatusConfirmed,
		OrderDate:             orderDate,
	}
	if input.Shipping != nil && !input.Shipping.IsZero() {
		order.ShippingAddress = input.Shipping
	}
	for _, item := range input.Items {
		if item.ProductID == "" || item.Quantity < 1 {
			continue
		}
		line := models.OrderProduct{
			ProductID:    item.ProductID,
			ProductTitle: optional(item.Title),
			Quantity:     item.Quantity,
		}
		if item.UnitPrice != nil {
			line.UnitPrice = decimal.NewNullDecimal(decimal.NewFromFloat(*item.UnitPrice))
		}
		order.Products = append(order.Products, line)
	}
	return order
}

func (s *service) List(ctx context.Context, limit int) ([]OrderDTO, error) {
	if limit < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "limit must be positive")
	}
	orders, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	out := make([]OrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderDTO(o))
	}
	return out, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.Order, error) {
	orders, err := s.repo.List(ctx, 0)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	orderID, err := uuid.Parse(id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	if err := s.repo.Delete(ctx, orderID); err != nil {
		return passThrough(err, "delete order")
	}
	return nil
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func passThrough(err error, msg string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
