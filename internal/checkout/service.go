package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	"github.com/bdshop/storefront-backend/internal/basket"
	"github.com/bdshop/storefront-backend/internal/identity"
	"github.com/bdshop/storefront-backend/internal/orders"
	"github.com/bdshop/storefront-backend/pkg/checkout"
	"github.com/bdshop/storefront-backend/pkg/db/models"
	"github.com/bdshop/storefront-backend/pkg/enums"
	pkgerrors "github.com/bdshop/storefront-backend/pkg/errors"
	"github.com/bdshop/storefront-backend/pkg/logger"
	"github.com/bdshop/storefront-backend/pkg/metrics"
	"github.com/bdshop/storefront-backend/pkg/redis"
	pkgstripe "github.com/bdshop/storefront-backend/pkg/stripe"
	"github.com/bdshop/storefront-backend/pkg/types"
)

const (
	successMarkerScope = "checkout_success"
	successPath        = "/checkout/success?session_id={CHECKOUT_SESSION_ID}"
	cancelPath         = "/checkout/cancel"
	orderNumberPrefix  = "ORD-"

	opCreateSession = "create_session"
	opGetSession    = "get_session"
	opFindCustomer  = "find_customer"
)

// Metadata keys written on the checkout session.
const (
	MetaOrderNumber   = "orderNumber"
	MetaCustomerName  = "customerName"
	MetaCustomerEmail = "customerEmail"
	MetaUserID        = "clerkUserId"
	MetaFullName      = "fullName"
	MetaPhoneNumber   = "phoneNumber"
	MetaDistrict      = "district"
	MetaHomeAddress   = "homeAddress"
	MetaCountry       = "country"
)

type basketStore interface {
	Get(ctx context.Context, profileID string) (basket.State, error)
	Update(ctx context.Context, profileID string, fn func(*basket.Store) error) (basket.State, error)
}

type orderRecorder interface {
	Record(ctx context.Context, input orders.RecordInput) (*models.Order, bool, error)
}

// Config carries the checkout settings resolved at startup.
type Config struct {
	BaseURL    string
	Currency   string
	SuccessTTL time.Duration
}

// CreateSessionInput is the checkout form submitted by the shopper.
type CreateSessionInput struct {
	Shipping   types.ShippingAddress
	SuccessURL string
	CancelURL  string
}

// SessionResult identifies the hosted checkout page to redirect to.
type SessionResult struct {
	SessionID   string `json:"sessionId"`
	URL         string `json:"url"`
	OrderNumber string `json:"orderNumber"`
}

// SessionLineItem is one purchased line as reported by the gateway.
type SessionLineItem struct {
	Description string  `json:"description"`
	Quantity    int64   `json:"quantity"`
	AmountTotal float64 `json:"amountTotal"`
}

// SessionDetails is the shopper-facing view of a checkout session.
type SessionDetails struct {
	ID              string            `json:"id"`
	PaymentStatus   string            `json:"paymentStatus"`
	CustomerEmail   string            `json:"customerEmail,omitempty"`
	CustomerName    string            `json:"customerName,omitempty"`
	AmountTotal     float64           `json:"amountTotal"`
	AmountDiscount  float64           `json:"amountDiscount"`
	Currency        string            `json:"currency"`
	PaymentIntentID string            `json:"paymentIntentId,omitempty"`
	CustomerID      string            `json:"customerId,omitempty"`
	LineItems       []SessionLineItem `json:"lineItems"`
	Metadata        map[string]string `json:"metadata"`
}

// CompleteResult reports what the success redirect did.
type CompleteResult struct {
	Order            *basket.Order `json:"order,omitempty"`
	AlreadyProcessed bool          `json:"alreadyProcessed"`
	State            basket.State  `json:"state"`
}

// Service drives hosted checkout for a basket profile.
type Service interface {
	CreateSession(ctx context.Context, profileID string, user *identity.User, input CreateSessionInput) (*SessionResult, error)
	GetSession(ctx context.Context, user *identity.User, sessionID string) (*SessionDetails, error)
	Complete(ctx context.Context, profileID string, user *identity.User, sessionID string) (*CompleteResult, error)
}

type service struct {
	baskets basketStore
	gateway Gateway
	markers redis.IdempotencyStore
	orders  orderRecorder
	metrics *metrics.CheckoutMetrics
	logg    *logger.Logger
	cfg     Config
	now     func() time.Time
}

// NewService builds the checkout service.
func NewService(
	baskets basketStore,
	gateway Gateway,
	markers redis.IdempotencyStore,
	recorder orderRecorder,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
	cfg Config,
) (Service, error) {
	if baskets == nil {
		return nil, fmt.Errorf("basket service required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if markers == nil {
		return nil, fmt.Errorf("idempotency store required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("order recorder required")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.Currency = strings.ToLower(strings.TrimSpace(cfg.Currency))
	if cfg.Currency == "" {
		cfg.Currency = string(stripe.CurrencyUSD)
	}
	if cfg.SuccessTTL <= 0 {
		cfg.SuccessTTL = 24 * time.Hour
	}
	return &service{
		baskets: baskets,
		gateway: gateway,
		markers: markers,
		orders:  recorder,
		metrics: checkoutMetrics,
		logg:    logg,
		cfg:     cfg,
		now:     time.Now,
	}, nil
}

func (s *service) CreateSession(ctx context.Context, profileID string, user *identity.User, input CreateSessionInput) (*SessionResult, error) {
	if user == nil || user.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to check out")
	}
	state, err := s.baskets.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if len(state.Basket) == 0 {
		s.metrics.IncSessionFailed("validation")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no items provided")
	}
	if err := checkout.ValidateShipping(input.Shipping); err != nil {
		s.metrics.IncSessionFailed("validation")
		return nil, err
	}
	lines := make([]checkout.LineItemInput, 0, len(state.Basket))
	for _, item := range state.Basket {
		lines = append(lines, checkout.LineItemInput{
			ProductID: item.Product.ID,
			Title:     item.Product.Title,
			Price:     item.Product.Price,
		})
	}
	if err := checkout.ValidateLineItems(lines); err != nil {
		s.metrics.IncSessionFailed("validation")
		return nil, err
	}

	shipping := checkout.NormalizeShipping(input.Shipping)
	orderNumber := s.orderNumber()
	params := &stripe.CheckoutSessionParams{
		Mode:                stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes:  stripe.StringSlice([]string{"card"}),
		AllowPromotionCodes: stripe.Bool(true),
		LineItems:           s.lineItems(state.Basket),
		SuccessURL:          stripe.String(s.redirectURL(input.SuccessURL, successPath)),
		CancelURL:           stripe.String(s.redirectURL(input.CancelURL, cancelPath)),
	}
	for key, value := range sessionMetadata(orderNumber, user, shipping) {
		params.AddMetadata(key, value)
	}

	customerID := s.findCustomer(ctx, user.Email)
	if customerID != "" {
		params.Customer = stripe.String(customerID)
	} else {
		params.CustomerCreation = stripe.String(string(stripe.CheckoutSessionCustomerCreationAlways))
		if user.Email != "" {
			params.CustomerEmail = stripe.String(user.Email)
		}
	}

	started := s.now()
	created, err := s.gateway.CreateSession(ctx, params)
	s.metrics.ObserveGateway(opCreateSession, s.now().Sub(started))
	if err != nil {
		s.metrics.IncSessionFailed("gateway")
		return nil, pkgerrors.Wrap(pkgerrors.CodePayment, err, "failed to create checkout session")
	}
	s.metrics.IncSessionCreated()

	ctx = s.logg.WithFields(s.logg.WithProfileID(ctx, profileID), map[string]any{
		"checkout_session_id": created.ID,
		"order_number":        orderNumber,
	})
	s.logg.Info(ctx, "checkout session created")

	return &SessionResult{SessionID: created.ID, URL: created.URL, OrderNumber: orderNumber}, nil
}

func (s *service) lineItems(items []basket.BasketItem) []*stripe.CheckoutSessionLineItemParams {
	out := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Product.Title),
			Metadata: map[string]string{
				"productId": item.Product.ID,
				"slug":      item.Product.Slug,
			},
		}
		if strings.HasPrefix(item.Product.Image, "https://") {
			product.Images = stripe.StringSlice([]string{item.Product.Image})
		}
		out = append(out, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(s.cfg.Currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(UnitAmount(*item.Product.Price)),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}
	return out
}

// UnitAmount converts a display price to the smallest currency unit, rounding half away from zero.
func UnitAmount(price float64) int64 {
	return decimal.NewFromFloat(price).Shift(2).Round(0).IntPart()
}

func sessionMetadata(orderNumber string, user *identity.User, shipping types.ShippingAddress) map[string]string {
	name := user.Name
	if name == "" {
		name = shipping.FullName
	}
	return map[string]string{
		MetaOrderNumber:   orderNumber,
		MetaCustomerName:  name,
		MetaCustomerEmail: user.Email,
		MetaUserID:        user.ID,
		MetaFullName:      shipping.FullName,
		MetaPhoneNumber:   shipping.PhoneNumber,
		MetaDistrict:      shipping.District,
		MetaHomeAddress:   shipping.HomeAddress,
		MetaCountry:       shipping.Country,
	}
}

func (s *service) findCustomer(ctx context.Context, email string) string {
	if strings.TrimSpace(email) == "" {
		return ""
	}
	started := s.now()
	id, err := s.gateway.FindCustomerID(ctx, email)
	s.metrics.ObserveGateway(opFindCustomer, s.now().Sub(started))
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "reason", err.Error()), "stripe customer lookup failed; creating a new customer")
		return ""
	}
	return id
}

func (s *service) redirectURL(override, path string) string {
	if override = strings.TrimSpace(override); override != "" {
		return override
	}
	return s.cfg.BaseURL + path
}

// orderNumber is ORD- plus the last 8 digits of the millisecond clock.
func (s *service) orderNumber() string {
	ms := fmt.Sprintf("%d", s.now().UnixMilli())
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	return orderNumberPrefix + ms
}

// GetSession returns a session started by user.
func (s *service) GetSession(ctx context.Context, user *identity.User, sessionID string) (*SessionDetails, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	details, err := s.fetchSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(user, details); err != nil {
		return nil, err
	}
	return details, nil
}

// ensureOwner rejects sessions whose metadata names a different user.
// Sessions without a recorded user are accepted.
func ensureOwner(user *identity.User, details *SessionDetails) error {
	if user == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	owner := details.Metadata[MetaUserID]
	if owner != "" && owner != user.ID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "checkout session belongs to another user")
	}
	return nil
}

func (s *service) fetchSession(ctx context.Context, sessionID string) (*SessionDetails, error) {
	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("line_items")
	params.AddExpand("payment_intent")
	params.AddExpand("customer")

	started := s.now()
	sess, err := s.gateway.GetSession(ctx, sessionID, params)
	s.metrics.ObserveGateway(opGetSession, s.now().Sub(started))
	if err != nil {
		if pkgstripe.IsResourceMissing(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "invalid session id")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePayment, err, "failed to retrieve session details")
	}
	return newSessionDetails(sess), nil
}

func newSessionDetails(sess *stripe.CheckoutSession) *SessionDetails {
	details := &SessionDetails{
		ID:            sess.ID,
		PaymentStatus: string(sess.PaymentStatus),
		AmountTotal:   fromMinorUnits(sess.AmountTotal),
		Currency:      string(sess.Currency),
		LineItems:     []SessionLineItem{},
		Metadata:      map[string]string{},
	}
	for k, v := range sess.Metadata {
		details.Metadata[k] = v
	}
	if sess.CustomerDetails != nil {
		details.CustomerEmail = sess.CustomerDetails.Email
		details.CustomerName = sess.CustomerDetails.Name
	}
	if sess.TotalDetails != nil {
		details.AmountDiscount = fromMinorUnits(sess.TotalDetails.AmountDiscount)
	}
	if sess.PaymentIntent != nil {
		details.PaymentIntentID = sess.PaymentIntent.ID
	}
	if sess.Customer != nil {
		details.CustomerID = sess.Customer.ID
	}
	if sess.LineItems != nil {
		for _, li := range sess.LineItems.Data {
			if li == nil {
				continue
			}
			details.LineItems = append(details.LineItems, SessionLineItem{
				Description: li.Description,
				Quantity:    li.Quantity,
				AmountTotal: fromMinorUnits(li.AmountTotal),
			})
		}
	}
	return details
}

func fromMinorUnits(amount int64) float64 {
	return decimal.New(amount, -2).InexactFloat64()
}

// Complete records the order for a paid session exactly once per profile and
// session, then clears the basket.
func (s *service) Complete(ctx context.Context, profileID string, user *identity.User, sessionID string) (*CompleteResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := basket.ValidateProfileID(profileID); err != nil {
		return nil, err
	}
	ctx = s.logg.WithSessionID(s.logg.WithProfileID(ctx, profileID), sessionID)

	marker := s.markers.IdempotencyKey(successMarkerScope, profileID+":"+sessionID)
	first, err := s.markers.SetNX(ctx, marker, s.now().UTC().Format(time.RFC3339), s.cfg.SuccessTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve checkout completion")
	}
	if !first {
		s.logg.Info(ctx, "checkout success already processed")
		state, err := s.baskets.Get(ctx, profileID)
		if err != nil {
			return nil, err
		}
		return &CompleteResult{AlreadyProcessed: true, State: state}, nil
	}

	details, err := s.fetchSession(ctx, sessionID)
	if err != nil {
		s.releaseMarker(ctx, marker)
		return nil, err
	}
	if err := ensureOwner(user, details); err != nil {
		s.releaseMarker(ctx, marker)
		s.logg.Warn(s.logg.WithField(ctx, "session_owner", details.Metadata[MetaUserID]), "checkout completion by foreign user rejected")
		return nil, err
	}
	status, _ := enums.ParsePaymentStatus(details.PaymentStatus)
	if !status.IsSettled() {
		s.releaseMarker(ctx, marker)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout session is not paid").WithDetails(map[string]any{
			"paymentStatus": details.PaymentStatus,
		})
	}

	orderNumber := details.Metadata[MetaOrderNumber]
	if orderNumber == "" {
		orderNumber = s.orderNumber()
	}

	var (
		order *basket.Order
		added bool
	)
	state, err := s.baskets.Update(ctx, profileID, func(store *basket.Store) error {
		if items := store.Items(); len(items) > 0 {
			o := basket.Order{
				ID:          sessionID,
				OrderNumber: orderNumber,
				Items:       items,
				Total:       store.TotalPrice(),
				Status:      enums.OrderStatusProcessing,
				OrderDate:   s.now().UTC().Truncate(time.Millisecond),
				SessionID:   sessionID,
			}
			added = store.AddOrder(o)
			order = &o
		}
		store.ClearBasket()
		return nil
	})
	if err != nil {
		s.releaseMarker(ctx, marker)
		return nil, err
	}

	if order == nil {
		s.logg.Info(ctx, "checkout success with empty basket; nothing to record")
		return &CompleteResult{State: state}, nil
	}
	if !added {
		s.metrics.IncDuplicatePrevented()
		s.logg.Info(ctx, "duplicate order prevented")
	} else {
		s.logg.Info(s.logg.WithField(ctx, "order_number", orderNumber), "order added to history")
	}

	s.recordOrder(ctx, user, details, order)
	return &CompleteResult{Order: order, State: state}, nil
}

func (s *service) recordOrder(ctx context.Context, user *identity.User, details *SessionDetails, order *basket.Order) {
	input := orders.RecordInput{
		OrderNumber:     order.OrderNumber,
		SessionID:       order.SessionID,
		CustomerID:      details.CustomerID,
		PaymentIntentID: details.PaymentIntentID,
		CustomerName:    firstNonEmpty(details.CustomerName, details.Metadata[MetaCustomerName], details.Metadata[MetaFullName]),
		Email:           firstNonEmpty(details.CustomerEmail, details.Metadata[MetaCustomerEmail]),
		UserID:          details.Metadata[MetaUserID],
		Currency:        firstNonEmpty(details.Currency, s.cfg.Currency),
		Total:           decimal.NewFromFloat(order.Total),
		AmountDiscount:  decimal.NewFromFloat(details.AmountDiscount),
		PaymentStatus:   enums.PaymentStatus(details.PaymentStatus),
		Shipping:        shippingFromMetadata(details.Metadata),
		OrderDate:       order.OrderDate,
	}
	if user != nil {
		input.UserID = firstNonEmpty(input.UserID, user.ID)
		input.Email = firstNonEmpty(input.Email, user.Email)
	}
	for _, item := range order.Items {
		input.Items = append(input.Items, orders.LineInput{
			ProductID: item.Product.ID,
			Title:     item.Product.Title,
			UnitPrice: item.Product.Price,
			Quantity:  item.Quantity,
		})
	}

	_, created, err := s.orders.Record(ctx, input)
	if err != nil {
		s.logg.Error(ctx, "failed to persist order record", err)
		return
	}
	if created {
		s.metrics.IncOrderRecorded()
	}
}

func shippingFromMetadata(meta map[string]string) *types.ShippingAddress {
	address := types.ShippingAddress{
		FullName:    meta[MetaFullName],
		PhoneNumber: meta[MetaPhoneNumber],
		District:    meta[MetaDistrict],
		HomeAddress: meta[MetaHomeAddress],
		Country:     meta[MetaCountry],
	}
	if address.IsZero() {
		return nil
	}
	return &address
}

func (s *service) releaseMarker(ctx context.Context, marker string) {
	if err := s.markers.Del(ctx, marker); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "reason", err.Error()), "failed to release checkout success marker")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
