package checkout

import (
	"context"
	"strings"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"
	"github.com/stripe/stripe-go/v84/customer"

	pkgstripe "github.com/bdshop/storefront-backend/pkg/stripe"
)

// Gateway exposes the subset of Stripe operations the checkout flow needs.
type Gateway interface {
	CreateSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetSession(ctx context.Context, id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	// FindCustomerID returns the first Stripe customer with email, or "" when none exists.
	FindCustomerID(ctx context.Context, email string) (string, error)
}

type stripeGateway struct {
	sessions  *session.Client
	customers *customer.Client
}

// NewStripeGateway binds the checkout flow to a configured Stripe client.
func NewStripeGateway(api *pkgstripe.Client) Gateway {
	if api == nil {
		return nil
	}
	return &stripeGateway{sessions: api.Sessions(), customers: api.Customers()}
}

func (g *stripeGateway) CreateSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if params != nil {
		params.Context = ctx
	}
	return g.sessions.New(params)
}

func (g *stripeGateway) GetSession(ctx context.Context, id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if params == nil {
		params = &stripe.CheckoutSessionParams{}
	}
	params.Context = ctx
	return g.sessions.Get(id, params)
}

func (g *stripeGateway) FindCustomerID(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", nil
	}
	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Context = ctx
	params.Limit = stripe.Int64(1)
	params.Single = true

	iter := g.customers.List(params)
	if iter.Next() {
		return iter.Customer().ID, nil
	}
	return "", iter.Err()
}
