package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bdshop/storefront-backend/api/middleware"
	"github.com/bdshop/storefront-backend/api/responses"
	"github.com/bdshop/storefront-backend/api/validators"
	"github.com/bdshop/storefront-backend/internal/checkout"
	"github.com/bdshop/storefront-backend/internal/identity"
	pkgerrors "github.com/bdshop/storefront-backend/pkg/errors"
	"github.com/bdshop/storefront-backend/pkg/logger"
	"github.com/bdshop/storefront-backend/pkg/types"
)

type createSessionRequest struct {
	Shipping   shippingPayload `json:"shipping"`
	SuccessURL string          `json:"successUrl,omitempty" validate:"omitempty,url"`
	CancelURL  string          `json:"cancelUrl,omitempty" validate:"omitempty,url"`
}

// Field rules live in the checkout service so every caller gets the same
// per-field messages.
type shippingPayload struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	District    string `json:"district"`
	HomeAddress string `json:"homeAddress"`
}

type completeCheckoutRequest struct {
	SessionID string `json:"sessionId" validate:"required,notblank,max=255"`
}

func (p shippingPayload) toAddress() types.ShippingAddress {
	return types.ShippingAddress{
		FullName:    p.FullName,
		PhoneNumber: p.PhoneNumber,
		District:    p.District,
		HomeAddress: p.HomeAddress,
	}
}

// CheckoutCreateSession starts a hosted checkout for the profile's basket.
func CheckoutCreateSession(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, user, ok := checkoutContext(w, r, svc, logg)
		if !ok {
			return
		}
		var payload createSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.CreateSession(r.Context(), profileID, user, checkout.CreateSessionInput{
			Shipping:   payload.Shipping.toAddress(),
			SuccessURL: payload.SuccessURL,
			CancelURL:  payload.CancelURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// CheckoutGetSession returns a session started by the signed-in user.
func CheckoutGetSession(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}
		sessionID := strings.TrimSpace(chi.URLParam(r, "sessionId"))
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session id is required"))
			return
		}
		details, err := svc.GetSession(r.Context(), user, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, details)
	}
}

// CheckoutComplete handles the success redirect: it moves the paid basket
// into the order history exactly once per session.
func CheckoutComplete(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, user, ok := checkoutContext(w, r, svc, logg)
		if !ok {
			return
		}
		var payload completeCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithSessionID(r.Context(), payload.SessionID)
		result, err := svc.Complete(ctx, profileID, user, strings.TrimSpace(payload.SessionID))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CheckoutCancel acknowledges an abandoned checkout; the basket is kept as is.
func CheckoutCancel(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logg.Info(r.Context(), "checkout.cancelled")
		responses.WriteSuccess(w, map[string]string{"status": "cancelled"})
	}
}

func checkoutContext(w http.ResponseWriter, r *http.Request, svc checkout.Service, logg *logger.Logger) (string, *identity.User, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
		return "", nil, false
	}
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
		return "", nil, false
	}
	profileID := middleware.ProfileIDFromContext(r.Context())
	if profileID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "basket profile missing"))
		return "", nil, false
	}
	return profileID, user, true
}
