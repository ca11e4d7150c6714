package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bdshop/storefront-backend/api/middleware"
	"github.com/bdshop/storefront-backend/api/responses"
	"github.com/bdshop/storefront-backend/api/validators"
	"github.com/bdshop/storefront-backend/internal/basket"
	pkgerrors "github.com/bdshop/storefront-backend/pkg/errors"
	"github.com/bdshop/storefront-backend/pkg/logger"
)

type basketResponse struct {
	Items      []basket.BasketItem `json:"items"`
	TotalPrice float64             `json:"totalPrice"`
	ItemCount  int                 `json:"itemCount"`
}

func newBasketResponse(state basket.State) basketResponse {
	store := basket.NewStore(state)
	items := store.Items()
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return basketResponse{Items: items, TotalPrice: store.TotalPrice(), ItemCount: count}
}

type addBasketItemRequest struct {
	ProductID string `json:"productId" validate:"required,notblank,max=128"`
}

type itemCountResponse struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func BasketFetch(svc basket.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, svc, logg)
		if !ok {
			return
		}
		state, err := svc.Get(r.Context(), profileID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBasketResponse(state))
	}
}

// BasketAddItem adds one unit of a catalog product, resolving its price server-side.
func BasketAddItem(svc basket.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, svc, logg)
		if !ok {
			return
		}
		var payload addBasketItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state, err := svc.AddToBasket(r.Context(), profileID, strings.TrimSpace(payload.ProductID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBasketResponse(state))
	}
}

func BasketItemCount(svc basket.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, svc, logg)
		if !ok {
			return
		}
		productID, ok := productParam(w, r, logg)
		if !ok {
			return
		}
		count, err := svc.ItemCount(r.Context(), profileID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, itemCountResponse{ProductID: productID, Quantity: count})
	}
}

// BasketDecrement lowers the line quantity by one, dropping the line at zero.
func BasketDecrement(svc basket.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, svc, logg)
		if !ok {
			return
		}
		productID, ok := productParam(w, r, logg)
		if !ok {
			return
		}
		state, err := svc.RemoveFromBasket(r.Context(), profileID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBasketResponse(state))
	}
}

func BasketRemoveItem(svc basket.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, svc, logg)
		if !ok {
			return
		}
		productID, ok := productParam(w, r, logg)
		if !ok {
			return
		}
		state, err := svc.RemoveItemCompletely(r.Context(), profileID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBasketResponse(state))
	}
}

func BasketClear(svc basket.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, svc, logg)
		if !ok {
			return
		}
		state, err := svc.ClearBasket(r.Context(), profileID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBasketResponse(state))
	}
}

func requireProfile(w http.ResponseWriter, r *http.Request, svc basket.Service, logg *logger.Logger) (string, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "basket service unavailable"))
		return "", false
	}
	profileID := middleware.ProfileIDFromContext(r.Context())
	if profileID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "basket profile missing"))
		return "", false
	}
	return profileID, true
}

func productParam(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (string, bool) {
	productID := strings.TrimSpace(chi.URLParam(r, "productId"))
	if productID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
		return "", false
	}
	return productID, true
}
