package controllers

import (
	"net/http"

	"github.com/bdshop/storefront-backend/api/responses"
	"github.com/bdshop/storefront-backend/internal/basket"
	"github.com/bdshop/storefront-backend/pkg/logger"
)

type historyResponse struct {
	Orders []basket.Order `json:"orders"`
}

type cleanupResponse struct {
	Removed int            `json:"removed"`
	Orders  []basket.Order `json:"orders"`
}

// OrderHistory returns the profile's local order history, newest first.
func OrderHistory(svc basket.Service, logg *logger.Logger) http.HandlerFunc {
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
		responses.WriteSuccess(w, historyResponse{Orders: nonNilOrders(state.Orders)})
	}
}

func OrderHistoryCleanup(svc basket.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, svc, logg)
		if !ok {
			return
		}
		removed, state, err := svc.CleanupDuplicateOrders(r.Context(), profileID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cleanupResponse{Removed: removed, Orders: nonNilOrders(state.Orders)})
	}
}

func OrderHistoryClear(svc basket.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, svc, logg)
		if !ok {
			return
		}
		state, err := svc.ClearAllOrders(r.Context(), profileID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, historyResponse{Orders: nonNilOrders(state.Orders)})
	}
}

func nonNilOrders(orders []basket.Order) []basket.Order {
	if orders == nil {
		return []basket.Order{}
	}
	return orders
}
