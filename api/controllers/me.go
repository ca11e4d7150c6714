package controllers

import (
	"net/http"

	"github.com/bdshop/storefront-backend/api/middleware"
	"github.com/bdshop/storefront-backend/api/responses"
	"github.com/bdshop/storefront-backend/internal/identity"
	pkgerrors "github.com/bdshop/storefront-backend/pkg/errors"
	"github.com/bdshop/storefront-backend/pkg/logger"
)

type meResponse struct {
	User    *identity.User `json:"user"`
	IsAdmin bool           `json:"isAdmin"`
}

func Me(policy identity.AdminPolicy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}
		responses.WriteSuccess(w, meResponse{User: user, IsAdmin: policy.IsAdmin(user)})
	}
}
