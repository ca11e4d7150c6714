package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/bdshop/storefront-backend/api/responses"
	"github.com/bdshop/storefront-backend/internal/basket"
	"github.com/bdshop/storefront-backend/pkg/logger"
)

// ProfileHeader carries the browser profile that owns a basket.
const ProfileHeader = "X-Basket-Profile"

// Profile resolves the basket profile from ProfileHeader, issuing a new one
// when the header is absent. The resolved id is echoed in the response header.
func Profile(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profileID := strings.TrimSpace(r.Header.Get(ProfileHeader))
			if profileID == "" {
				profileID = uuid.NewString()
			}
			if err := basket.ValidateProfileID(profileID); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			w.Header().Set(ProfileHeader, profileID)

			ctx := WithProfileID(r.Context(), profileID)
			ctx = logg.WithProfileID(ctx, profileID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
