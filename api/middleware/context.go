package middleware

import (
	"context"

	"github.com/bdshop/storefront-backend/internal/identity"
)

type contextKey string

const (
	ctxUser      contextKey = "user"
	ctxProfileID contextKey = "profile_id"
)

// UserFromContext returns the signed-in user, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *identity.User {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxUser).(*identity.User); ok {
		return v
	}
	return nil
}

func UserIDFromContext(ctx context.Context) string {
	if user := UserFromContext(ctx); user != nil {
		return user.ID
	}
	return ""
}

// ProfileIDFromContext returns the basket profile resolved by Profile.
func ProfileIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxProfileID).(string); ok {
		return v
	}
	return ""
}

// WithUser injects the signed-in user into the context.
func WithUser(ctx context.Context, user *identity.User) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUser, user)
}

// WithProfileID injects the basket profile identifier into the context.
func WithProfileID(ctx context.Context, profileID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxProfileID, profileID)
}
