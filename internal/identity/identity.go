package identity

import (
	"strings"

	"github.com/bdshop/storefront-backend/pkg/auth"
)

// User is the signed-in shopper resolved from an identity token.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// FromClaims maps verified token claims onto a User.
func FromClaims(claims *auth.IdentityClaims) *User {
	if claims == nil {
		return nil
	}
	return &User{
		ID:    claims.UserID(),
		Email: strings.TrimSpace(claims.Email),
		Name:  strings.TrimSpace(claims.Name),
	}
}

// AdminPolicy decides admin access from a fixed email allowlist.
type AdminPolicy struct {
	emails map[string]struct{}
}

// NewAdminPolicy normalizes the allowlist; blank entries are ignored.
func NewAdminPolicy(emails []string) AdminPolicy {
	set := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		email = normalizeEmail(email)
		if email == "" {
			continue
		}
		set[email] = struct{}{}
	}
	return AdminPolicy{emails: set}
}

// IsAdmin reports whether the user's primary email is on the allowlist.
func (p AdminPolicy) IsAdmin(user *User) bool {
	if user == nil {
		return false
	}
	email := normalizeEmail(user.Email)
	if email == "" {
		return false
	}
	_, ok := p.emails[email]
	return ok
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
