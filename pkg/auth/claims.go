package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityPayload captures the data available when minting an identity token.
type IdentityPayload struct {
	UserID string
	Email  string
	Name   string
}

// IdentityClaims represents the JWT issued by the identity provider.
type IdentityClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the trimmed subject claim.
func (c *IdentityClaims) UserID() string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Subject)
}
