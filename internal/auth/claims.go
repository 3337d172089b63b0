package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/storefront-labs/storefront-cli/internal/config"
)

// Claims are the identity claims the backend puts in its access tokens
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

// IdentityFromToken reads the identity claims of an access token.
// The signature is not verified: the CLI only displays these values, the
// backend remains the authority.
func IdentityFromToken(token string) (*config.User, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("access token has no subject")
	}

	return &config.User{
		ID:          claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		Role:        claims.Role,
	}, nil
}
