// Package iface defines service interfaces for the Storefront CLI.
// These interfaces enable dependency injection and mocking for tests.
package iface

import (
	"context"

	"github.com/storefront-labs/storefront-cli/internal/config"
)

// User is the signed-in identity
type User = config.User

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Login signs in with email and password and saves credentials
	Login(ctx context.Context, email, password string) (*User, error)

	// Logout revokes the session and clears stored credentials
	Logout(ctx context.Context) error

	// IsLoggedIn checks if credentials are stored (they may be expired)
	IsLoggedIn() bool

	// WhoAmI returns the signed-in identity
	WhoAmI(ctx context.Context) (*User, error)
}
