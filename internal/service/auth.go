package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/storefront-labs/storefront-cli/internal/api"
	"github.com/storefront-labs/storefront-cli/internal/auth"
	"github.com/storefront-labs/storefront-cli/internal/session"
	iface "github.com/storefront-labs/storefront-cli/internal/service/interface"
)

// ErrNotLoggedIn is returned when no credentials are stored at all
var ErrNotLoggedIn = errors.New("not logged in. Please run 'storefront login' first")

// authService implements iface.AuthService
type authService struct {
	authClient  *auth.Client
	credentials *auth.Credentials
	session     *session.Store
	client      *api.Client
	logger      *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(authClient *auth.Client, credentials *auth.Credentials, store *session.Store, client *api.Client, logger *slog.Logger) iface.AuthService {
	return &authService{
		authClient:  authClient,
		credentials: credentials,
		session:     store,
		client:      client,
		logger:      logger,
	}
}

// Login signs in with email and password and saves credentials
func (s *authService) Login(ctx context.Context, email, password string) (*iface.User, error) {
	if s.IsLoggedIn() {
		return nil, fmt.Errorf("already logged in. Use 'storefront logout' first to log out")
	}

	user, err := s.authClient.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	if err := s.session.SetIdentity(user); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return user, nil
}

// Logout revokes the session and clears stored credentials
func (s *authService) Logout(ctx context.Context) error {
	if !s.IsLoggedIn() {
		return fmt.Errorf("not logged in")
	}

	// Local state is cleared even when the backend can't be reached.
	if err := s.authClient.Logout(ctx); err != nil {
		s.logger.Warn("server-side logout failed", "error", err)
	}

	if err := s.session.Logout(); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}

	return nil
}

// IsLoggedIn checks if credentials are stored
// Note: This only checks if credentials exist, not if they're valid
func (s *authService) IsLoggedIn() bool {
	return s.credentials.Present()
}

// WhoAmI asks the backend for the signed-in identity and records it
func (s *authService) WhoAmI(ctx context.Context) (*iface.User, error) {
	if !s.IsLoggedIn() {
		return nil, ErrNotLoggedIn
	}

	me, err := s.client.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	user := &iface.User{
		ID:          me.ID,
		Email:       me.Email,
		DisplayName: me.DisplayName,
		Role:        me.Role,
	}
	if err := s.session.SetIdentity(user); err != nil {
		s.logger.Warn("failed to save identity", "error", err)
	}

	return user, nil
}
