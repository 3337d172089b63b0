package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/storefront-labs/storefront-cli/internal/config"
	"github.com/storefront-labs/storefront-cli/internal/logging"
)

const (
	// RefreshPath exchanges the refresh credential for a new access credential
	RefreshPath = "/auth/refresh"

	// LoginPath issues credentials for email and password
	LoginPath = "/auth/login"

	// LogoutPath revokes the server-side session
	LogoutPath = "/auth/logout"

	// DefaultTimeout bounds calls to the /auth endpoints
	DefaultTimeout = 30 * time.Second
)

// ErrNoRefreshToken is returned when a header-mode renewal has nothing to exchange
var ErrNoRefreshToken = errors.New("no refresh token stored")

// TokenResponse represents the JSON body returned by the token endpoints in header mode
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}

// Client calls the backend's /auth endpoints. It implements api.Renewer.
type Client struct {
	baseURL    string
	creds      *Credentials
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an auth client for the given API origin
func NewClient(baseURL string, creds *Credentials, logger *slog.Logger) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		creds:      creds,
		httpClient: creds.HTTPClient(DefaultTimeout),
		logger:     logger,
	}
}

// Renew exchanges the refresh credential for a new access credential.
// Cookie mode sends the refresh cookie and keeps whatever the server sets;
// header mode posts the refresh token and stores the returned tokens.
func (c *Client) Renew(ctx context.Context) error {
	var body io.Reader
	if c.creds.Mode() == config.CredentialModeHeader {
		refreshToken := c.creds.RefreshToken()
		if refreshToken == "" {
			return ErrNoRefreshToken
		}
		jsonBody, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
		if err != nil {
			return fmt.Errorf("failed to marshal refresh request: %w", err)
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+RefreshPath, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token refresh failed with status %d", resp.StatusCode)
	}

	if c.creds.Mode() != config.CredentialModeHeader {
		if err := c.creds.SyncCookies(); err != nil {
			// The jar already holds the new cookie; only the next run is affected.
			c.logger.Warn("failed to persist renewed cookies", "error", err)
		}
		return nil
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return fmt.Errorf("failed to parse token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return errors.New("token refresh returned no access token")
	}

	if err := c.creds.StoreTokens(tokenResp.AccessToken, tokenResp.RefreshToken); err != nil {
		c.logger.Warn("failed to persist renewed tokens", "error", err)
	}
	return nil
}
