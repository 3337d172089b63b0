package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/storefront-labs/storefront-cli/internal/config"
)

// LoginResponse represents the response from the login endpoint
type LoginResponse struct {
	TokenResponse
	User *config.User `json:"user,omitempty"`
}

// Login exchanges email and password for credentials and stores them.
// It returns the signed-in identity, taken from the response or, failing
// that, from the access token's claims.
func (c *Client) Login(ctx context.Context, email, password string) (*config.User, error) {
	jsonBody, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+LoginPath, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("invalid email or password")
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	var loginResp LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return nil, fmt.Errorf("failed to parse login response: %w", err)
	}

	if c.creds.Mode() == config.CredentialModeHeader {
		if loginResp.AccessToken == "" {
			return nil, fmt.Errorf("login returned no access token")
		}
		if err := c.creds.StoreTokens(loginResp.AccessToken, loginResp.RefreshToken); err != nil {
			return nil, fmt.Errorf("failed to save credentials: %w", err)
		}
	} else if err := c.creds.SyncCookies(); err != nil {
		return nil, fmt.Errorf("failed to save credentials: %w", err)
	}

	user := loginResp.User
	if user == nil && loginResp.AccessToken != "" {
		if user, err = IdentityFromToken(loginResp.AccessToken); err != nil {
			c.logger.Debug("access token carries no identity", "error", err)
			user = nil
		}
	}
	if user == nil {
		user = &config.User{Email: email}
	}

	return user, nil
}

// Logout asks the backend to revoke the session. Errors are returned so the
// caller can decide whether they matter; local state is not touched.
func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+LogoutPath, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusUnauthorized {
		return fmt.Errorf("logout failed with status %d", resp.StatusCode)
	}
	return nil
}
