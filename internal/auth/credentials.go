// Package auth owns the credential material of the Storefront CLI: the
// cookie jar or bearer tokens, the transport that presents them, and the
// calls to the backend's /auth endpoints.
package auth

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/storefront-labs/storefront-cli/internal/config"
	"golang.org/x/net/publicsuffix"
)

// Persister stores credential material between runs.
// *config.Manager satisfies it.
type Persister interface {
	SaveTokens(accessToken, refreshToken string) error
	SaveCookies(cookies []config.Cookie) error
}

// Credentials holds the live credential material for one API origin.
// It is safe for concurrent use.
type Credentials struct {
	mode    config.CredentialMode
	baseURL *url.URL
	persist Persister

	mu           sync.RWMutex
	jar          *cookiejar.Jar
	accessToken  string
	refreshToken string
}

// NewCredentials builds credentials from the loaded config
func NewCredentials(cfg *config.Config, persist Persister) (*Credentials, error) {
	baseURL, err := url.Parse(cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", cfg.APIURL, err)
	}

	jar, err := newCookieJar(baseURL, cfg.Cookies)
	if err != nil {
		return nil, err
	}

	return &Credentials{
		mode:         cfg.CredentialMode,
		baseURL:      baseURL,
		persist:      persist,
		jar:          jar,
		accessToken:  cfg.AccessToken,
		refreshToken: cfg.RefreshToken,
	}, nil
}

// Mode returns the credential transport mode
func (c *Credentials) Mode() config.CredentialMode {
	return c.mode
}

// AccessToken returns the current bearer token (header mode)
func (c *Credentials) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// RefreshToken returns the current refresh token (header mode)
func (c *Credentials) RefreshToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshToken
}

// StoreTokens replaces the header-mode tokens and persists them.
// An empty refresh token keeps the previous one.
func (c *Credentials) StoreTokens(accessToken, refreshToken string) error {
	c.mu.Lock()
	c.accessToken = accessToken
	if refreshToken != "" {
		c.refreshToken = refreshToken
	}
	c.mu.Unlock()

	if c.persist == nil {
		return nil
	}
	return c.persist.SaveTokens(accessToken, refreshToken)
}

// SyncCookies persists the jar's cookies for the API origin
func (c *Credentials) SyncCookies() error {
	if c.persist == nil {
		return nil
	}
	return c.persist.SaveCookies(c.cookies())
}

// Clear drops all in-memory credential material
func (c *Credentials) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.accessToken = ""
	c.refreshToken = ""
	// cookiejar has no reset; a fresh jar forgets everything.
	if jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List}); err == nil {
		c.jar = jar
	}
}

// HTTPClient returns an *http.Client presenting these credentials.
// Cookie mode uses the jar; header mode adds a bearer Authorization header.
func (c *Credentials) HTTPClient(timeout time.Duration) *http.Client {
	client := &http.Client{
		Timeout: timeout,
		Jar:     &jarRef{creds: c},
	}
	if c.mode == config.CredentialModeHeader {
		client.Transport = &BearerTransport{Tokens: c}
	}
	return client
}

func (c *Credentials) currentJar() *cookiejar.Jar {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.jar
}

// jarRef follows Clear, which swaps the underlying jar.
type jarRef struct {
	creds *Credentials
}

func (j *jarRef) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.creds.currentJar().SetCookies(u, cookies)
}

func (j *jarRef) Cookies(u *url.URL) []*http.Cookie {
	return j.creds.currentJar().Cookies(u)
}

// Present reports whether any credential material is available
func (c *Credentials) Present() bool {
	if c.mode == config.CredentialModeHeader {
		return c.AccessToken() != "" || c.RefreshToken() != ""
	}
	return len(c.cookies()) > 0
}
