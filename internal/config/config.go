// Package config provides configuration management for the Storefront CLI.
// It handles reading and writing credentials and settings to the config file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultAPIURL is the default Storefront API origin
	DefaultAPIURL = "https://api.storefront.example"

	// DefaultWebURL is the default Storefront web origin
	DefaultWebURL = "https://storefront.example"

	// ConfigDirName is the name of the config directory
	ConfigDirName = ".storefront"

	// ConfigFileName is the name of the config file
	ConfigFileName = "config.json"

	// DefaultRenewalTimeout bounds a single credential renewal call
	DefaultRenewalTimeout = 10 * time.Second

	// EnvAPIURL overrides the configured API origin
	EnvAPIURL = "STOREFRONT_API_URL"

	// EnvCredentialMode overrides the configured credential transport mode
	EnvCredentialMode = "STOREFRONT_CREDENTIAL_MODE"
)

// CredentialMode selects how the access credential travels to the backend.
type CredentialMode string

const (
	// CredentialModeCookie relies on server-set cookies kept in a cookie jar
	CredentialModeCookie CredentialMode = "cookie"

	// CredentialModeHeader sends the access token as a bearer Authorization header
	CredentialModeHeader CredentialMode = "header"
)

// ParseCredentialMode validates a credential mode string.
// An empty string yields the cookie mode.
func ParseCredentialMode(s string) (CredentialMode, error) {
	switch CredentialMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", CredentialModeCookie:
		return CredentialModeCookie, nil
	case CredentialModeHeader:
		return CredentialModeHeader, nil
	default:
		return "", fmt.Errorf("unknown credential mode %q (want %q or %q)", s, CredentialModeCookie, CredentialModeHeader)
	}
}

// Cookie is a persisted cookie for the API origin
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Path  string `json:"path,omitempty"`
}

// User is the signed-in identity as last reported by the backend
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Role        string `json:"role,omitempty"`
}

// Config represents the CLI configuration stored on disk
type Config struct {
	// APIURL is the base URL of the Storefront API
	APIURL string `json:"api_url,omitempty"`

	// WebURL is the storefront web origin used for browser redirects
	WebURL string `json:"web_url,omitempty"`

	// CredentialMode is either "cookie" or "header"
	CredentialMode CredentialMode `json:"credential_mode,omitempty"`

	// AccessToken is the short-lived access token (header mode)
	AccessToken string `json:"access_token,omitempty"`

	// RefreshToken is the long-lived refresh token (header mode)
	RefreshToken string `json:"refresh_token,omitempty"`

	// Cookies holds the API origin's cookies between runs (cookie mode)
	Cookies []Cookie `json:"cookies,omitempty"`

	// User is the current session identity
	User *User `json:"user,omitempty"`

	// RenewalTimeoutSeconds bounds a credential renewal call
	RenewalTimeoutSeconds int `json:"renewal_timeout,omitempty"`
}

// RenewalTimeout returns the configured renewal timeout or the default
func (c *Config) RenewalTimeout() time.Duration {
	if c.RenewalTimeoutSeconds <= 0 {
		return DefaultRenewalTimeout
	}
	return time.Duration(c.RenewalTimeoutSeconds) * time.Second
}

// HasCredentials reports whether any credential material is stored
func (c *Config) HasCredentials() bool {
	return c.AccessToken != "" || c.RefreshToken != "" || len(c.Cookies) > 0
}

// Manager handles configuration file operations.
// It is safe for concurrent use.
type Manager struct {
	mu         sync.Mutex
	configPath string
	getenv     func(string) string
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(homeDir, ConfigDirName, ConfigFileName)
	return &Manager{configPath: configPath, getenv: os.Getenv}, nil
}

// NewManagerWithPath creates a new configuration manager with a custom path
// This is useful for testing
func NewManagerWithPath(configPath string) *Manager {
	return &Manager{configPath: configPath, getenv: os.Getenv}
}

// SetEnvLookup replaces the environment lookup (for testing)
func (m *Manager) SetEnvLookup(getenv func(string) string) {
	m.getenv = getenv
}

// Load reads the configuration from disk and applies environment overrides.
// Returns a default config if the file doesn't exist
func (m *Manager) Load() (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	config, err := m.load()
	if err != nil {
		return nil, err
	}

	if v := m.getenv(EnvAPIURL); v != "" {
		config.APIURL = v
	}
	if v := m.getenv(EnvCredentialMode); v != "" {
		mode, err := ParseCredentialMode(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvCredentialMode, err)
		}
		config.CredentialMode = mode
	}

	return config, nil
}

func (m *Manager) load() (*Config, error) {
	config := &Config{}

	data, err := os.ReadFile(m.configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", m.configPath, err)
		}
	}

	if config.APIURL == "" {
		config.APIURL = DefaultAPIURL
	}
	if config.WebURL == "" {
		config.WebURL = DefaultWebURL
	}
	if config.CredentialMode == "" {
		config.CredentialMode = CredentialModeCookie
	}

	return config, nil
}

// Save writes the configuration to disk
func (m *Manager) Save(config *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save(config)
}

func (m *Manager) save(config *Config) error {
	// Ensure the config directory exists
	configDir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	// Write with restricted permissions (owner read/write only)
	return os.WriteFile(m.configPath, data, 0600)
}

// Update loads the on-disk config, applies fn and saves the result atomically
// with respect to other Manager calls. Environment overrides are not persisted.
func (m *Manager) Update(fn func(*Config)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	config, err := m.load()
	if err != nil {
		return err
	}
	fn(config)
	return m.save(config)
}

// Clear removes all authentication data and the session identity from the config
func (m *Manager) Clear() error {
	return m.Update(func(config *Config) {
		config.AccessToken = ""
		config.RefreshToken = ""
		config.Cookies = nil
		config.User = nil
	})
}

// Delete removes the config file entirely
func (m *Manager) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := os.Remove(m.configPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// SaveTokens saves header-mode tokens to the config
func (m *Manager) SaveTokens(accessToken, refreshToken string) error {
	return m.Update(func(config *Config) {
		config.AccessToken = accessToken
		if refreshToken != "" {
			config.RefreshToken = refreshToken
		}
	})
}

// SaveCookies replaces the persisted cookies for the API origin
func (m *Manager) SaveCookies(cookies []Cookie) error {
	return m.Update(func(config *Config) {
		config.Cookies = cookies
	})
}

// SaveUser stores the session identity
func (m *Manager) SaveUser(user *User) error {
	return m.Update(func(config *Config) {
		config.User = user
	})
}

// ConfigPath returns the path to the config file
func (m *Manager) ConfigPath() string {
	return m.configPath
}
