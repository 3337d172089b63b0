// Package session holds the signed-in identity of the CLI and knows how to
// end the session when the backend no longer accepts its credentials.
package session

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/pkg/browser"
	"github.com/storefront-labs/storefront-cli/internal/config"
	"github.com/storefront-labs/storefront-cli/internal/logging"
)

// LandingPath is the unauthenticated landing view on the web origin
const LandingPath = "/login"

// Persister stores or clears the identity between runs.
// *config.Manager satisfies it.
type Persister interface {
	SaveUser(user *config.User) error
	Clear() error
}

// Clearer drops in-memory credential material
type Clearer interface {
	Clear()
}

// Redirector sends the user to the landing view
type Redirector func(landingURL string) error

// Store owns the session identity. ForceLogout is idempotent and safe for
// concurrent use.
type Store struct {
	persist    Persister
	creds      Clearer
	landingURL string
	redirect   Redirector
	out        io.Writer
	logger     *slog.Logger

	mu        sync.Mutex
	user      *config.User
	loggedOut bool
}

// Option configures a Store
type Option func(*Store)

// WithRedirector replaces the default redirect, which only prints a hint
func WithRedirector(r Redirector) Option {
	return func(s *Store) {
		s.redirect = r
	}
}

// WithBrowserRedirect opens the landing view in the default browser
func WithBrowserRedirect() Option {
	return WithRedirector(browser.OpenURL)
}

// WithOutput sets where user-facing notices are written
func WithOutput(w io.Writer) Option {
	return func(s *Store) {
		s.out = w
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a session store seeded with the persisted identity
func New(cfg *config.Config, persist Persister, creds Clearer, opts ...Option) *Store {
	s := &Store{
		persist:    persist,
		creds:      creds,
		landingURL: strings.TrimRight(cfg.WebURL, "/") + LandingPath,
		out:        os.Stderr,
		logger:     logging.NewNop(),
		user:       cfg.User,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Identity returns the current identity, or nil when signed out
func (s *Store) Identity() *config.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// SetIdentity records a freshly signed-in user
func (s *Store) SetIdentity(user *config.User) error {
	s.mu.Lock()
	s.user = user
	s.loggedOut = false
	s.mu.Unlock()

	if s.persist == nil {
		return nil
	}
	return s.persist.SaveUser(user)
}

// LoggedOut reports whether ForceLogout ran since the last sign-in
func (s *Store) LoggedOut() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedOut
}

// LandingURL returns where a forced logout redirects to
func (s *Store) LandingURL() string {
	return s.landingURL
}

// ForceLogout clears the identity and credentials and redirects to the
// landing view. Calls after the first are no-ops until the next sign-in.
func (s *Store) ForceLogout() {
	s.mu.Lock()
	if s.loggedOut {
		s.mu.Unlock()
		return
	}
	s.loggedOut = true
	s.user = nil
	s.mu.Unlock()

	if s.creds != nil {
		s.creds.Clear()
	}
	if s.persist != nil {
		if err := s.persist.Clear(); err != nil {
			s.logger.Warn("failed to clear stored credentials", "error", err)
		}
	}

	fmt.Fprintf(s.out, "Session expired. Please sign in again with 'storefront login' (%s).\n", s.landingURL)

	if s.redirect != nil {
		if err := s.redirect(s.landingURL); err != nil {
			s.logger.Warn("failed to open landing page", "url", s.landingURL, "error", err)
		}
	}
}

// Logout ends the session on user request. Unlike ForceLogout it reports
// persistence errors.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.user = nil
	s.loggedOut = true
	s.mu.Unlock()

	if s.creds != nil {
		s.creds.Clear()
	}
	if s.persist == nil {
		return nil
	}
	return s.persist.Clear()
}
