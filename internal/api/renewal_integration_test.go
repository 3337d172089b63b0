package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/storefront-labs/storefront-cli/internal/api"
	"github.com/storefront-labs/storefront-cli/internal/auth"
	"github.com/storefront-labs/storefront-cli/internal/config"
	"github.com/storefront-labs/storefront-cli/internal/session"
)

// storefrontBackend is a fake API. Protected routes accept only the current
// access credential; /auth/refresh rotates it.
type storefrontBackend struct {
	mode config.CredentialMode

	mu           sync.Mutex
	access       string
	refresh      string
	issued       int
	acceptFrom   int // tokens from refresh number < acceptFrom are not usable yet
	refreshCode  int // non-zero forces the refresh status
	beforeRotate func()

	refreshCalls   atomic.Int32
	protectedCalls atomic.Int32
	okCalls        atomic.Int32
}

func newStorefrontBackend(t *testing.T, mode config.CredentialMode) (*storefrontBackend, *httptest.Server) {
	t.Helper()
	b := &storefrontBackend{mode: mode, access: "access-0", refresh: "refresh-0"}

	r := chi.NewRouter()
	r.Post(auth.RefreshPath, b.handleRefresh)
	r.Route("/api", func(r chi.Router) {
		r.Use(b.requireAccess)
		r.Get("/products", func(w http.ResponseWriter, r *http.Request) {
			b.okCalls.Add(1)
			json.NewEncoder(w).Encode(api.ProductListResponse{
				Products: []api.Product{{ID: "p1", Name: "Mug", Price: 12, Currency: "EUR"}},
				Total:    1,
			})
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *storefrontBackend) presented(r *http.Request, name string) string {
	if b.mode == config.CredentialModeHeader {
		if name != "access_token" {
			return ""
		}
		const prefix = "Bearer "
		h := r.Header.Get("Authorization")
		if len(h) > len(prefix) {
			return h[len(prefix):]
		}
		return ""
	}
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func (b *storefrontBackend) requireAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.protectedCalls.Add(1)

		b.mu.Lock()
		ok := b.presented(r, "access_token") == b.access && b.issued >= b.acceptFrom
		b.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"access token expired"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *storefrontBackend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	b.refreshCalls.Add(1)

	b.mu.Lock()
	hook := b.beforeRotate
	code := b.refreshCode
	b.mu.Unlock()

	if hook != nil {
		hook()
	}
	if code != 0 {
		w.WriteHeader(code)
		return
	}

	presented := b.presented(r, "refresh_token")
	if b.mode == config.CredentialModeHeader {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		presented = body.RefreshToken
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if presented != b.refresh {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	b.issued++
	b.access = fmt.Sprintf("access-%d", b.issued)

	if b.mode == config.CredentialModeHeader {
		json.NewEncoder(w).Encode(auth.TokenResponse{AccessToken: b.access, TokenType: "Bearer", ExpiresIn: 900})
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "access_token", Value: b.access, Path: "/", HttpOnly: true})
}

type harness struct {
	backend *storefrontBackend
	client  *api.Client
	coord   *api.Coordinator
	session *session.Store
	manager *config.Manager
	metrics *api.Metrics
	notices *bytes.Buffer
}

func newHarness(t *testing.T, mode config.CredentialMode) *harness {
	t.Helper()
	backend, srv := newStorefrontBackend(t, mode)

	manager := config.NewManagerWithPath(filepath.Join(t.TempDir(), "config.json"))
	manager.SetEnvLookup(func(string) string { return "" })
	cfg := &config.Config{
		APIURL:         srv.URL,
		WebURL:         "https://shop.test",
		CredentialMode: mode,
		User:           &config.User{ID: "u1", Email: "ada@shop.test"},
	}
	if mode == config.CredentialModeHeader {
		cfg.AccessToken = "stale"
		cfg.RefreshToken = "refresh-0"
	} else {
		cfg.Cookies = []config.Cookie{
			{Name: "access_token", Value: "stale", Path: "/"},
			{Name: "refresh_token", Value: "refresh-0", Path: auth.RefreshPath},
		}
	}
	require.NoError(t, manager.Save(cfg))

	creds, err := auth.NewCredentials(cfg, manager)
	require.NoError(t, err)

	notices := &bytes.Buffer{}
	store := session.New(cfg, manager, creds, session.WithOutput(notices))
	metrics := api.NewMetrics(prometheus.NewRegistry())
	coord := api.NewCoordinator(auth.NewClient(srv.URL, creds, nil), store,
		api.WithRenewalTimeout(2*time.Second),
		api.WithCoordinatorMetrics(metrics),
	)
	client := api.NewClient(srv.URL,
		api.WithHTTPClient(creds.HTTPClient(5*time.Second)),
		api.WithCoordinator(coord),
		api.WithMetrics(metrics),
	)

	return &harness{
		backend: backend,
		client:  client,
		coord:   coord,
		session: store,
		manager: manager,
		metrics: metrics,
		notices: notices,
	}
}

// holdRefreshUntilQueued blocks the refresh handler until n callers wait on
// the in-flight renewal, so every caller sees the expired credential first.
func (h *harness) holdRefreshUntilQueued(n int) {
	h.backend.mu.Lock()
	defer h.backend.mu.Unlock()
	h.backend.beforeRotate = func() {
		deadline := time.Now().Add(2 * time.Second)
		for h.coord.Pending() < n && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
	}
}

func TestRenewal_ConcurrentCallersShareOneRefresh(t *testing.T) {
	const callers = 5

	for _, mode := range []config.CredentialMode{config.CredentialModeCookie, config.CredentialModeHeader} {
		t.Run(string(mode), func(t *testing.T) {
			h := newHarness(t, mode)
			h.holdRefreshUntilQueued(callers - 1)

			var g errgroup.Group
			for i := 0; i < callers; i++ {
				g.Go(func() error {
					products, err := h.client.ListProducts(context.Background(), "", 0)
					if err != nil {
						return err
					}
					if len(products) != 1 || products[0].ID != "p1" {
						return fmt.Errorf("unexpected products %+v", products)
					}
					return nil
				})
			}
			require.NoError(t, g.Wait())

			assert.Equal(t, int32(1), h.backend.refreshCalls.Load())
			assert.Equal(t, int32(callers), h.backend.okCalls.Load())
			assert.Equal(t, int32(2*callers), h.backend.protectedCalls.Load())
			assert.False(t, h.session.LoggedOut())
			assert.Empty(t, h.notices.String())

			assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Renewals.WithLabelValues("succeeded")))
			assert.Equal(t, float64(callers), testutil.ToFloat64(h.metrics.Requests.WithLabelValues("success")))

			// The renewed credential is persisted for the next run.
			cfg, err := h.manager.Load()
			require.NoError(t, err)
			if mode == config.CredentialModeHeader {
				assert.Equal(t, "access-1", cfg.AccessToken)
			} else {
				assert.Contains(t, cfg.Cookies, config.Cookie{Name: "access_token", Value: "access-1", Path: "/"})
			}
		})
	}
}

func TestRenewal_FailedRefreshLogsOutOnce(t *testing.T) {
	const callers = 3

	h := newHarness(t, config.CredentialModeCookie)
	h.backend.refreshCode = http.StatusForbidden
	h.holdRefreshUntilQueued(callers - 1)

	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = h.client.ListProducts(context.Background(), "", 0)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.ErrorIs(t, err, api.ErrAuthExpired)
	}
	assert.Equal(t, int32(1), h.backend.refreshCalls.Load())
	assert.Equal(t, int32(callers), h.backend.protectedCalls.Load())
	assert.True(t, h.session.LoggedOut())
	assert.Nil(t, h.session.Identity())
	assert.Equal(t, 1, bytes.Count(h.notices.Bytes(), []byte("Session expired")))

	cfg, err := h.manager.Load()
	require.NoError(t, err)
	assert.False(t, cfg.HasCredentials())
	assert.Nil(t, cfg.User)
}

func TestRenewal_ReplayStillUnauthorizedFailsWithoutSecondRefresh(t *testing.T) {
	h := newHarness(t, config.CredentialModeHeader)
	// The renewed token only becomes usable after a second renewal.
	h.backend.acceptFrom = 2

	_, err := h.client.ListProducts(context.Background(), "", 0)
	assert.ErrorIs(t, err, api.ErrAuthExpired)
	assert.Equal(t, int32(1), h.backend.refreshCalls.Load())
	assert.Equal(t, int32(2), h.backend.protectedCalls.Load())
	assert.False(t, h.session.LoggedOut())

	assert.False(t, h.coord.Renewing())
	assert.Equal(t, 0, h.coord.Pending())

	// A later request starts a fresh, independent episode.
	products, err := h.client.ListProducts(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, int32(2), h.backend.refreshCalls.Load())
}
