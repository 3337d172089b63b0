// Package di provides dependency injection for the Storefront CLI.
// It contains the service container and factory functions.
package di

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/storefront-labs/storefront-cli/internal/api"
	"github.com/storefront-labs/storefront-cli/internal/auth"
	"github.com/storefront-labs/storefront-cli/internal/config"
	"github.com/storefront-labs/storefront-cli/internal/logging"
	"github.com/storefront-labs/storefront-cli/internal/service"
	iface "github.com/storefront-labs/storefront-cli/internal/service/interface"
	"github.com/storefront-labs/storefront-cli/internal/session"
)

// Options tunes how the default container is built
type Options struct {
	// Logger defaults to a no-op logger
	Logger *slog.Logger

	// BrowserRedirect opens the landing page on forced logout
	BrowserRedirect bool

	// Output receives user-facing session notices (default stderr)
	Output io.Writer
}

// Container holds all service dependencies for the CLI.
// Services are accessed via interfaces to enable mocking in tests.
type Container struct {
	configManager *config.Manager
	config        *config.Config
	registry      *prometheus.Registry
	session       *session.Store
	client        *api.Client

	authService    iface.AuthService
	productService iface.ProductService
	cartService    iface.CartService
	adminService   iface.AdminService
}

// NewContainer creates a new dependency container with default implementations
func NewContainer(opts Options) (*Container, error) {
	configManager, err := config.NewManager()
	if err != nil {
		return nil, err
	}
	return NewContainerWithManager(configManager, opts)
}

// NewContainerWithManager wires the default implementations around a given
// config manager. Configuration is read once here and fixed afterwards.
func NewContainerWithManager(configManager *config.Manager, opts Options) (*Container, error) {
	cfg, err := configManager.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	credentials, err := auth.NewCredentials(cfg, configManager)
	if err != nil {
		return nil, err
	}

	sessionOpts := []session.Option{session.WithLogger(logger), session.WithOutput(out)}
	if opts.BrowserRedirect {
		sessionOpts = append(sessionOpts, session.WithBrowserRedirect())
	}
	store := session.New(cfg, configManager, credentials, sessionOpts...)

	registry := prometheus.NewRegistry()
	metrics := api.NewMetrics(registry)

	authClient := auth.NewClient(cfg.APIURL, credentials, logger)
	coordinator := api.NewCoordinator(authClient, store,
		api.WithRenewalTimeout(cfg.RenewalTimeout()),
		api.WithCoordinatorLogger(logger),
		api.WithCoordinatorMetrics(metrics),
	)
	client := api.NewClient(cfg.APIURL,
		api.WithHTTPClient(credentials.HTTPClient(api.DefaultTimeout)),
		api.WithCoordinator(coordinator),
		api.WithLogger(logger),
		api.WithMetrics(metrics),
	)

	return &Container{
		configManager:  configManager,
		config:         cfg,
		registry:       registry,
		session:        store,
		client:         client,
		authService:    service.NewAuthService(authClient, credentials, store, client, logger),
		productService: service.NewProductService(client, credentials),
		cartService:    service.NewCartService(client, credentials),
		adminService:   service.NewAdminService(client, credentials),
	}, nil
}

// NewContainerWithServices creates a container with custom service implementations.
// This is useful for testing with mock services.
func NewContainerWithServices(
	authService iface.AuthService,
	productService iface.ProductService,
	cartService iface.CartService,
	adminService iface.AdminService,
) *Container {
	return &Container{
		config: &config.Config{
			APIURL: config.DefaultAPIURL,
			WebURL: config.DefaultWebURL,
		},
		authService:    authService,
		productService: productService,
		cartService:    cartService,
		adminService:   adminService,
	}
}

// AuthService returns the authentication service
func (c *Container) AuthService() iface.AuthService {
	return c.authService
}

// ProductService returns the product service
func (c *Container) ProductService() iface.ProductService {
	return c.productService
}

// CartService returns the cart service
func (c *Container) CartService() iface.CartService {
	return c.cartService
}

// AdminService returns the admin service
func (c *Container) AdminService() iface.AdminService {
	return c.adminService
}

// ConfigManager returns the config manager
func (c *Container) ConfigManager() *config.Manager {
	return c.configManager
}

// Config returns the configuration the container was built from
func (c *Container) Config() *config.Config {
	return c.config
}

// Registry returns the metrics registry, or nil for mock containers
func (c *Container) Registry() *prometheus.Registry {
	return c.registry
}

// Session returns the session store, or nil for mock containers
func (c *Container) Session() *session.Store {
	return c.session
}

// Client returns the shared API client, or nil for mock containers
func (c *Container) Client() *api.Client {
	return c.client
}
