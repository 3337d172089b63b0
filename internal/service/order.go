package service

import (
	"context"
	"fmt"

	"github.com/storefront-labs/storefront-cli/internal/api"
	"github.com/storefront-labs/storefront-cli/internal/auth"
	iface "github.com/storefront-labs/storefront-cli/internal/service/interface"
)

// cartService implements iface.CartService
type cartService struct {
	client      *api.Client
	credentials *auth.Credentials
}

// NewCartService creates a new cart service
func NewCartService(client *api.Client, credentials *auth.Credentials) iface.CartService {
	return &cartService{
		client:      client,
		credentials: credentials,
	}
}

// GetCart returns the signed-in user's cart
func (s *cartService) GetCart(ctx context.Context) (*iface.Cart, error) {
	if !s.credentials.Present() {
		return nil, ErrNotLoggedIn
	}

	cart, err := s.client.GetCart(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}

	return cart, nil
}

// adminService implements iface.AdminService
type adminService struct {
	client      *api.Client
	credentials *auth.Credentials
}

// NewAdminService creates a new admin service
func NewAdminService(client *api.Client, credentials *auth.Credentials) iface.AdminService {
	return &adminService{
		client:      client,
		credentials: credentials,
	}
}

// ListOrders returns orders, optionally filtered by status
func (s *adminService) ListOrders(ctx context.Context, status string) ([]iface.Order, error) {
	if !s.credentials.Present() {
		return nil, ErrNotLoggedIn
	}

	orders, err := s.client.ListOrders(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, nil
}

// GetOrder returns an order by ID
func (s *adminService) GetOrder(ctx context.Context, id string) (*iface.Order, error) {
	if !s.credentials.Present() {
		return nil, ErrNotLoggedIn
	}

	order, err := s.client.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}

	return order, nil
}

// GetDashboard returns the dashboard summary
func (s *adminService) GetDashboard(ctx context.Context) (*iface.DashboardSummary, error) {
	if !s.credentials.Present() {
		return nil, ErrNotLoggedIn
	}

	summary, err := s.client.GetDashboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dashboard: %w", err)
	}

	return summary, nil
}
