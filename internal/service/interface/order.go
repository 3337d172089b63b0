package iface

import (
	"context"

	"github.com/storefront-labs/storefront-cli/internal/api"
)

// Cart represents the signed-in user's cart
type Cart = api.Cart

// CartItem is one line of a cart or order
type CartItem = api.CartItem

// Order represents a placed order
type Order = api.Order

// DashboardSummary represents the admin dashboard figures
type DashboardSummary = api.DashboardSummary

// CartService defines the interface for cart operations
type CartService interface {
	// GetCart returns the signed-in user's cart
	GetCart(ctx context.Context) (*Cart, error)
}

// AdminService defines the interface for admin operations
type AdminService interface {
	// ListOrders returns orders, optionally filtered by status
	ListOrders(ctx context.Context, status string) ([]Order, error)

	// GetOrder returns an order by ID
	GetOrder(ctx context.Context, id string) (*Order, error)

	// GetDashboard returns the dashboard summary
	GetDashboard(ctx context.Context) (*DashboardSummary, error)
}
