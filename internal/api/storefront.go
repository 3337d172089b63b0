package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Product represents a catalog product
type Product struct {
	ID          string  `json:"id" yaml:"id"`
	SKU         string  `json:"sku" yaml:"sku"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Price       float64 `json:"price" yaml:"price"`
	Currency    string  `json:"currency" yaml:"currency"`
	Stock       int     `json:"stock" yaml:"stock"`
	Category    string  `json:"category,omitempty" yaml:"category,omitempty"`
}

// ProductListResponse represents the response from GET /api/products
type ProductListResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

// CartItem is one line of a cart
type CartItem struct {
	ProductID string  `json:"product_id" yaml:"product_id"`
	Name      string  `json:"name" yaml:"name"`
	Quantity  int     `json:"quantity" yaml:"quantity"`
	UnitPrice float64 `json:"unit_price" yaml:"unit_price"`
}

// Cart represents the signed-in user's cart
type Cart struct {
	ID       string     `json:"id" yaml:"id"`
	Items    []CartItem `json:"items" yaml:"items"`
	Subtotal float64    `json:"subtotal" yaml:"subtotal"`
	Currency string     `json:"currency" yaml:"currency"`
}

// Order represents a placed order
type Order struct {
	ID         string     `json:"id" yaml:"id"`
	CustomerID string     `json:"customer_id" yaml:"customer_id"`
	Status     string     `json:"status" yaml:"status"`
	Total      float64    `json:"total" yaml:"total"`
	Currency   string     `json:"currency" yaml:"currency"`
	Items      []CartItem `json:"items,omitempty" yaml:"items,omitempty"`
	CreatedAt  time.Time  `json:"created_at" yaml:"created_at"`
}

// OrderListResponse represents the response from GET /api/admin/orders
type OrderListResponse struct {
	Orders []Order `json:"orders"`
}

// DashboardSummary represents the admin dashboard figures
type DashboardSummary struct {
	Revenue       float64 `json:"revenue" yaml:"revenue"`
	Currency      string  `json:"currency" yaml:"currency"`
	OrdersToday   int     `json:"orders_today" yaml:"orders_today"`
	PendingOrders int     `json:"pending_orders" yaml:"pending_orders"`
	LowStock      int     `json:"low_stock" yaml:"low_stock"`
	Customers     int     `json:"customers" yaml:"customers"`
}

// ListProducts fetches a page of products
func (c *Client) ListProducts(ctx context.Context, category string, limit int) ([]Product, error) {
	req := NewRequest(http.MethodGet, "/api/products", nil)
	req.Query = url.Values{}
	if category != "" {
		req.Query.Set("category", category)
	}
	if limit > 0 {
		req.Query.Set("limit", strconv.Itoa(limit))
	}

	var resp ProductListResponse
	if err := c.decode(ctx, req, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// GetProduct fetches a product by ID
func (c *Client) GetProduct(ctx context.Context, productID string) (*Product, error) {
	var resp Product
	if err := c.Get(ctx, fmt.Sprintf("/api/products/%s", url.PathEscape(productID)), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteProduct deletes a product by ID
func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	return c.Delete(ctx, fmt.Sprintf("/api/products/%s", url.PathEscape(productID)), nil)
}

// GetCart fetches the current user's cart
func (c *Client) GetCart(ctx context.Context) (*Cart, error) {
	var resp Cart
	if err := c.Get(ctx, "/api/cart", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListOrders fetches orders, optionally filtered by status
func (c *Client) ListOrders(ctx context.Context, status string) ([]Order, error) {
	req := NewRequest(http.MethodGet, "/api/admin/orders", nil)
	if status != "" {
		req.Query = url.Values{"status": []string{status}}
	}

	var resp OrderListResponse
	if err := c.decode(ctx, req, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// GetOrder fetches an order by ID
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var resp Order
	if err := c.Get(ctx, fmt.Sprintf("/api/admin/orders/%s", url.PathEscape(orderID)), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetDashboard fetches the admin dashboard summary
func (c *Client) GetDashboard(ctx context.Context) (*DashboardSummary, error) {
	var resp DashboardSummary
	if err := c.Get(ctx, "/api/admin/dashboard", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me represents the response from GET /api/me
type Me struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// GetMe fetches the signed-in user's profile
func (c *Client) GetMe(ctx context.Context) (*Me, error) {
	var resp Me
	if err := c.Get(ctx, "/api/me", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
