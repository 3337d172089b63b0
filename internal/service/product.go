package service

import (
	"context"
	"fmt"

	"github.com/storefront-labs/storefront-cli/internal/api"
	"github.com/storefront-labs/storefront-cli/internal/auth"
	iface "github.com/storefront-labs/storefront-cli/internal/service/interface"
)

// productService implements iface.ProductService
type productService struct {
	client      *api.Client
	credentials *auth.Credentials
}

// NewProductService creates a new product service
func NewProductService(client *api.Client, credentials *auth.Credentials) iface.ProductService {
	return &productService{
		client:      client,
		credentials: credentials,
	}
}

// ListProducts returns catalog products
func (s *productService) ListProducts(ctx context.Context, input *iface.ListProductsInput) ([]iface.Product, error) {
	if !s.credentials.Present() {
		return nil, ErrNotLoggedIn
	}
	if input == nil {
		input = &iface.ListProductsInput{}
	}

	products, err := s.client.ListProducts(ctx, input.Category, input.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, nil
}

// GetProduct returns a product by ID
func (s *productService) GetProduct(ctx context.Context, id string) (*iface.Product, error) {
	if !s.credentials.Present() {
		return nil, ErrNotLoggedIn
	}

	product, err := s.client.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}

	return product, nil
}

// DeleteProduct deletes a product by ID
func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	if !s.credentials.Present() {
		return ErrNotLoggedIn
	}

	if err := s.client.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}
