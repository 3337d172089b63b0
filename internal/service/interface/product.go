package iface

import (
	"context"

	"github.com/storefront-labs/storefront-cli/internal/api"
)

// Product represents a catalog product
type Product = api.Product

// ListProductsInput filters the product listing
type ListProductsInput struct {
	Category string
	Limit    int
}

// ProductService defines the interface for catalog operations
type ProductService interface {
	// ListProducts returns catalog products
	ListProducts(ctx context.Context, input *ListProductsInput) ([]Product, error)

	// GetProduct returns a product by ID
	GetProduct(ctx context.Context, id string) (*Product, error)

	// DeleteProduct deletes a product by ID
	DeleteProduct(ctx context.Context, id string) error
}
