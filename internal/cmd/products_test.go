package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	iface "github.com/storefront-labs/storefront-cli/internal/service/interface"
	"gopkg.in/yaml.v3"
)

var testProducts = []iface.Product{
	{ID: "prod-1", SKU: "MUG-01", Name: "Coffee Mug", Price: 12.5, Currency: "EUR", Stock: 40},
	{ID: "prod-2", SKU: "TEE-02", Name: "T-Shirt", Price: 20, Currency: "EUR", Stock: 3, Category: "apparel"},
}

func TestProductsListCommand_Run(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		mockProducts []iface.Product
		mockError    error
		wantInput    iface.ListProductsInput
		wantOutput   []string
		wantErr      bool
		wantErrMsg   string
	}{
		{
			name:         "lists products as a table",
			args:         []string{"products", "list"},
			mockProducts: testProducts,
			wantOutput:   []string{"ID", "SKU", "prod-1", "Coffee Mug", "12.50 EUR", "TEE-02", "20.00 EUR"},
		},
		{
			name:         "passes category and limit",
			args:         []string{"products", "list", "--category", "apparel", "--limit", "5"},
			mockProducts: testProducts[1:],
			wantInput:    iface.ListProductsInput{Category: "apparel", Limit: 5},
			wantOutput:   []string{"T-Shirt"},
		},
		{
			name:       "shows empty message when no products",
			args:       []string{"products", "list"},
			wantOutput: []string{"No products found."},
		},
		{
			name:       "returns service error",
			args:       []string{"products", "list"},
			mockError:  errors.New("failed to fetch products: boom"),
			wantErr:    true,
			wantErrMsg: "boom",
		},
		{
			name:       "rejects unknown output format",
			args:       []string{"products", "list", "-o", "xml"},
			wantErr:    true,
			wantErrMsg: "unknown output format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMocks()
			var gotInput iface.ListProductsInput
			m.product.ListProductsFunc = func(ctx context.Context, input *iface.ListProductsInput) ([]iface.Product, error) {
				gotInput = *input
				return tt.mockProducts, tt.mockError
			}

			output, err := m.run(tt.args...)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !strings.Contains(err.Error(), tt.wantErrMsg) {
					t.Errorf("Error should contain %q, got: %v", tt.wantErrMsg, err)
				}
				return
			}

			if gotInput != tt.wantInput {
				t.Errorf("ListProducts input = %+v, want %+v", gotInput, tt.wantInput)
			}
			for _, want := range tt.wantOutput {
				if !strings.Contains(output, want) {
					t.Errorf("Output should contain %q, got: %s", want, output)
				}
			}
		})
	}
}

func TestProductsListCommand_StructuredOutput(t *testing.T) {
	m := newMocks()
	m.product.ListProductsFunc = func(ctx context.Context, input *iface.ListProductsInput) ([]iface.Product, error) {
		return testProducts, nil
	}

	t.Run("json", func(t *testing.T) {
		output, err := m.run("products", "list", "-o", "json")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		var got []iface.Product
		if err := json.Unmarshal([]byte(output), &got); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, output)
		}
		if len(got) != 2 || got[1].Category != "apparel" {
			t.Errorf("unexpected products: %+v", got)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		output, err := m.run("products", "list", "--output", "yaml")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		var got []iface.Product
		if err := yaml.Unmarshal([]byte(output), &got); err != nil {
			t.Fatalf("output is not YAML: %v\n%s", err, output)
		}
		if len(got) != 2 || got[0].SKU != "MUG-01" {
			t.Errorf("unexpected products: %+v", got)
		}
		if !strings.Contains(output, "  sku: MUG-01") {
			t.Errorf("expected two-space indented YAML, got:\n%s", output)
		}
	})
}

func TestProductsGetCommand_Run(t *testing.T) {
	m := newMocks()
	var gotID string
	m.product.GetProductFunc = func(ctx context.Context, id string) (*iface.Product, error) {
		gotID = id
		p := testProducts[1]
		p.Description = "Organic cotton"
		return &p, nil
	}

	output, err := m.run("products", "get", "prod-2")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if gotID != "prod-2" {
		t.Errorf("GetProduct id = %q, want prod-2", gotID)
	}
	for _, want := range []string{"Product:  T-Shirt", "Category: apparel", "Stock:    3", "Organic cotton"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output should contain %q, got: %s", want, output)
		}
	}

	if _, err := m.run("products", "get"); err == nil {
		t.Error("expected an error without a product ID")
	}
}

func TestProductsDeleteCommand_Run(t *testing.T) {
	tests := []struct {
		name        string
		mockGetErr  error
		mockDelErr  error
		wantDeleted bool
		wantOutput  string
		wantErrMsg  string
	}{
		{
			name:        "deletes with --yes",
			wantDeleted: true,
			wantOutput:  `✓ Product "Test Product" deleted.`,
		},
		{
			name:       "fails when product is missing",
			mockGetErr: errors.New("failed to fetch product: not found"),
			wantErrMsg: "not found",
		},
		{
			name:        "returns delete error",
			mockDelErr:  errors.New("failed to delete product: forbidden"),
			wantDeleted: true,
			wantErrMsg:  "forbidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMocks()
			if tt.mockGetErr != nil {
				m.product.GetProductFunc = func(ctx context.Context, id string) (*iface.Product, error) {
					return nil, tt.mockGetErr
				}
			}
			var deleted string
			m.product.DeleteProductFunc = func(ctx context.Context, id string) error {
				deleted = id
				return tt.mockDelErr
			}

			output, err := m.run("products", "delete", "prod-9", "--yes")

			if tt.wantErrMsg != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErrMsg) {
					t.Fatalf("expected error containing %q, got: %v", tt.wantErrMsg, err)
				}
			} else if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if tt.wantDeleted != (deleted == "prod-9") {
				t.Errorf("deleted = %q, wantDeleted %v", deleted, tt.wantDeleted)
			}
			if tt.wantOutput != "" && !strings.Contains(output, tt.wantOutput) {
				t.Errorf("Output should contain %q, got: %s", tt.wantOutput, output)
			}
		})
	}
}
