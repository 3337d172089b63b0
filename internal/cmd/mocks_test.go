package cmd

import (
	"bytes"
	"context"

	"github.com/storefront-labs/storefront-cli/internal/di"
	iface "github.com/storefront-labs/storefront-cli/internal/service/interface"
)

// MockAuthService is a mock implementation of iface.AuthService
type MockAuthService struct {
	LoginFunc      func(ctx context.Context, email, password string) (*iface.User, error)
	LogoutFunc     func(ctx context.Context) error
	IsLoggedInFunc func() bool
	WhoAmIFunc     func(ctx context.Context) (*iface.User, error)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*iface.User, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return &iface.User{ID: "u-1", Email: email}, nil
}

func (m *MockAuthService) Logout(ctx context.Context) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}

func (m *MockAuthService) IsLoggedIn() bool {
	if m.IsLoggedInFunc != nil {
		return m.IsLoggedInFunc()
	}
	return true
}

func (m *MockAuthService) WhoAmI(ctx context.Context) (*iface.User, error) {
	if m.WhoAmIFunc != nil {
		return m.WhoAmIFunc(ctx)
	}
	return &iface.User{ID: "u-1", Email: "admin@example.com"}, nil
}

// MockProductService is a mock implementation of iface.ProductService
type MockProductService struct {
	ListProductsFunc  func(ctx context.Context, input *iface.ListProductsInput) ([]iface.Product, error)
	GetProductFunc    func(ctx context.Context, id string) (*iface.Product, error)
	DeleteProductFunc func(ctx context.Context, id string) error
}

func (m *MockProductService) ListProducts(ctx context.Context, input *iface.ListProductsInput) ([]iface.Product, error) {
	if m.ListProductsFunc != nil {
		return m.ListProductsFunc(ctx, input)
	}
	return nil, nil
}

func (m *MockProductService) GetProduct(ctx context.Context, id string) (*iface.Product, error) {
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, id)
	}
	return &iface.Product{ID: id, SKU: "SKU-1", Name: "Test Product", Price: 10, Currency: "EUR"}, nil
}

func (m *MockProductService) DeleteProduct(ctx context.Context, id string) error {
	if m.DeleteProductFunc != nil {
		return m.DeleteProductFunc(ctx, id)
	}
	return nil
}

// MockCartService is a mock implementation of iface.CartService
type MockCartService struct {
	GetCartFunc func(ctx context.Context) (*iface.Cart, error)
}

func (m *MockCartService) GetCart(ctx context.Context) (*iface.Cart, error) {
	if m.GetCartFunc != nil {
		return m.GetCartFunc(ctx)
	}
	return &iface.Cart{}, nil
}

// MockAdminService is a mock implementation of iface.AdminService
type MockAdminService struct {
	ListOrdersFunc   func(ctx context.Context, status string) ([]iface.Order, error)
	GetOrderFunc     func(ctx context.Context, id string) (*iface.Order, error)
	GetDashboardFunc func(ctx context.Context) (*iface.DashboardSummary, error)
}

func (m *MockAdminService) ListOrders(ctx context.Context, status string) ([]iface.Order, error) {
	if m.ListOrdersFunc != nil {
		return m.ListOrdersFunc(ctx, status)
	}
	return nil, nil
}

func (m *MockAdminService) GetOrder(ctx context.Context, id string) (*iface.Order, error) {
	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(ctx, id)
	}
	return &iface.Order{ID: id}, nil
}

func (m *MockAdminService) GetDashboard(ctx context.Context) (*iface.DashboardSummary, error) {
	if m.GetDashboardFunc != nil {
		return m.GetDashboardFunc(ctx)
	}
	return &iface.DashboardSummary{}, nil
}

// mocks bundles the services a test command runs against
type mocks struct {
	auth    *MockAuthService
	product *MockProductService
	cart    *MockCartService
	admin   *MockAdminService
}

func newMocks() *mocks {
	return &mocks{
		auth:    &MockAuthService{},
		product: &MockProductService{},
		cart:    &MockCartService{},
		admin:   &MockAdminService{},
	}
}

// run executes the CLI with args against the mocks and returns its stdout
func (m *mocks) run(args ...string) (string, error) {
	container := di.NewContainerWithServices(m.auth, m.product, m.cart, m.admin)

	root := NewRootCommand()
	root.SetContainer(container)

	var out, errOut bytes.Buffer
	root.Command().SetOut(&out)
	root.Command().SetErr(&errOut)
	root.Command().SetArgs(args)

	err := root.Command().Execute()
	return out.String(), err
}
