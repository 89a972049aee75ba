package content

import "context"

// Provider is the content capability the orchestrator drives.
type Provider interface {
	// GetCustomer returns ErrCustomerNotFound when href does not resolve.
	GetCustomer(ctx context.Context, href string) (*Customer, error)
	CreateCustomer(ctx context.Context, params CreateCustomerParams) (*Customer, error)
	AddProduct(ctx context.Context, href, product, plan string) error
}
