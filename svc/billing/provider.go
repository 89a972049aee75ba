package billing

import "context"

// Provider is the billing capability the orchestrator drives. Implementations
// report failures as *ProviderError so callers can branch on Kind, except
// FindCustomerByEmail which returns ErrCustomerNotFound for an empty result.
type Provider interface {
	FindCustomerByEmail(ctx context.Context, email string) (*Customer, error)
	CreateCustomer(ctx context.Context, email, name string) (*Customer, error)
	UpdateCustomerMetadata(ctx context.Context, customerID string, fields map[string]string) (*Customer, error)
	AttachSource(ctx context.Context, customerID, token string) error

	// ListSubscriptions returns subscriptions of customerID to planID in
	// every status, cancelled ones included.
	ListSubscriptions(ctx context.Context, customerID, planID string) ([]Subscription, error)
	CreateSubscription(ctx context.Context, params CreateSubscriptionParams) (*Subscription, error)

	GetCoupon(ctx context.Context, code string) (*Coupon, error)
	GetPlan(ctx context.Context, planID string) (*Plan, error)
}
