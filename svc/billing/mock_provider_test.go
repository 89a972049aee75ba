package billing_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/signup/svc/billing"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) FindCustomerByEmail(ctx context.Context, email string) (*billing.Customer, error) {
	args := m.Called(ctx, email)
	c, _ := args.Get(0).(*billing.Customer)
	return c, args.Error(1)
}

func (m *mockProvider) CreateCustomer(ctx context.Context, email, name string) (*billing.Customer, error) {
	args := m.Called(ctx, email, name)
	c, _ := args.Get(0).(*billing.Customer)
	return c, args.Error(1)
}

func (m *mockProvider) UpdateCustomerMetadata(ctx context.Context, customerID string, fields map[string]string) (*billing.Customer, error) {
	args := m.Called(ctx, customerID, fields)
	c, _ := args.Get(0).(*billing.Customer)
	return c, args.Error(1)
}

func (m *mockProvider) AttachSource(ctx context.Context, customerID, token string) error {
	return m.Called(ctx, customerID, token).Error(0)
}

func (m *mockProvider) ListSubscriptions(ctx context.Context, customerID, planID string) ([]billing.Subscription, error) {
	args := m.Called(ctx, customerID, planID)
	subs, _ := args.Get(0).([]billing.Subscription)
	return subs, args.Error(1)
}

func (m *mockProvider) CreateSubscription(ctx context.Context, params billing.CreateSubscriptionParams) (*billing.Subscription, error) {
	args := m.Called(ctx, params)
	s, _ := args.Get(0).(*billing.Subscription)
	return s, args.Error(1)
}

func (m *mockProvider) GetCoupon(ctx context.Context, code string) (*billing.Coupon, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(*billing.Coupon)
	return c, args.Error(1)
}

func (m *mockProvider) GetPlan(ctx context.Context, planID string) (*billing.Plan, error) {
	args := m.Called(ctx, planID)
	p, _ := args.Get(0).(*billing.Plan)
	return p, args.Error(1)
}

func notFound(op string) error {
	return &billing.ProviderError{Kind: billing.KindNotFound, Op: op, StatusCode: 404, Message: "No such object"}
}
