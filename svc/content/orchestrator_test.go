package content_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/signup/pkg/idempotency"
	"github.com/dmitrymomot/signup/svc/content"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) GetCustomer(ctx context.Context, href string) (*content.Customer, error) {
	args := m.Called(ctx, href)
	c, _ := args.Get(0).(*content.Customer)
	return c, args.Error(1)
}

func (m *mockProvider) CreateCustomer(ctx context.Context, params content.CreateCustomerParams) (*content.Customer, error) {
	args := m.Called(ctx, params)
	c, _ := args.Get(0).(*content.Customer)
	return c, args.Error(1)
}

func (m *mockProvider) AddProduct(ctx context.Context, href, product, plan string) error {
	return m.Called(ctx, href, product, plan).Error(0)
}

const existingHref = "https://api.vhx.tv/customers/7"

func existingCustomer() *content.Customer {
	return &content.Customer{ID: 7, Email: "ann@example.com", Links: content.Links{Self: content.Link{Href: existingHref}}}
}

func newCustomer() *content.Customer {
	return &content.Customer{ID: 8, Email: "ann@example.com", Links: content.Links{Self: content.Link{Href: "https://api.vhx.tv/customers/8"}}}
}

func signupRequest() content.SignupRequest {
	return content.SignupRequest{
		Email:          "ann@example.com",
		Name:           "Ann",
		Password:       "s3cret",
		Product:        "https://api.vhx.tv/products/1",
		Plan:           "yearly",
		MarketingOptIn: true,
	}
}

func TestSignup_ExistingCustomerGetsProduct(t *testing.T) {
	t.Parallel()

	p := &mockProvider{}
	p.On("GetCustomer", mock.Anything, existingHref).Return(existingCustomer(), nil).Once()
	p.On("AddProduct", mock.Anything, existingHref, "https://api.vhx.tv/products/1", "yearly").Return(nil).Once()

	res, err := content.NewOrchestrator(p).Signup(context.Background(), signupRequest(), existingHref)
	require.NoError(t, err)
	assert.False(t, res.IsNewCustomer)
	assert.Equal(t, existingHref, res.Customer.Href())
	p.AssertExpectations(t)
	p.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
}

func TestSignup_CreatesCustomer(t *testing.T) {
	t.Parallel()

	wantParams := content.CreateCustomerParams{
		Email:          "ann@example.com",
		Name:           "Ann",
		Product:        "https://api.vhx.tv/products/1",
		Plan:           "yearly",
		Password:       "s3cret",
		MarketingOptIn: true,
	}

	tests := []struct {
		name  string
		href  string
		setup func(p *mockProvider)
	}{
		{
			name:  "no cross-reference",
			href:  "",
			setup: func(*mockProvider) {},
		},
		{
			name: "stale cross-reference",
			href: existingHref,
			setup: func(p *mockProvider) {
				p.On("GetCustomer", mock.Anything, existingHref).Return(nil, content.ErrCustomerNotFound).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &mockProvider{}
			tt.setup(p)
			p.On("CreateCustomer", mock.Anything, wantParams).Return(newCustomer(), nil).Once()

			res, err := content.NewOrchestrator(p).Signup(context.Background(), signupRequest(), tt.href)
			require.NoError(t, err)
			assert.True(t, res.IsNewCustomer)
			assert.Equal(t, "https://api.vhx.tv/customers/8", res.Customer.Href())
			p.AssertExpectations(t)
			p.AssertNotCalled(t, "AddProduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSignup_Failures(t *testing.T) {
	t.Parallel()

	t.Run("lookup failure does not create", func(t *testing.T) {
		p := &mockProvider{}
		p.On("GetCustomer", mock.Anything, existingHref).Return(nil, &content.APIError{Op: "get_customer", StatusCode: 502}).Once()

		_, err := content.NewOrchestrator(p).Signup(context.Background(), signupRequest(), existingHref)
		assert.ErrorIs(t, err, content.ErrProvider)
		p.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
	})

	t.Run("add product failure", func(t *testing.T) {
		p := &mockProvider{}
		p.On("GetCustomer", mock.Anything, existingHref).Return(existingCustomer(), nil).Once()
		p.On("AddProduct", mock.Anything, existingHref, mock.Anything, mock.Anything).Return(errors.New("boom")).Once()

		_, err := content.NewOrchestrator(p).Signup(context.Background(), signupRequest(), existingHref)
		assert.ErrorIs(t, err, content.ErrProvider)
	})

	t.Run("create failure", func(t *testing.T) {
		p := &mockProvider{}
		p.On("CreateCustomer", mock.Anything, mock.Anything).Return(nil, &content.APIError{Op: "create_customer", StatusCode: 422}).Once()

		_, err := content.NewOrchestrator(p).Signup(context.Background(), signupRequest(), "")
		assert.ErrorIs(t, err, content.ErrProvider)
	})
}

func TestSignup_Guard(t *testing.T) {
	t.Parallel()

	t.Run("pending elsewhere", func(t *testing.T) {
		guard := idempotency.NewMemoryGuard()
		_, err := guard.TryAcquire(context.Background(), "ann@example.com")
		require.NoError(t, err)

		p := &mockProvider{}
		_, err = content.NewOrchestrator(p, content.WithGuard(guard)).Signup(context.Background(), signupRequest(), "")
		assert.ErrorIs(t, err, idempotency.ErrAlreadyPending)
		p.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
	})

	t.Run("caller holds lease", func(t *testing.T) {
		guard := idempotency.NewMemoryGuard()
		ctx := context.Background()
		_, err := guard.TryAcquire(ctx, "ann@example.com")
		require.NoError(t, err)
		ctx = idempotency.WithLease(ctx, "ann@example.com")

		p := &mockProvider{}
		p.On("CreateCustomer", mock.Anything, mock.Anything).Return(newCustomer(), nil).Once()

		res, err := content.NewOrchestrator(p, content.WithGuard(guard)).Signup(ctx, signupRequest(), "")
		require.NoError(t, err)
		assert.True(t, res.IsNewCustomer)
		assert.True(t, guard.Pending("ann@example.com"))
	})

	t.Run("released on failure", func(t *testing.T) {
		guard := idempotency.NewMemoryGuard()
		p := &mockProvider{}
		p.On("CreateCustomer", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

		_, err := content.NewOrchestrator(p, content.WithGuard(guard)).Signup(context.Background(), signupRequest(), "")
		require.Error(t, err)
		assert.False(t, guard.Pending("ann@example.com"))
	})
}

func TestFindCustomer(t *testing.T) {
	t.Parallel()

	p := &mockProvider{}
	p.On("GetCustomer", mock.Anything, existingHref).Return(existingCustomer(), nil).Once()
	o := content.NewOrchestrator(p)

	_, err := o.FindCustomer(context.Background(), "")
	assert.ErrorIs(t, err, content.ErrCustomerNotFound)

	c, err := o.FindCustomer(context.Background(), existingHref)
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.ID)
}
