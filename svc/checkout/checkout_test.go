package checkout_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/signup/handler"
	"github.com/dmitrymomot/signup/pkg/cache"
	"github.com/dmitrymomot/signup/svc/billing"
	"github.com/dmitrymomot/signup/svc/catalog"
	"github.com/dmitrymomot/signup/svc/checkout"
)

type mockBilling struct {
	mock.Mock
}

func (m *mockBilling) GetPlan(ctx context.Context, planID string) (*billing.Plan, error) {
	args := m.Called(ctx, planID)
	plan, _ := args.Get(0).(*billing.Plan)
	return plan, args.Error(1)
}

func (m *mockBilling) ResolveCoupon(ctx context.Context, code string) (*billing.Coupon, error) {
	args := m.Called(ctx, code)
	coupon, _ := args.Get(0).(*billing.Coupon)
	return coupon, args.Error(1)
}

var publicConfig = checkout.Config{
	Debug:                "false",
	BackendURL:           "https://signup.example.com",
	SuccessPage:          "https://example.com/welcome",
	StripePublishableKey: "pk_test_123",
	PortalURL:            "https://watch.example.com",
}

func newCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(
		catalog.Tier{Slug: "yearly", PlanID: "plan_yearly", Aliases: []string{"annual"}},
		catalog.Tier{Slug: "monthly", PlanID: "plan_monthly", SuccessURL: "https://example.com/monthly-welcome"},
	)
	require.NoError(t, err)
	return c
}

func TestService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	yearly := &billing.Plan{ID: "plan_yearly", Amount: 14700, Currency: "usd", Interval: "year", IntervalCount: 1}
	monthly := &billing.Plan{ID: "plan_monthly", Amount: 1500, Currency: "usd", Interval: "month", IntervalCount: 1}

	t.Run("plan by alias", func(t *testing.T) {
		t.Parallel()
		b := &mockBilling{}
		b.On("GetPlan", mock.Anything, "plan_yearly").Return(yearly, nil).Once()

		plan, err := checkout.NewService(publicConfig, newCatalog(t), b).Plan(ctx, "Annual")
		require.NoError(t, err)
		assert.Equal(t, yearly, plan)
		b.AssertExpectations(t)
	})

	t.Run("unknown slug never reaches the provider", func(t *testing.T) {
		t.Parallel()
		b := &mockBilling{}
		_, err := checkout.NewService(publicConfig, newCatalog(t), b).Plan(ctx, "weekly")
		assert.ErrorIs(t, err, checkout.ErrPlanNotFound)
		b.AssertNotCalled(t, "GetPlan", mock.Anything, mock.Anything)
	})

	t.Run("plan missing at provider", func(t *testing.T) {
		t.Parallel()
		b := &mockBilling{}
		b.On("GetPlan", mock.Anything, "plan_yearly").Return(nil, billing.ErrPlanNotFound)
		_, err := checkout.NewService(publicConfig, newCatalog(t), b).Plan(ctx, "yearly")
		assert.ErrorIs(t, err, checkout.ErrPlanNotFound)
	})

	t.Run("provider failure", func(t *testing.T) {
		t.Parallel()
		b := &mockBilling{}
		b.On("GetPlan", mock.Anything, "plan_yearly").Return(nil, billing.ErrProvider)
		_, err := checkout.NewService(publicConfig, newCatalog(t), b).Plan(ctx, "yearly")
		assert.ErrorIs(t, err, checkout.ErrPlanUnavailable)
		assert.ErrorIs(t, err, billing.ErrProvider)
	})

	t.Run("config for plan applies tier landing pages", func(t *testing.T) {
		t.Parallel()
		b := &mockBilling{}
		b.On("GetPlan", mock.Anything, "plan_monthly").Return(monthly, nil)
		b.On("GetPlan", mock.Anything, "plan_yearly").Return(yearly, nil)
		svc := checkout.NewService(publicConfig, newCatalog(t), b)

		cfg, err := svc.ConfigForPlan(ctx, "monthly")
		require.NoError(t, err)
		assert.Equal(t, monthly, cfg.Plan)
		assert.Equal(t, "https://example.com/monthly-welcome", cfg.SuccessPage)
		assert.Equal(t, publicConfig.PortalURL, cfg.PortalURL)

		cfg, err = svc.ConfigForPlan(ctx, "yearly")
		require.NoError(t, err)
		assert.Equal(t, publicConfig.SuccessPage, cfg.SuccessPage)
		assert.Equal(t, publicConfig, svc.PublicConfig(), "tier overrides do not leak into the shared config")
	})

	t.Run("coupon", func(t *testing.T) {
		t.Parallel()
		b := &mockBilling{}
		b.On("ResolveCoupon", mock.Anything, "spring").Return(&billing.Coupon{ID: "SPRING", Valid: true}, nil)
		b.On("ResolveCoupon", mock.Anything, "nope").Return(nil, billing.ErrCouponNotFound)
		b.On("ResolveCoupon", mock.Anything, "down").Return(nil, errors.Join(billing.ErrProvider, errors.New("timeout")))
		svc := checkout.NewService(publicConfig, newCatalog(t), b)

		coupon, err := svc.Coupon(ctx, "spring")
		require.NoError(t, err)
		assert.Equal(t, "SPRING", coupon.ID)

		_, err = svc.Coupon(ctx, "nope")
		assert.ErrorIs(t, err, checkout.ErrCouponNotFound)

		_, err = svc.Coupon(ctx, "down")
		assert.ErrorIs(t, err, checkout.ErrCouponUnavailable)
	})

	t.Run("requires dependencies", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { checkout.NewService(publicConfig, nil, &mockBilling{}) })
	})
}

func newServer(t *testing.T, b *mockBilling) (http.Handler, *cache.MemoryStore) {
	t.Helper()
	store := cache.NewMemoryStore()
	r := chi.NewRouter()
	checkout.NewHandler(checkout.NewService(publicConfig, newCatalog(t), b), store, nil).Mount(r)
	return r, store
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler_Config(t *testing.T) {
	t.Parallel()
	h, _ := newServer(t, &mockBilling{})

	rec := get(h, "/config")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get(cache.HeaderCache))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "https://signup.example.com", body["REACT_APP_BACKEND_URL"])
	assert.Equal(t, "pk_test_123", body["STRIPE_PUBLISHABLE_KEY"])
	assert.NotContains(t, body, "INTERCOM_APP_ID", "unset values are omitted")

	rec = get(h, "/config")
	assert.Equal(t, "HIT", rec.Header().Get(cache.HeaderCache))
}

func TestHandler_PlanIsCachedUntilInvalidated(t *testing.T) {
	t.Parallel()
	b := &mockBilling{}
	b.On("GetPlan", mock.Anything, "plan_yearly").
		Return(&billing.Plan{ID: "plan_yearly", Amount: 14700, Currency: "usd"}, nil).Twice()
	h, store := newServer(t, b)

	for range 3 {
		rec := get(h, "/plan/yearly")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	b.AssertNumberOfCalls(t, "GetPlan", 1)

	rec := get(h, "/cache/invalidate")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
	assert.Zero(t, store.Len())

	rec = get(h, "/plan/yearly")
	assert.Equal(t, "MISS", rec.Header().Get(cache.HeaderCache))
	b.AssertNumberOfCalls(t, "GetPlan", 2)
}

func TestHandler_ConfigForPlan(t *testing.T) {
	t.Parallel()
	b := &mockBilling{}
	b.On("GetPlan", mock.Anything, "plan_yearly").Return(&billing.Plan{ID: "plan_yearly", Amount: 14700}, nil)
	h, _ := newServer(t, b)

	rec := get(h, "/config/annual")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		PortalURL string       `json:"VHX_PORTAL_URL"`
		Plan      billing.Plan `json:"plan"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, publicConfig.PortalURL, body.PortalURL)
	assert.Equal(t, int64(14700), body.Plan.Amount)
}

func TestHandler_Errors(t *testing.T) {
	t.Parallel()
	b := &mockBilling{}
	b.On("ResolveCoupon", mock.Anything, "nope").Return(nil, billing.ErrCouponNotFound)
	b.On("GetPlan", mock.Anything, "plan_monthly").Return(nil, billing.ErrProvider)
	h, store := newServer(t, b)

	tests := []struct {
		target  string
		status  int
		message string
	}{
		{"/plan/weekly", http.StatusNotFound, "Plan not found"},
		{"/config/weekly", http.StatusNotFound, "Plan not found"},
		{"/coupon/nope", http.StatusNotFound, "Coupon not found"},
		{"/plan/monthly", http.StatusInternalServerError, "Failed to provide stripe plan details."},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(h, tt.target)
			require.Equal(t, tt.status, rec.Code)

			var body handler.ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.True(t, body.Error)
			assert.Equal(t, tt.message, body.Message)
		})
	}
	assert.Zero(t, store.Len(), "error responses are not cached")
}
