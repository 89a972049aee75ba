package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/signup/pkg/config"
	"github.com/dmitrymomot/signup/pkg/email"
	"github.com/dmitrymomot/signup/svc/signup"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	cfg, err := loadConfig(config.WithEnvironment(map[string]string{
		"STRIPE_SECRET_KEY":      "sk_test_123",
		"STRIPE_PUBLISHABLE_KEY": "pk_test_123",
		"STRIPE_YEARLY_PLAN_ID":  "plan_yearly",
		"VHX_API_KEY":            "vhx_key",
		"VHX_PRODUCT":            "https://api.vhx.tv/products/1",
		"VHX_PORTAL_URL":         "https://watch.example.com",
		"BACKEND_URL":            "https://signup.example.com",
		"CORS_ALLOWED_ORIGINS":   "https://a.example.com,https://b.example.com",
	}))
	require.NoError(t, err)

	assert.Equal(t, "sk_test_123", cfg.Stripe.SecretKey)
	assert.Equal(t, "pk_test_123", cfg.Checkout.StripePublishableKey)
	assert.Equal(t, "https://watch.example.com", cfg.Checkout.PortalURL)
	assert.Equal(t, "https://signup.example.com", cfg.Checkout.BackendURL)
	assert.Equal(t, "https://api.vhx.tv", cfg.VHX.BaseURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, signup.DefaultSupportEmail, cfg.Email.SupportEmail)
	assert.Equal(t, 5*time.Minute, cfg.IdempotencyTTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, email.Config{
		SenderEmail:  "no-reply@brilliantperspectives.com",
		SupportEmail: signup.DefaultSupportEmail,
	}, cfg.Email)
}

func TestLoadConfig_RequiresProviderKeys(t *testing.T) {
	t.Parallel()

	_, err := loadConfig(config.WithEnvironment(map[string]string{"VHX_API_KEY": "vhx_key"}))
	assert.ErrorIs(t, err, config.ErrParsingConfig)

	_, err = loadConfig(config.WithEnvironment(map[string]string{"STRIPE_SECRET_KEY": "sk_test_123"}))
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	t.Run("from environment", func(t *testing.T) {
		t.Parallel()
		c, err := loadCatalog(appConfig{YearlyPlanID: "plan_yearly", MonthlyPlanID: "plan_monthly"})
		require.NoError(t, err)
		assert.Equal(t, []string{"yearly", "monthly"}, c.Slugs())

		id, ok := c.Resolve("annual")
		assert.True(t, ok)
		assert.Equal(t, "plan_yearly", id)
	})

	t.Run("from file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "plans.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`plans:
  - slug: quarterly
    plan_id: price_q
    aliases: [3-months]
`), 0o600))

		c, err := loadCatalog(appConfig{PlansFile: path, YearlyPlanID: "ignored"})
		require.NoError(t, err)
		assert.Equal(t, []string{"quarterly"}, c.Slugs())
	})

	t.Run("nothing configured", func(t *testing.T) {
		t.Parallel()
		_, err := loadCatalog(appConfig{})
		assert.ErrorIs(t, err, errNoPlans)
	})
}
