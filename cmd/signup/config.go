package main

import (
	"errors"
	"time"

	"github.com/dmitrymomot/signup/pkg/config"
	"github.com/dmitrymomot/signup/pkg/email"
	"github.com/dmitrymomot/signup/pkg/httpserver"
	"github.com/dmitrymomot/signup/pkg/ratelimiter"
	"github.com/dmitrymomot/signup/pkg/redis"
	"github.com/dmitrymomot/signup/svc/billing"
	"github.com/dmitrymomot/signup/svc/catalog"
	"github.com/dmitrymomot/signup/svc/checkout"
	"github.com/dmitrymomot/signup/svc/content"
)

type appConfig struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Name string `env:"APP_NAME" envDefault:"signup"`

	// PlansFile points at a YAML catalog. Without it the catalog is built
	// from the three STRIPE_*_PLAN_ID variables.
	PlansFile       string `env:"PLANS_FILE"`
	YearlyPlanID    string `env:"STRIPE_YEARLY_PLAN_ID"`
	Yearly147PlanID string `env:"STRIPE_YEARLY_147_PLAN_ID"`
	MonthlyPlanID   string `env:"STRIPE_MONTHLY_PLAN_ID"`

	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	TrustedIPHeaders   []string      `env:"TRUSTED_IP_HEADERS" envDefault:"CF-Connecting-IP,X-Forwarded-For,X-Real-IP" envSeparator:","`
	IdempotencyTTL     time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"5m"`

	HTTP      httpserver.Config
	Redis     redis.Config
	Email     email.Config
	Stripe    billing.StripeConfig
	VHX       content.VHXConfig
	Checkout  checkout.Config
	RateLimit ratelimiter.Config
}

var errNoPlans = errors.New("no plans configured: set PLANS_FILE or STRIPE_*_PLAN_ID")

func loadConfig(opts ...config.Option) (appConfig, error) {
	var cfg appConfig
	if err := config.Load(&cfg, opts...); err != nil {
		return appConfig{}, err
	}
	return cfg, nil
}

func loadCatalog(cfg appConfig) (*catalog.Catalog, error) {
	var (
		tiers []catalog.Tier
		err   error
	)
	if cfg.PlansFile != "" {
		if tiers, err = catalog.LoadFile(cfg.PlansFile); err != nil {
			return nil, err
		}
	} else {
		tiers = catalog.DefaultTiers(cfg.YearlyPlanID, cfg.Yearly147PlanID, cfg.MonthlyPlanID)
	}
	if len(tiers) == 0 {
		return nil, errNoPlans
	}
	return catalog.New(tiers...)
}
