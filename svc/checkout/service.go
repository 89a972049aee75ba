package checkout

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/signup/pkg/logger"
	"github.com/dmitrymomot/signup/svc/billing"
	"github.com/dmitrymomot/signup/svc/catalog"
)

// Billing is the subset of the billing orchestrator checkout reads from.
type Billing interface {
	GetPlan(ctx context.Context, planID string) (*billing.Plan, error)
	ResolveCoupon(ctx context.Context, code string) (*billing.Coupon, error)
}

// PlanConfig is the public config merged with one plan's details.
type PlanConfig struct {
	Config
	Plan *billing.Plan `json:"plan"`
}

type Service struct {
	cfg     Config
	catalog *catalog.Catalog
	billing Billing
	log     *slog.Logger
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService panics if the catalog or billing is nil.
func NewService(cfg Config, c *catalog.Catalog, b Billing, opts ...Option) *Service {
	if c == nil || b == nil {
		panic("checkout: catalog and billing are required")
	}
	s := &Service{cfg: cfg, catalog: c, billing: b, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("checkout"))
	return s
}

// PublicConfig returns the client config.
func (s *Service) PublicConfig() Config {
	return s.cfg
}

// ConfigForPlan returns the client config with the plan's details. Tiers
// that carry their own landing pages override the global ones.
func (s *Service) ConfigForPlan(ctx context.Context, slug string) (PlanConfig, error) {
	plan, err := s.Plan(ctx, slug)
	if err != nil {
		return PlanConfig{}, err
	}

	cfg := s.cfg
	if tier, ok := s.catalog.Tier(slug); ok {
		if tier.SuccessURL != "" {
			cfg.SuccessPage = tier.SuccessURL
		}
		if tier.ThankYouURL != "" {
			cfg.ThankYouSiteURL = tier.ThankYouURL
		}
	}
	return PlanConfig{Config: cfg, Plan: plan}, nil
}

// Plan resolves slug through the catalog and fetches the provider plan.
func (s *Service) Plan(ctx context.Context, slug string) (*billing.Plan, error) {
	planID, ok := s.catalog.Resolve(slug)
	if !ok {
		return nil, ErrPlanNotFound
	}

	plan, err := s.billing.GetPlan(ctx, planID)
	switch {
	case errors.Is(err, billing.ErrPlanNotFound):
		return nil, ErrPlanNotFound
	case err != nil:
		s.log.ErrorContext(ctx, "failed to fetch plan", logger.Plan(slug), logger.Error(err))
		return nil, errors.Join(ErrPlanUnavailable, err)
	}
	return plan, nil
}

// Coupon returns a valid coupon matching code in any of its casings.
func (s *Service) Coupon(ctx context.Context, code string) (*billing.Coupon, error) {
	coupon, err := s.billing.ResolveCoupon(ctx, code)
	switch {
	case errors.Is(err, billing.ErrCouponNotFound):
		return nil, ErrCouponNotFound
	case err != nil:
		s.log.ErrorContext(ctx, "failed to fetch coupon", slog.String("coupon", code), logger.Error(err))
		return nil, errors.Join(ErrCouponUnavailable, err)
	}
	return coupon, nil
}
