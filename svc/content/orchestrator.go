package content

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/signup/pkg/idempotency"
	"github.com/dmitrymomot/signup/pkg/logger"
)

// Orchestrator provisions content access for signups.
type Orchestrator struct {
	provider Provider
	guard    idempotency.Guard
	log      *slog.Logger
}

type Option func(*Orchestrator)

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// WithGuard sets the guard keyed by email. It must be the guard the signup
// workflow holds, or the content phase will see its own request as pending.
func WithGuard(g idempotency.Guard) Option {
	return func(o *Orchestrator) {
		if g != nil {
			o.guard = g
		}
	}
}

// NewOrchestrator panics if provider is nil.
func NewOrchestrator(provider Provider, opts ...Option) *Orchestrator {
	if provider == nil {
		panic("content: Provider is required")
	}
	o := &Orchestrator{
		provider: provider,
		guard:    idempotency.NewMemoryGuard(),
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.log = o.log.With(logger.Component("content"))
	return o
}

// Signup grants req.Product to the customer at knownHref, or creates a new
// customer when knownHref is empty or no longer resolves.
func (o *Orchestrator) Signup(ctx context.Context, req SignupRequest, knownHref string) (*SignupResult, error) {
	var result *SignupResult
	err := idempotency.Scope(ctx, o.guard, idempotency.EmailKey(req.Email), func(ctx context.Context) error {
		customer, err := o.FindCustomer(ctx, knownHref)
		switch {
		case err == nil:
			if err := o.provider.AddProduct(ctx, customer.Href(), req.Product, req.Plan); err != nil {
				o.log.ErrorContext(ctx, "failed to add product to content customer",
					logger.Email(req.Email),
					logger.ContentHref(customer.Href()),
					logger.Plan(req.Plan),
					logger.Error(err),
				)
				return errors.Join(ErrProvider, err)
			}
			o.log.DebugContext(ctx, "product added to content customer", logger.Email(req.Email), logger.ContentHref(customer.Href()))
			result = &SignupResult{Customer: customer, IsNewCustomer: false}
			return nil
		case errors.Is(err, ErrCustomerNotFound):
			if knownHref != "" {
				o.log.WarnContext(ctx, "stale content cross-reference, creating customer", logger.Email(req.Email), logger.ContentHref(knownHref))
			}
		default:
			return err
		}

		customer, err = o.provider.CreateCustomer(ctx, CreateCustomerParams{
			Email:          req.Email,
			Name:           req.Name,
			Product:        req.Product,
			Plan:           req.Plan,
			Password:       req.Password,
			MarketingOptIn: req.MarketingOptIn,
		})
		if err != nil {
			o.log.ErrorContext(ctx, "failed to create content customer", logger.Email(req.Email), logger.Plan(req.Plan), logger.Error(err))
			return errors.Join(ErrProvider, err)
		}
		o.log.DebugContext(ctx, "content customer created", logger.Email(req.Email), logger.ContentHref(customer.Href()))
		result = &SignupResult{Customer: customer, IsNewCustomer: true}
		return nil
	}, idempotency.OnReleaseError(func(key string, err error) {
		o.log.ErrorContext(ctx, "failed to release signup guard", slog.String("key", key), logger.Error(err))
	}))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FindCustomer resolves href. An empty href is reported as not found.
func (o *Orchestrator) FindCustomer(ctx context.Context, href string) (*Customer, error) {
	if href == "" {
		return nil, ErrCustomerNotFound
	}
	customer, err := o.provider.GetCustomer(ctx, href)
	if errors.Is(err, ErrCustomerNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		o.log.ErrorContext(ctx, "failed to find content customer", logger.ContentHref(href), logger.Error(err))
		return nil, errors.Join(ErrProvider, err)
	}
	return customer, nil
}
