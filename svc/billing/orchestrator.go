package billing

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dmitrymomot/signup/pkg/idempotency"
	"github.com/dmitrymomot/signup/pkg/logger"
)

// Orchestrator runs the billing side of a signup against a Provider.
type Orchestrator struct {
	provider Provider
	guard    idempotency.Guard
	log      *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// WithGuard sets the guard that serializes Subscribe calls per email. Share
// it with the content orchestrator and the signup workflow.
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
		panic("billing: Provider is required")
	}
	o := &Orchestrator{
		provider: provider,
		guard:    idempotency.NewMemoryGuard(),
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.log = o.log.With(logger.Component("billing"))
	return o
}

// FindCustomer looks a customer up by email, trying each of EmailVariants in
// order. It returns ErrCustomerNotFound when no variant matches.
func (o *Orchestrator) FindCustomer(ctx context.Context, email string) (*Customer, error) {
	for _, variant := range EmailVariants(email) {
		customer, err := o.provider.FindCustomerByEmail(ctx, variant)
		switch {
		case err == nil && customer != nil:
			return customer, nil
		case err == nil, IsNotFound(err):
			continue
		default:
			return nil, errors.Join(ErrProvider, err)
		}
	}
	return nil, ErrCustomerNotFound
}

// FindOrCreateCustomer returns the existing customer for email or creates one
// with email and name only.
func (o *Orchestrator) FindOrCreateCustomer(ctx context.Context, email, name string) (*Customer, bool, error) {
	customer, err := o.FindCustomer(ctx, email)
	if err == nil {
		return customer, false, nil
	}
	if !errors.Is(err, ErrCustomerNotFound) {
		return nil, false, err
	}

	customer, err = o.provider.CreateCustomer(ctx, email, name)
	if err != nil {
		o.log.ErrorContext(ctx, "failed to create billing customer", logger.Email(email), logger.Error(err))
		return nil, false, errors.Join(ErrProvider, err)
	}
	o.log.DebugContext(ctx, "billing customer created", logger.Email(email), logger.CustomerID(customer.ID))
	return customer, true, nil
}

// FindActiveSubscription returns the first subscription of customerID to
// planID that is not cancelled.
func (o *Orchestrator) FindActiveSubscription(ctx context.Context, customerID, planID string) (*Subscription, error) {
	subs, err := o.provider.ListSubscriptions(ctx, customerID, planID)
	if err != nil {
		return nil, errors.Join(ErrProvider, err)
	}
	for i := range subs {
		if !subs[i].Status.IsCancelled() {
			return &subs[i], nil
		}
	}
	return nil, ErrSubscriptionNotFound
}

// AssertNotSubscribed fails with ErrDuplicateSubscription when customer holds
// any non-cancelled subscription to planID.
func (o *Orchestrator) AssertNotSubscribed(ctx context.Context, customer *Customer, planID string) error {
	sub, err := o.FindActiveSubscription(ctx, customer.ID, planID)
	switch {
	case errors.Is(err, ErrSubscriptionNotFound):
		return nil
	case err != nil:
		return err
	}

	o.log.WarnContext(ctx, "signup rejected, customer already subscribed",
		logger.Email(customer.Email),
		logger.CustomerID(customer.ID),
		logger.SubscriptionID(sub.ID),
		slog.String("status", string(sub.Status)),
	)
	return ErrDuplicateSubscription
}

// AttachPaymentSource sets token as the customer's default payment source.
// Card errors become ErrPaymentDeclined and keep the provider message.
func (o *Orchestrator) AttachPaymentSource(ctx context.Context, customer *Customer, token string) error {
	err := o.provider.AttachSource(ctx, customer.ID, token)
	if err == nil {
		return nil
	}
	if KindOf(err) == KindCard {
		o.log.InfoContext(ctx, "payment source declined", logger.Email(customer.Email), logger.CustomerID(customer.ID), logger.Error(err))
		return errors.Join(ErrPaymentDeclined, err)
	}
	o.log.ErrorContext(ctx, "failed to attach payment source", logger.Email(customer.Email), logger.CustomerID(customer.ID), logger.Error(err))
	return errors.Join(ErrProvider, err)
}

// ResolveCoupon tries each of CouponVariants and returns the first coupon
// that exists and is valid.
func (o *Orchestrator) ResolveCoupon(ctx context.Context, code string) (*Coupon, error) {
	for _, variant := range CouponVariants(code) {
		coupon, err := o.provider.GetCoupon(ctx, variant)
		switch {
		case IsNotFound(err):
			continue
		case err != nil:
			return nil, errors.Join(ErrProvider, err)
		case coupon != nil && coupon.Valid:
			return coupon, nil
		}
	}
	return nil, ErrCouponNotFound
}

// CreateSubscription subscribes customer to req.PlanID with a single provider
// call. The coupon, if any, applies to the whole subscription.
func (o *Orchestrator) CreateSubscription(ctx context.Context, customer *Customer, coupon *Coupon, req SubscribeRequest) (*Subscription, error) {
	params := CreateSubscriptionParams{
		CustomerID: customer.ID,
		PlanID:     req.PlanID,
		Metadata: map[string]string{
			"product":        req.Product,
			"plan":           req.PlanSlug,
			"marketingOptIn": strconv.FormatBool(req.MarketingOptIn),
		},
	}
	if coupon != nil {
		params.CouponID = coupon.ID
	}

	sub, err := o.provider.CreateSubscription(ctx, params)
	if err != nil {
		o.log.ErrorContext(ctx, "failed to create subscription",
			logger.Email(customer.Email),
			logger.CustomerID(customer.ID),
			logger.Plan(req.PlanSlug),
			logger.Error(err),
		)
		if KindOf(err) == KindCard {
			return nil, errors.Join(ErrPaymentDeclined, err)
		}
		return nil, errors.Join(ErrProvider, err)
	}
	return sub, nil
}

// Subscribe runs the paid billing phase under the guard for req.Email:
// find or create the customer, reject duplicates, attach the payment
// source, resolve the coupon and create the subscription.
func (o *Orchestrator) Subscribe(ctx context.Context, req SubscribeRequest) (*SubscribeResult, error) {
	var result *SubscribeResult
	err := idempotency.Scope(ctx, o.guard, idempotency.EmailKey(req.Email), func(ctx context.Context) error {
		customer, _, err := o.FindOrCreateCustomer(ctx, req.Email, req.Name)
		if err != nil {
			return err
		}
		if err := o.AssertNotSubscribed(ctx, customer, req.PlanID); err != nil {
			return err
		}
		if err := o.AttachPaymentSource(ctx, customer, req.PaymentToken); err != nil {
			return err
		}

		var coupon *Coupon
		if strings.TrimSpace(req.CouponCode) != "" {
			if coupon, err = o.ResolveCoupon(ctx, req.CouponCode); err != nil {
				return err
			}
		}

		sub, err := o.CreateSubscription(ctx, customer, coupon, req)
		if err != nil {
			return err
		}
		result = &SubscribeResult{Customer: customer, Subscription: sub, Coupon: coupon}
		return nil
	}, idempotency.OnReleaseError(o.logReleaseError(ctx)))
	if err != nil {
		return nil, err
	}

	o.log.InfoContext(ctx, "billing subscription created",
		logger.Email(req.Email),
		logger.CustomerID(result.Customer.ID),
		logger.SubscriptionID(result.Subscription.ID),
		logger.Plan(req.PlanSlug),
	)
	return result, nil
}

// AssertSubscribed verifies that email already pays for planID. A missing
// customer and a missing subscription both yield ErrSubscriptionNotFound.
func (o *Orchestrator) AssertSubscribed(ctx context.Context, email, planID string) (*SubscribeResult, error) {
	customer, err := o.FindCustomer(ctx, email)
	if errors.Is(err, ErrCustomerNotFound) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}

	sub, err := o.FindActiveSubscription(ctx, customer.ID, planID)
	if err != nil {
		return nil, err
	}
	return &SubscribeResult{Customer: customer, Subscription: sub}, nil
}

// UpdateCustomerMetadata merges fields into the customer's metadata.
func (o *Orchestrator) UpdateCustomerMetadata(ctx context.Context, customerID string, fields map[string]string) (*Customer, error) {
	customer, err := o.provider.UpdateCustomerMetadata(ctx, customerID, fields)
	if err != nil {
		return nil, errors.Join(ErrProvider, err)
	}
	return customer, nil
}

// GetPlan returns provider details for planID.
func (o *Orchestrator) GetPlan(ctx context.Context, planID string) (*Plan, error) {
	plan, err := o.provider.GetPlan(ctx, planID)
	if IsNotFound(err) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrProvider, err)
	}
	return plan, nil
}

func (o *Orchestrator) logReleaseError(ctx context.Context) func(string, error) {
	return func(key string, err error) {
		o.log.ErrorContext(ctx, "failed to release signup guard", slog.String("key", key), logger.Error(err))
	}
}
