package signup

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/signup/pkg/idempotency"
	"github.com/dmitrymomot/signup/pkg/logger"
	"github.com/dmitrymomot/signup/pkg/statemachine"
	"github.com/dmitrymomot/signup/pkg/validator"
	"github.com/dmitrymomot/signup/svc/billing"
	"github.com/dmitrymomot/signup/svc/catalog"
	"github.com/dmitrymomot/signup/svc/content"
)

// Billing is the billing capability the workflow needs.
type Billing interface {
	Subscribe(ctx context.Context, req billing.SubscribeRequest) (*billing.SubscribeResult, error)
	AssertSubscribed(ctx context.Context, email, planID string) (*billing.SubscribeResult, error)
	UpdateCustomerMetadata(ctx context.Context, customerID string, fields map[string]string) (*billing.Customer, error)
	FindCustomer(ctx context.Context, email string) (*billing.Customer, error)
	FindActiveSubscription(ctx context.Context, customerID, planID string) (*billing.Subscription, error)
}

// Content is the content capability the workflow needs.
type Content interface {
	Signup(ctx context.Context, req content.SignupRequest, knownHref string) (*content.SignupResult, error)
	FindCustomer(ctx context.Context, href string) (*content.Customer, error)
}

// Workflow states.
const (
	StateStart     statemachine.StringState = "start"
	StateBilling   statemachine.StringState = "billing"
	StateContent   statemachine.StringState = "content"
	StateReconcile statemachine.StringState = "reconcile"
	StateDone      statemachine.StringState = "done"
	StateFailed    statemachine.StringState = "failed"
)

// Workflow events.
const (
	EventCharge    statemachine.StringEvent = "charge"
	EventProvision statemachine.StringEvent = "provision"
	EventSettle    statemachine.StringEvent = "settle"
	EventComplete  statemachine.StringEvent = "complete"
	EventFail      statemachine.StringEvent = "fail"
)

const (
	DefaultSupportEmail  = "help@brilliantperspectives.com"
	defaultNotifyTimeout = 10 * time.Second
)

// Workflow runs a signup end to end: billing first, then content, then the
// billing-side cross-reference to the content account.
type Workflow struct {
	catalog  *catalog.Catalog
	billing  Billing
	content  Content
	guard    idempotency.Guard
	notifier Notifier
	support  string
	now      func() time.Time
	log      *slog.Logger
}

type Option func(*Workflow)

func WithLogger(l *slog.Logger) Option {
	return func(w *Workflow) {
		if l != nil {
			w.log = l
		}
	}
}

// WithGuard sets the per-email guard. Pass the same guard to the billing and
// content orchestrators.
func WithGuard(g idempotency.Guard) Option {
	return func(w *Workflow) {
		if g != nil {
			w.guard = g
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(w *Workflow) {
		if n != nil {
			w.notifier = n
		}
	}
}

// WithSupportEmail sets the address quoted in provider failure messages.
func WithSupportEmail(addr string) Option {
	return func(w *Workflow) {
		if addr != "" {
			w.support = addr
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(w *Workflow) {
		if now != nil {
			w.now = now
		}
	}
}

// NewWorkflow panics if any dependency is nil.
func NewWorkflow(c *catalog.Catalog, b Billing, ct Content, opts ...Option) *Workflow {
	if c == nil || b == nil || ct == nil {
		panic("signup: catalog, billing and content are required")
	}
	w := &Workflow{
		catalog:  c,
		billing:  b,
		content:  ct,
		guard:    idempotency.NewMemoryGuard(),
		notifier: nopNotifier{},
		support:  DefaultSupportEmail,
		now:      time.Now,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.With(logger.Component("signup"))
	return w
}

func (w *Workflow) newMachine() statemachine.StateMachine {
	isNewCustomer := func(_ context.Context, _ statemachine.State, _ statemachine.Event, data any) bool {
		res, ok := data.(*content.SignupResult)
		return ok && res.IsNewCustomer
	}

	return statemachine.MustNew(StateStart,
		statemachine.WithTransition(StateStart, StateBilling, EventCharge),
		statemachine.WithTransition(StateBilling, StateContent, EventProvision),
		statemachine.WithTransition(StateContent, StateReconcile, EventSettle, statemachine.WithGuard(isNewCustomer)),
		statemachine.WithTransition(StateContent, StateDone, EventSettle),
		statemachine.WithTransition(StateReconcile, StateDone, EventComplete),
		statemachine.WithTransition(StateStart, StateFailed, EventFail),
		statemachine.WithTransition(StateBilling, StateFailed, EventFail),
		statemachine.WithTransition(StateContent, StateFailed, EventFail),
		statemachine.WithFinalStates(StateDone, StateFailed),
		statemachine.WithClock(w.now),
		statemachine.WithObserver(func(ctx context.Context, step statemachine.Step) {
			w.log.DebugContext(ctx, "signup phase changed",
				logger.Phase(step.To.Name()),
				slog.String("from", step.From.Name()),
				logger.Event(step.Event.Name()),
			)
		}),
	)
}

// Run executes one signup. The request is normalized first, keeping its
// Product. Failures are returned as *Error.
func (w *Workflow) Run(ctx context.Context, req Request) (*Result, error) {
	req.Normalize(req.Product)
	r := &run{Workflow: w, req: req, sm: w.newMachine(), started: w.now()}

	if err := req.Validate(); err != nil {
		return nil, r.fail(ctx, newError(KindValidation, validator.ExtractValidationErrors(err).First(), err))
	}
	planID, ok := w.catalog.Resolve(req.Plan)
	if !ok {
		return nil, r.fail(ctx, planNotConfigured(req.Plan))
	}

	w.log.InfoContext(ctx, "signup requested", slog.Any("request", req))

	var result *Result
	err := idempotency.Scope(ctx, w.guard, idempotency.EmailKey(req.Email), func(ctx context.Context) error {
		var err error
		result, err = r.execute(ctx, planID)
		return err
	}, idempotency.OnReleaseError(func(key string, err error) {
		w.log.ErrorContext(ctx, "failed to release signup guard", slog.String("key", key), logger.Error(err))
	}))
	if err != nil {
		var se *Error
		if !errors.As(err, &se) {
			se = billingError(err, w.support)
		}
		return nil, r.fail(ctx, se)
	}

	attrs := []any{
		slog.Any("request", req),
		logger.SubscriptionID(result.BillingSubscription.ID),
		slog.Bool("new_content_customer", result.IsNewCustomer),
		logger.Duration(w.now().Sub(r.started)),
	}
	if result.Degraded() {
		w.log.WarnContext(ctx, "signup complete with warnings", append(attrs, logger.Error(result.CrossReferenceErr))...)
	} else {
		w.log.InfoContext(ctx, "signup complete", attrs...)
	}
	return result, nil
}

type run struct {
	*Workflow
	req     Request
	sm      statemachine.StateMachine
	started time.Time
}

func (r *run) execute(ctx context.Context, planID string) (*Result, error) {
	if err := r.sm.Fire(ctx, EventCharge, nil); err != nil {
		return nil, err
	}
	billed, err := r.bill(ctx, planID)
	if err != nil {
		return nil, billingError(err, r.support)
	}

	if err := r.sm.Fire(ctx, EventProvision, nil); err != nil {
		return nil, err
	}
	provisioned, err := r.content.Signup(ctx, content.SignupRequest{
		Email:          r.req.Email,
		Name:           r.req.Name,
		Password:       r.req.Password,
		Product:        r.req.Product,
		Plan:           r.req.Plan,
		MarketingOptIn: r.req.MarketingOptIn,
	}, billed.Customer.ContentHref())
	if err != nil {
		r.alert(ctx, billed, err)
		return nil, contentError(err, r.support)
	}

	result := &Result{
		BillingCustomer:     billed.Customer,
		BillingSubscription: billed.Subscription,
		ContentCustomer:     provisioned.Customer,
		IsNewCustomer:       provisioned.IsNewCustomer,
		OK:                  true,
	}

	if err := r.sm.Fire(ctx, EventSettle, provisioned); err != nil {
		return nil, err
	}
	if r.sm.Current() == StateReconcile {
		r.reconcile(ctx, result)
		if err := r.sm.Fire(ctx, EventComplete, nil); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *run) bill(ctx context.Context, planID string) (*billing.SubscribeResult, error) {
	if r.req.PrePurchased {
		return r.billing.AssertSubscribed(ctx, r.req.Email, planID)
	}
	return r.billing.Subscribe(ctx, billing.SubscribeRequest{
		Email:          r.req.Email,
		Name:           r.req.Name,
		PaymentToken:   r.req.PaymentToken,
		PlanID:         planID,
		PlanSlug:       r.req.Plan,
		CouponCode:     r.req.CouponCode,
		Product:        r.req.Product,
		MarketingOptIn: r.req.MarketingOptIn,
	})
}

// reconcile stores the new content href on the billing customer. Failure
// leaves the signup successful and is reported on the result.
func (r *run) reconcile(ctx context.Context, result *Result) {
	href := result.ContentCustomer.Href()
	if href == "" {
		result.CrossReferenceErr = ErrMissingContentHref
		result.Warnings = append(result.Warnings, warnCrossReference)
		return
	}

	updated, err := r.billing.UpdateCustomerMetadata(ctx, result.BillingCustomer.ID, map[string]string{
		billing.MetadataContentHref: href,
	})
	if err != nil {
		r.log.WarnContext(ctx, "failed to store content cross-reference",
			logger.Email(r.req.Email),
			logger.CustomerID(result.BillingCustomer.ID),
			logger.ContentHref(href),
			logger.Error(err),
		)
		result.CrossReferenceErr = err
		result.Warnings = append(result.Warnings, warnCrossReference)
		return
	}
	if updated != nil {
		result.BillingCustomer = updated
	}
}

func (r *run) alert(ctx context.Context, billed *billing.SubscribeResult, cause error) {
	if r.req.PrePurchased {
		return
	}
	incident := Incident{
		Email:          r.req.Email,
		Name:           r.req.Name,
		Plan:           r.req.Plan,
		CustomerID:     billed.Customer.ID,
		SubscriptionID: billed.Subscription.ID,
		Cause:          cause.Error(),
		OccurredAt:     r.now(),
	}

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultNotifyTimeout)
	defer cancel()
	if err := r.notifier.ContentProvisioningFailed(nctx, incident); err != nil {
		r.log.ErrorContext(ctx, "failed to alert support", logger.Email(r.req.Email), logger.Error(err))
	}
}

func (r *run) fail(ctx context.Context, se *Error) error {
	phase := r.sm.Current().Name()
	if !r.sm.IsFinal() {
		_ = r.sm.Fire(ctx, EventFail, nil)
	}

	level := slog.LevelWarn
	if se.Kind.Status() >= 500 {
		level = slog.LevelError
	}
	r.log.LogAttrs(ctx, level, "signup failed",
		logger.Email(r.req.Email),
		logger.Plan(r.req.Plan),
		logger.Phase(phase),
		slog.String("kind", string(se.Kind)),
		logger.Error(se.Err),
	)
	return se
}
