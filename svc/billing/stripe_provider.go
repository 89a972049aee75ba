package billing

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeConfig holds Stripe credentials.
type StripeConfig struct {
	SecretKey      string `env:"STRIPE_SECRET_KEY,required"`
	PublishableKey string `env:"STRIPE_PUBLISHABLE_KEY"`
	MaxRetries     int64  `env:"STRIPE_MAX_NETWORK_RETRIES" envDefault:"2"`
}

// StripeProvider implements Provider on the Stripe API.
type StripeProvider struct {
	sc *client.API
}

const stripeDefaultTimeout = 30 * time.Second

// StripeOption configures a StripeProvider.
type StripeOption func(*stripeOptions)

type stripeOptions struct {
	url        string
	httpClient *http.Client
}

// WithStripeURL points the API backend at url. Used to talk to stripe-mock
// or a test server.
func WithStripeURL(url string) StripeOption {
	return func(o *stripeOptions) { o.url = url }
}

func WithStripeHTTPClient(c *http.Client) StripeOption {
	return func(o *stripeOptions) { o.httpClient = c }
}

// NewStripeProvider creates a Stripe-backed Provider.
func NewStripeProvider(cfg StripeConfig, opts ...StripeOption) (*StripeProvider, error) {
	if cfg.SecretKey == "" {
		return nil, ErrMissingAPIKey
	}

	o := &stripeOptions{httpClient: &http.Client{Timeout: stripeDefaultTimeout}}
	for _, opt := range opts {
		opt(o)
	}

	backendCfg := &stripe.BackendConfig{
		HTTPClient:        o.httpClient,
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
		MaxNetworkRetries: stripe.Int64(cfg.MaxRetries),
	}
	if o.url != "" {
		backendCfg.URL = stripe.String(o.url)
	}
	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendCfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendCfg),
	}

	return &StripeProvider{sc: client.New(cfg.SecretKey, backends)}, nil
}

func (p *StripeProvider) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	params := &stripe.CustomerListParams{
		ListParams: stripe.ListParams{Context: ctx, Limit: stripe.Int64(1)},
		Email:      stripe.String(email),
	}
	iter := p.sc.Customers.List(params)
	if iter.Next() {
		return customerFromStripe(iter.Customer()), nil
	}
	if err := iter.Err(); err != nil {
		return nil, translateError("list_customers", err)
	}
	return nil, ErrCustomerNotFound
}

func (p *StripeProvider) CreateCustomer(ctx context.Context, email, name string) (*Customer, error) {
	c, err := p.sc.Customers.New(&stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Email:  stripe.String(email),
		Name:   stripe.String(name),
	})
	if err != nil {
		return nil, translateError("create_customer", err)
	}
	return customerFromStripe(c), nil
}

func (p *StripeProvider) UpdateCustomerMetadata(ctx context.Context, customerID string, fields map[string]string) (*Customer, error) {
	params := &stripe.CustomerParams{Params: stripe.Params{Context: ctx}}
	for k, v := range fields {
		params.AddMetadata(k, v)
	}
	c, err := p.sc.Customers.Update(customerID, params)
	if err != nil {
		return nil, translateError("update_customer", err)
	}
	return customerFromStripe(c), nil
}

func (p *StripeProvider) AttachSource(ctx context.Context, customerID, token string) error {
	_, err := p.sc.Customers.Update(customerID, &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Source: stripe.String(token),
	})
	if err != nil {
		return translateError("attach_source", err)
	}
	return nil
}

func (p *StripeProvider) ListSubscriptions(ctx context.Context, customerID, planID string) ([]Subscription, error) {
	iter := p.sc.Subscriptions.List(&stripe.SubscriptionListParams{
		ListParams: stripe.ListParams{Context: ctx},
		Customer:   stripe.String(customerID),
		Price:      stripe.String(planID),
		Status:     stripe.String("all"),
	})

	var out []Subscription
	for iter.Next() {
		out = append(out, subscriptionFromStripe(iter.Subscription()))
	}
	if err := iter.Err(); err != nil {
		return nil, translateError("list_subscriptions", err)
	}
	return out, nil
}

func (p *StripeProvider) CreateSubscription(ctx context.Context, params CreateSubscriptionParams) (*Subscription, error) {
	sp := &stripe.SubscriptionParams{
		Params:           stripe.Params{Context: ctx},
		Customer:         stripe.String(params.CustomerID),
		CollectionMethod: stripe.String(string(stripe.SubscriptionCollectionMethodChargeAutomatically)),
		Items: []*stripe.SubscriptionItemsParams{{
			Price:    stripe.String(params.PlanID),
			Metadata: params.Metadata,
		}},
	}
	if params.CouponID != "" {
		sp.Coupon = stripe.String(params.CouponID)
	}

	s, err := p.sc.Subscriptions.New(sp)
	if err != nil {
		return nil, translateError("create_subscription", err)
	}
	sub := subscriptionFromStripe(s)
	if sub.PlanID == "" {
		sub.PlanID = params.PlanID
	}
	if sub.CouponID == "" {
		sub.CouponID = params.CouponID
	}
	return &sub, nil
}

func (p *StripeProvider) GetCoupon(ctx context.Context, code string) (*Coupon, error) {
	c, err := p.sc.Coupons.Get(code, &stripe.CouponParams{Params: stripe.Params{Context: ctx}})
	if err != nil {
		return nil, translateError("get_coupon", err)
	}
	return &Coupon{
		ID:               c.ID,
		Name:             c.Name,
		Valid:            c.Valid,
		PercentOff:       c.PercentOff,
		AmountOff:        c.AmountOff,
		Currency:         string(c.Currency),
		Duration:         string(c.Duration),
		DurationInMonths: c.DurationInMonths,
	}, nil
}

func (p *StripeProvider) GetPlan(ctx context.Context, planID string) (*Plan, error) {
	pl, err := p.sc.Plans.Get(planID, &stripe.PlanParams{Params: stripe.Params{Context: ctx}})
	if err != nil {
		return nil, translateError("get_plan", err)
	}
	plan := &Plan{
		ID:              pl.ID,
		Nickname:        pl.Nickname,
		Amount:          pl.Amount,
		Currency:        string(pl.Currency),
		Interval:        string(pl.Interval),
		IntervalCount:   pl.IntervalCount,
		TrialPeriodDays: pl.TrialPeriodDays,
	}
	if pl.Product != nil {
		plan.ProductID = pl.Product.ID
	}
	return plan, nil
}

func customerFromStripe(c *stripe.Customer) *Customer {
	out := &Customer{
		ID:       c.ID,
		Email:    c.Email,
		Name:     c.Name,
		Metadata: make(map[string]string, len(c.Metadata)),
	}
	for k, v := range c.Metadata {
		out.Metadata[k] = v
	}
	return out
}

func subscriptionFromStripe(s *stripe.Subscription) Subscription {
	out := Subscription{
		ID:     s.ID,
		Status: SubscriptionStatus(s.Status),
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	if s.Items != nil {
		for _, item := range s.Items.Data {
			if item != nil && item.Price != nil {
				out.PlanID = item.Price.ID
				break
			}
		}
	}
	if s.Discount != nil && s.Discount.Coupon != nil {
		out.CouponID = s.Discount.Coupon.ID
	}
	return out
}

// translateError is the single place Stripe SDK errors become ProviderError.
func translateError(op string, err error) error {
	pe := &ProviderError{Op: op, Kind: KindAPI, Err: err}

	var se *stripe.Error
	if !errors.As(err, &se) {
		pe.Kind = KindConnection
		pe.Message = err.Error()
		return pe
	}

	pe.StatusCode = se.HTTPStatusCode
	pe.Code = string(se.Code)
	pe.Message = se.Msg

	switch {
	case se.Type == stripe.ErrorTypeCard:
		pe.Kind = KindCard
	case se.HTTPStatusCode == http.StatusNotFound || se.Code == stripe.ErrorCodeResourceMissing:
		pe.Kind = KindNotFound
	case se.HTTPStatusCode == http.StatusUnauthorized || se.HTTPStatusCode == http.StatusForbidden:
		pe.Kind = KindAuthentication
	case se.HTTPStatusCode == http.StatusTooManyRequests:
		pe.Kind = KindRateLimit
	case se.Type == stripe.ErrorTypeInvalidRequest:
		pe.Kind = KindInvalidRequest
	}
	return pe
}
