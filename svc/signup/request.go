package signup

import (
	"log/slog"
	"regexp"

	"github.com/dmitrymomot/signup/pkg/logger"
	"github.com/dmitrymomot/signup/pkg/sanitizer"
	"github.com/dmitrymomot/signup/pkg/validator"
	"github.com/dmitrymomot/signup/svc/catalog"
)

// DefaultPlan is used when the form does not name a plan.
const DefaultPlan = catalog.SlugYearly

var (
	namePattern = regexp.MustCompile(`(?i)^[a-z0-9 ]+$`)
	cleanName   = sanitizer.Compose(sanitizer.RemoveControlChars, sanitizer.SingleLine)
)

// Request is the checkout form submission.
type Request struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	Password       string `json:"password"`
	PaymentToken   string `json:"stripeToken"`
	Plan           string `json:"plan"`
	CouponCode     string `json:"couponCode"`
	MarketingOptIn bool   `json:"marketingOptIn"`
	PrePurchased   bool   `json:"prePurchased"`

	// Product is set by the server, never by the client.
	Product string `json:"-"`
}

// Normalize lowercases the email, defaults and canonicalizes the plan slug
// and stamps the content product.
func (r *Request) Normalize(product string) {
	r.Email = sanitizer.Email(r.Email)
	r.Name = cleanName(r.Name)
	r.CouponCode = sanitizer.Trim(r.CouponCode)
	r.Plan = catalog.NormalizeSlug(r.Plan)
	if r.Plan == "" {
		r.Plan = DefaultPlan
	}
	r.Product = product
}

// Validate checks the form fields. The first failure is the one shown to
// the buyer.
func (r Request) Validate() error {
	return validator.Apply(
		validator.RequiredString("email", r.Email).WithMessage("Email missing"),
		validator.ValidEmail("email", r.Email).WithMessage("Email address invalid"),
		validator.RequiredString("name", r.Name).WithMessage("Name missing"),
		validator.Matches("name", r.Name, namePattern, "letters, numbers and spaces").
			WithMessage("Name can contain only letters, numbers, and spaces"),
		validator.RequiredUnless("stripeToken", r.PaymentToken, r.PrePurchased).WithMessage("Stripe token missing"),
	)
}

// LogValue hides credentials from logs.
func (r Request) LogValue() slog.Value {
	attrs := []slog.Attr{
		logger.Email(r.Email),
		slog.String("name", r.Name),
		logger.Plan(r.Plan),
		slog.String("product", r.Product),
		slog.Bool("marketing_opt_in", r.MarketingOptIn),
		slog.Bool("pre_purchased", r.PrePurchased),
		slog.String("password", logger.Redacted),
	}
	if r.CouponCode != "" {
		attrs = append(attrs, slog.String("coupon", r.CouponCode))
	}
	if r.PaymentToken != "" {
		attrs = append(attrs, slog.String("stripeToken", logger.Redacted))
	}
	return slog.GroupValue(attrs...)
}

// LookupRequest is the query for the registration checks.
type LookupRequest struct {
	Email string `query:"email"`
	Plan  string `path:"plan"`
}

func (r *LookupRequest) Normalize() {
	r.Email = sanitizer.Email(r.Email)
	r.Plan = sanitizer.TrimToLower(r.Plan)
}

func (r LookupRequest) Validate() error {
	return validator.Apply(
		validator.RequiredString("email", r.Email).WithMessage("Email not provided"),
		validator.ValidEmail("email", r.Email).WithMessage("Email invalid"),
	)
}
