package billing

import "strings"

// MetadataContentHref is the customer metadata key holding the content
// provider customer href.
const MetadataContentHref = "vhxCustomerHref"

// Customer is a billing provider customer.
type Customer struct {
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ContentHref returns the content provider cross-reference, if any.
func (c *Customer) ContentHref() string {
	if c == nil {
		return ""
	}
	return c.Metadata[MetadataContentHref]
}

// SubscriptionStatus mirrors the provider lifecycle status.
type SubscriptionStatus string

const (
	StatusActive            SubscriptionStatus = "active"
	StatusTrialing          SubscriptionStatus = "trialing"
	StatusPastDue           SubscriptionStatus = "past_due"
	StatusIncomplete        SubscriptionStatus = "incomplete"
	StatusIncompleteExpired SubscriptionStatus = "incomplete_expired"
	StatusUnpaid            SubscriptionStatus = "unpaid"
	StatusPaused            SubscriptionStatus = "paused"
	StatusCanceled          SubscriptionStatus = "canceled"
)

// IsCancelled reports whether the subscription no longer blocks a new
// signup. Both spellings are accepted.
func (s SubscriptionStatus) IsCancelled() bool {
	switch strings.ToLower(string(s)) {
	case "canceled", "cancelled":
		return true
	}
	return false
}

// Subscription is a billing provider subscription.
type Subscription struct {
	ID         string             `json:"id"`
	CustomerID string             `json:"customer"`
	PlanID     string             `json:"plan"`
	Status     SubscriptionStatus `json:"status"`
	CouponID   string             `json:"coupon,omitempty"`
}

// Coupon is a billing provider discount code.
type Coupon struct {
	ID               string  `json:"id"`
	Name             string  `json:"name,omitempty"`
	Valid            bool    `json:"valid"`
	PercentOff       float64 `json:"percent_off,omitempty"`
	AmountOff        int64   `json:"amount_off,omitempty"`
	Currency         string  `json:"currency,omitempty"`
	Duration         string  `json:"duration,omitempty"`
	DurationInMonths int64   `json:"duration_in_months,omitempty"`
}

// Plan is a billing provider recurring price.
type Plan struct {
	ID              string `json:"id"`
	Nickname        string `json:"nickname,omitempty"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Interval        string `json:"interval"`
	IntervalCount   int64  `json:"interval_count"`
	ProductID       string `json:"product,omitempty"`
	TrialPeriodDays int64  `json:"trial_period_days,omitempty"`
}

// SubscribeRequest carries everything the billing phase of a signup needs.
type SubscribeRequest struct {
	Email          string
	Name           string
	PaymentToken   string
	PlanID         string
	PlanSlug       string
	CouponCode     string
	Product        string
	MarketingOptIn bool
}

// CreateSubscriptionParams is the single provider call that starts billing.
type CreateSubscriptionParams struct {
	CustomerID string
	PlanID     string
	CouponID   string
	Metadata   map[string]string
}

// SubscribeResult is the outcome of the billing phase.
type SubscribeResult struct {
	Customer     *Customer
	Subscription *Subscription
	Coupon       *Coupon
}
