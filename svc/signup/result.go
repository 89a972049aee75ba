package signup

import (
	"github.com/dmitrymomot/signup/svc/billing"
	"github.com/dmitrymomot/signup/svc/content"
)

// Result is the outcome of a completed signup.
type Result struct {
	BillingCustomer     *billing.Customer     `json:"billingCustomer"`
	BillingSubscription *billing.Subscription `json:"billingSubscription"`
	ContentCustomer     *content.Customer     `json:"contentCustomer"`
	IsNewCustomer       bool                  `json:"isNewCustomer"`
	OK                  bool                  `json:"ok"`
	Warnings            []string              `json:"warnings,omitempty"`

	// CrossReferenceErr is set when the content href could not be stored on
	// the billing customer. The signup itself succeeded.
	CrossReferenceErr error `json:"-"`
}

// Degraded reports whether the signup succeeded with a follow-up needed.
func (r *Result) Degraded() bool {
	return r != nil && r.CrossReferenceErr != nil
}
