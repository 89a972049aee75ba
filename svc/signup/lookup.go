package signup

import (
	"context"
	"errors"

	"github.com/dmitrymomot/signup/svc/billing"
	"github.com/dmitrymomot/signup/svc/content"
)

// Registered reports whether email belongs to a billing customer whose
// content cross-reference still resolves.
func (w *Workflow) Registered(ctx context.Context, email string) (bool, error) {
	customer, err := w.billing.FindCustomer(ctx, email)
	if errors.Is(err, billing.ErrCustomerNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return w.hasContentAccount(ctx, customer)
}

// SubscribedAndRegistered is Registered restricted to buyers holding a
// non-cancelled subscription to planSlug.
func (w *Workflow) SubscribedAndRegistered(ctx context.Context, email, planSlug string) (bool, error) {
	planID, ok := w.catalog.Resolve(planSlug)
	if !ok {
		return false, newError(KindNotFound, msgPlanNotFound, nil)
	}

	customer, err := w.billing.FindCustomer(ctx, email)
	if errors.Is(err, billing.ErrCustomerNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	_, err = w.billing.FindActiveSubscription(ctx, customer.ID, planID)
	if errors.Is(err, billing.ErrSubscriptionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return w.hasContentAccount(ctx, customer)
}

func (w *Workflow) hasContentAccount(ctx context.Context, customer *billing.Customer) (bool, error) {
	href := customer.ContentHref()
	if href == "" {
		return false, nil
	}
	_, err := w.content.FindCustomer(ctx, href)
	if errors.Is(err, content.ErrCustomerNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
