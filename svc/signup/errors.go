package signup

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/signup/pkg/idempotency"
	"github.com/dmitrymomot/signup/svc/billing"
)

// ErrMissingContentHref means the content provider returned a customer
// without a self link.
var ErrMissingContentHref = errors.New("signup: content customer has no href")

const warnCrossReference = "content account was created but could not be linked to the billing customer"

// Kind classifies a failed signup for clients and logs.
type Kind string

const (
	KindValidation            Kind = "validation"
	KindNotFound              Kind = "not_found"
	KindAlreadyPending        Kind = "already_pending"
	KindDuplicateSubscription Kind = "duplicate_subscription"
	KindCouponNotFound        Kind = "coupon_not_found"
	KindPaymentDeclined       Kind = "payment_declined"
	KindNotSubscribed         Kind = "not_subscribed"
	KindBillingProvider       Kind = "billing_provider"
	KindContentProvider       Kind = "content_provider"
)

// Status returns the HTTP status for k.
func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindBillingProvider, KindContentProvider:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

const (
	msgAlreadyPending        = "Please wait, request to signup was already sent and is being processed. You won't be charged twice for registration."
	msgDuplicateSubscription = "You must have been already subscribed, payment declined. Please proceed to login page or contact customer support."
	msgNotSubscribed         = "Subscription not found by this email address, please make sure it's valid or contact customer support."
	msgCouponNotFound        = "Coupon not found"
	msgPlanNotFound          = "Plan not found"
	msgCardDeclined          = "Your card was declined."
	msgBillingProvider       = "Failed to register new user, credit card was not charged. Please contact customer support at %s."
	msgContentProvider       = "Failed to register user, please contact customer support at %s."
)

// Error is a classified signup failure. Message is safe to show the buyer.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("signup %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("signup %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) StatusCode() int       { return e.Kind.Status() }
func (e *Error) PublicMessage() string { return e.Message }
func (e *Error) ErrorKind() string     { return string(e.Kind) }

// KindOf returns the kind carried by err, or "".
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func planNotConfigured(slug string) *Error {
	return newError(KindValidation, fmt.Sprintf("plan %s is not configured", slug), nil)
}

// billingError maps a billing phase failure. Nothing was charged unless the
// subscription was created, which is the last billing call.
func billingError(err error, support string) *Error {
	switch {
	case errors.Is(err, idempotency.ErrAlreadyPending):
		return newError(KindAlreadyPending, msgAlreadyPending, err)
	case errors.Is(err, billing.ErrDuplicateSubscription):
		return newError(KindDuplicateSubscription, msgDuplicateSubscription, err)
	case errors.Is(err, billing.ErrCouponNotFound):
		return newError(KindCouponNotFound, msgCouponNotFound, err)
	case errors.Is(err, billing.ErrPaymentDeclined):
		msg := billing.DeclineMessage(err)
		if msg == "" {
			msg = msgCardDeclined
		}
		return newError(KindPaymentDeclined, msg, err)
	case errors.Is(err, billing.ErrSubscriptionNotFound):
		return newError(KindNotSubscribed, msgNotSubscribed, err)
	default:
		return newError(KindBillingProvider, fmt.Sprintf(msgBillingProvider, support), err)
	}
}

// contentError maps a content phase failure. Billing has already succeeded.
func contentError(err error, support string) *Error {
	if errors.Is(err, idempotency.ErrAlreadyPending) {
		return newError(KindAlreadyPending, msgAlreadyPending, err)
	}
	return newError(KindContentProvider, fmt.Sprintf(msgContentProvider, support), err)
}
