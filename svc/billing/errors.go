package billing

import (
	"errors"
	"fmt"
)

var (
	ErrCustomerNotFound      = errors.New("billing: customer not found")
	ErrSubscriptionNotFound  = errors.New("billing: subscription not found")
	ErrDuplicateSubscription = errors.New("billing: customer already subscribed to plan")
	ErrCouponNotFound        = errors.New("billing: coupon not found")
	ErrPaymentDeclined       = errors.New("billing: payment declined")
	ErrPlanNotFound          = errors.New("billing: plan not found")
	ErrProvider              = errors.New("billing: provider failure")
	ErrMissingAPIKey         = errors.New("billing: provider API key is required")
)

// ErrorKind classifies provider failures.
type ErrorKind string

const (
	KindCard           ErrorKind = "card"
	KindNotFound       ErrorKind = "not_found"
	KindInvalidRequest ErrorKind = "invalid_request"
	KindAuthentication ErrorKind = "authentication"
	KindRateLimit      ErrorKind = "rate_limit"
	KindConnection     ErrorKind = "connection"
	KindAPI            ErrorKind = "api"
)

// ProviderError is the normalized form of a billing provider failure.
type ProviderError struct {
	Kind       ErrorKind
	Op         string
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("billing %s: %s (%s): %s", e.Op, e.Kind, e.Code, msg)
	}
	return fmt.Sprintf("billing %s: %s: %s", e.Op, e.Kind, msg)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// KindOf returns the provider error kind carried by err, or "".
func KindOf(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// IsNotFound reports whether err means the looked-up object does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) || KindOf(err) == KindNotFound
}

// DeclineMessage returns the provider's explanation of a card decline.
func DeclineMessage(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Kind == KindCard {
		return pe.Message
	}
	return ""
}
