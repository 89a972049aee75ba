package idempotency

import "errors"

var (
	ErrAlreadyPending = errors.New("idempotency: operation already pending")
	ErrEmptyKey       = errors.New("idempotency: empty key")
	ErrGuardFailure   = errors.New("idempotency: guard backend failure")
)
