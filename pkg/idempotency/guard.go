package idempotency

import (
	"context"

	"github.com/dmitrymomot/signup/pkg/sanitizer"
)

// Guard grants at most one holder per key at any time.
type Guard interface {
	// TryAcquire claims key or returns ErrAlreadyPending when it is held.
	// The returned token identifies this acquisition.
	TryAcquire(ctx context.Context, key string) (token string, err error)
	// Release frees key when it is still held under token. Releasing a key
	// that is not held, or is held under another token, is a no-op.
	Release(ctx context.Context, key, token string) error
}

// EmailKey normalizes an email address into a guard key.
func EmailKey(email string) string {
	return sanitizer.Email(email)
}

type leaseKey struct{}

type leases map[string]struct{}

// WithLease marks key as held by the caller for the lifetime of ctx.
func WithLease(ctx context.Context, key string) context.Context {
	prev, _ := ctx.Value(leaseKey{}).(leases)
	next := make(leases, len(prev)+1)
	for k := range prev {
		next[k] = struct{}{}
	}
	next[key] = struct{}{}
	return context.WithValue(ctx, leaseKey{}, next)
}

// Holds reports whether ctx carries a lease for key.
func Holds(ctx context.Context, key string) bool {
	l, _ := ctx.Value(leaseKey{}).(leases)
	_, ok := l[key]
	return ok
}

// ScopeOption configures Scope.
type ScopeOption func(*scopeConfig)

type scopeConfig struct {
	onReleaseError func(key string, err error)
}

// OnReleaseError registers a callback for release failures. Release errors
// never replace the result of fn.
func OnReleaseError(fn func(key string, err error)) ScopeOption {
	return func(c *scopeConfig) { c.onReleaseError = fn }
}

// Scope acquires key, runs fn and releases key on every exit path.
// When ctx already holds a lease for key, fn runs without acquiring again.
func Scope(ctx context.Context, g Guard, key string, fn func(ctx context.Context) error, opts ...ScopeOption) (err error) {
	if key == "" {
		return ErrEmptyKey
	}
	if Holds(ctx, key) {
		return fn(ctx)
	}

	cfg := &scopeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	token, err := g.TryAcquire(ctx, key)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := g.Release(context.WithoutCancel(ctx), key, token); rerr != nil && cfg.onReleaseError != nil {
			cfg.onReleaseError(key, rerr)
		}
	}()

	return fn(WithLease(ctx, key))
}
