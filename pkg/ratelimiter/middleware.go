package ratelimiter

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/signup/pkg/logger"
)

// KeyFunc extracts a rate limit key from the request.
type KeyFunc func(r *http.Request) string

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	log  *slog.Logger
	deny http.Handler
}

func WithLogger(l *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// WithDenyHandler replaces the default plain-text 429 response.
func WithDenyHandler(h http.Handler) MiddlewareOption {
	return func(c *middlewareConfig) {
		if h != nil {
			c.deny = h
		}
	}
}

// Middleware limits requests per key. Requests with an empty key and requests
// hitting a failing store are let through and logged.
func Middleware(tb *Bucket, keyFunc KeyFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		log: logger.Discard(),
		deny: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		}),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := tb.Allow(ctx, key)
			if err != nil {
				cfg.log.WarnContext(ctx, "rate limit check failed, allowing request", logger.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed() {
				if retryAfter := int(result.RetryAfter().Seconds()); retryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				}
				cfg.log.InfoContext(ctx, "rate limit exceeded", slog.String("key", key))
				cfg.deny.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
