package ratelimiter

import "time"

// Result contains the result of a rate limit check.
type Result struct {
	Limit     int       // Maximum tokens (bucket capacity)
	Remaining int       // Tokens remaining; negative when the request was denied
	ResetAt   time.Time // Time when tokens will be refilled
}

// Allowed returns whether the request is allowed based on remaining tokens.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long to wait before the next request.
// Returns 0 if the request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(0, time.Until(r.ResetAt))
}

// Config defines the token bucket configuration.
type Config struct {
	Capacity       int           `env:"SIGNUP_RATE_CAPACITY" envDefault:"5"`         // Burst limit
	RefillRate     int           `env:"SIGNUP_RATE_REFILL" envDefault:"1"`           // Tokens added per interval
	RefillInterval time.Duration `env:"SIGNUP_RATE_INTERVAL" envDefault:"1m"`        // How often tokens are added
	Enabled        bool          `env:"SIGNUP_RATE_ENABLED" envDefault:"true"`
}
