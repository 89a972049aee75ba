package content

import (
	"math"
	"math/rand/v2"
	"time"
)

// Backoff returns the delay before retry number attempt, starting at 1.
type Backoff func(attempt int) time.Duration

// ExponentialBackoff doubles the delay from initial up to max and spreads it
// by ±jitter.
func ExponentialBackoff(initial, max time.Duration, jitter float64) Backoff {
	if initial <= 0 {
		initial = 200 * time.Millisecond
	}
	if max <= 0 {
		max = 5 * time.Second
	}
	return func(attempt int) time.Duration {
		if attempt <= 0 {
			return 0
		}
		interval := float64(initial) * math.Pow(2, float64(attempt-1))
		if jitter > 0 {
			interval *= 1 + (rand.Float64()*2-1)*jitter
		}
		if interval > float64(max) {
			interval = float64(max)
		}
		return time.Duration(interval)
	}
}

// NoBackoff retries immediately.
func NoBackoff(int) time.Duration { return 0 }
