// Package ratelimiter provides token bucket rate limiting with HTTP middleware.
//
// A Bucket allows bursts up to Capacity and refills RefillRate tokens every
// RefillInterval. State lives in a Store: MemoryStore for a single instance or
// RedisStore, which runs the refill-and-consume step as one Lua script, when
// several instances share limits. Denied requests do not consume tokens.
//
//	bucket, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
//		Capacity:       5,
//		RefillRate:     1,
//		RefillInterval: time.Minute,
//	})
//	r.With(ratelimiter.Middleware(bucket, resolver.KeyFunc)).Post("/signup", h)
//
// The middleware sets X-RateLimit-* headers plus Retry-After on denial.
package ratelimiter
