// Package idempotency prevents concurrent processing of the same logical
// operation.
//
// A Guard hands out exclusive slots keyed by an arbitrary string (the signup
// flow uses the normalized email address). TryAcquire fails fast with
// ErrAlreadyPending instead of waiting, so a duplicate request is rejected
// while the first one is still in flight.
//
// Scope runs a function while holding a slot and always releases it, even when
// the function fails or panics. The held lease travels in the context, which
// lets nested phases of one workflow share a single slot:
//
//	err := idempotency.Scope(ctx, guard, email, func(ctx context.Context) error {
//		// billing.Subscribe and content.Signup see the lease and do not
//		// acquire the same key again.
//		return run(ctx)
//	})
//
// TryAcquire returns a token for the acquisition and Release only frees a slot
// still held under that token, so a holder that outlived its slot cannot free
// the next holder's.
//
// MemoryGuard serves a single instance. RedisGuard coordinates several
// instances through SET NX with a TTL that bounds how long a crashed process
// can hold a slot.
package idempotency
