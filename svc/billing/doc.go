// Package billing drives the paid side of a signup against a billing
// provider.
//
// The Orchestrator owns the order of provider calls and the business rules
// around them: customers are matched by email across several casings, a
// non-cancelled subscription to the same plan blocks a repeat purchase,
// card failures are reported as declines with the provider's message, and
// coupon codes are matched case-insensitively. Provider access sits behind
// the Provider interface; StripeProvider implements it on stripe-go and
// funnels every SDK error through one translation into *ProviderError.
//
//	provider, err := billing.NewStripeProvider(billing.StripeConfig{SecretKey: key})
//	orch := billing.NewOrchestrator(provider, billing.WithGuard(guard), billing.WithLogger(log))
//	res, err := orch.Subscribe(ctx, billing.SubscribeRequest{...})
//
// Subscribe runs inside idempotency.Scope keyed by the lowercased email, so a
// caller that already holds the lease for that email does not block itself.
package billing
