// Package checkout serves the read-only data the checkout form needs before
// a buyer submits: the public client config, plan details and coupon
// lookups. Responses are cached through pkg/cache.
//
//	svc := checkout.NewService(cfg, catalog, billingOrchestrator)
//	checkout.NewHandler(svc, cacheStore, log).Mount(router)
package checkout
