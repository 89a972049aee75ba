// Package clientip resolves the originating client address of an HTTP request.
//
// A Resolver trusts a fixed, ordered list of proxy headers and falls back to
// RemoteAddr. Only configure headers that the fronting proxy overwrites,
// otherwise clients can choose their own address:
//
//	res := clientip.NewResolver(clientip.DefaultHeaders...)
//	r.Use(res.Middleware)
//	limiter := ratelimiter.Middleware(bucket, res.KeyFunc)
package clientip
