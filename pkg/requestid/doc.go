// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware reuses a client-supplied X-Request-ID when it is well formed and
// otherwise generates a UUIDv4. The id is stored in the request context,
// echoed back in the response header and injected into logs through
// LoggerExtractor:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r.Use(requestid.Middleware)
package requestid
