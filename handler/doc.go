// Package handler adapts typed request handlers to net/http.
//
// Wrap binds the request into R with the configured binders, calls the
// HandlerFunc and renders its Response. Anything that goes wrong along the way
// reaches a single ErrorHandler. NewErrorHandler classifies errors (domain
// PublicError values, validation failures, binder errors and HTTPError) and
// writes the JSON error body used across the API.
package handler
