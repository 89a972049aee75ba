// Package binder decodes HTTP request data into typed structs.
//
// Each binder has the signature func(*http.Request, any) error and is meant to
// be passed to handler.WithBinders. JSON reads the body, Query reads URL query
// parameters tagged `query:"..."` and Path reads router parameters tagged
// `path:"..."`. Failures wrap one of the package sentinel errors so the error
// handler can answer with 400 Bad Request.
package binder
