package handler

import (
	"encoding/json"
	"net/http"
)

type jsonResponse struct {
	status int
	body   any
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures a JSON response.
type JSONOption func(*jsonResponse)

func WithStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		if status > 0 {
			r.status = status
		}
	}
}

// JSON renders v as the response body with status 200 unless overridden.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: v}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   bool   `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// JSONError renders an ErrorBody with the given status.
func JSONError(status int, kind, message string) Response {
	return &jsonResponse{status: status, body: ErrorBody{Error: true, Kind: kind, Message: message}}
}

type textResponse struct {
	status int
	body   string
}

func (t textResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(t.status)
	_, err := w.Write([]byte(t.body))
	return err
}

// Text renders a plain text body with status 200.
func Text(s string) Response {
	return textResponse{status: http.StatusOK, body: s}
}

// Err turns err into a Response that defers to the error handler's
// classification when rendered.
func Err(err error) Response {
	return errResponse{err: err}
}

type errResponse struct{ err error }

func (e errResponse) Render(http.ResponseWriter, *http.Request) error { return e.err }
