package handler

import (
	"errors"
	"net/http"
)

var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError is an error with a status code and a message safe to show clients.
type HTTPError struct {
	Code    int
	Message string
}

func (e HTTPError) Error() string {
	return e.Message
}

var (
	ErrBadRequest          = HTTPError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrNotFound            = HTTPError{Code: http.StatusNotFound, Message: "Not found"}
	ErrTooManyRequests     = HTTPError{Code: http.StatusTooManyRequests, Message: "Too many requests, please try again later."}
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Message: "An error occurred processing your request"}
)

// NewHTTPError builds an HTTPError with a custom message.
func NewHTTPError(code int, message string) HTTPError {
	return HTTPError{Code: code, Message: message}
}

// PublicError is implemented by domain errors that choose their own status
// code and client-facing message.
type PublicError interface {
	error
	StatusCode() int
	PublicMessage() string
	ErrorKind() string
}
