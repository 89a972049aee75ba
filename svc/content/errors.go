package content

import (
	"errors"
	"fmt"
)

var (
	ErrCustomerNotFound = errors.New("content: customer not found")
	ErrInvalidHref      = errors.New("content: invalid customer href")
	ErrProvider         = errors.New("content: provider failure")
	ErrMissingAPIKey    = errors.New("content: provider API key is required")
	ErrInvalidBaseURL   = errors.New("content: invalid provider base URL")
	ErrDecodeResponse   = errors.New("content: failed to decode provider response")
)

// APIError is a non-2xx answer from the content provider.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("content %s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("content %s: status %d: %s", e.Op, e.StatusCode, e.Message)
}

// Temporary reports whether retrying the same request may succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
