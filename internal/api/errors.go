package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrAuthExpired is returned when the access credential could not be renewed,
// or a request was still unauthorized after its replay. It is terminal: the
// user has to sign in again.
var ErrAuthExpired = errors.New("authentication expired")

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Message string `json:"message"`
}

// RequestFailedError is any non-auth failure: an unexpected HTTP status or a
// transport error. StatusCode is zero for transport errors.
type RequestFailedError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestFailedError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

func (e *RequestFailedError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if the error is a not found error
func (e *RequestFailedError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsForbidden checks if the error is a forbidden error
func (e *RequestFailedError) IsForbidden() bool {
	return e.StatusCode == http.StatusForbidden
}

// IsAuthExpired reports whether err means the session is gone
func IsAuthExpired(err error) bool {
	return errors.Is(err, ErrAuthExpired)
}
