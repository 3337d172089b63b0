package api

import (
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// maxCredentialRetries caps how many times one request may be replayed after
// a credential renewal.
const maxCredentialRetries = 1

// Request describes one logical API call. A Request belongs to the caller
// that created it; the only state that changes after creation is the
// credential attempt counter, which only the Coordinator advances.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header

	// Body is JSON-encoded on every send so the request can be replayed.
	Body interface{}

	// ID is sent as X-Request-ID and kept across replays.
	ID string

	credentialAttempts int
}

// NewRequest creates a request descriptor with a fresh request ID
func NewRequest(method, path string, body interface{}) *Request {
	return &Request{
		Method: method,
		Path:   path,
		Body:   body,
		Header: make(http.Header),
		ID:     uuid.NewString(),
	}
}

// Retried reports whether the request has already been replayed after a
// credential renewal.
func (r *Request) Retried() bool {
	return r.credentialAttempts >= maxCredentialRetries
}

// CredentialAttempts returns how many renewal-driven replays were granted.
func (r *Request) CredentialAttempts() int {
	return r.credentialAttempts
}

func (r *Request) markRetried() {
	if r.credentialAttempts < maxCredentialRetries {
		r.credentialAttempts++
	}
}
