package auth

import (
	"net/http"
)

// TokenSource yields the access token to present
type TokenSource interface {
	AccessToken() string
}

// BearerTransport adds "Authorization: Bearer <token>" to every request.
// The token is read per request, so a renewal is picked up by replays.
type BearerTransport struct {
	Base   http.RoundTripper
	Tokens TokenSource
}

// RoundTrip implements http.RoundTripper
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	token := t.Tokens.AccessToken()
	if token == "" || req.Header.Get("Authorization") != "" {
		return base.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+token)
	return base.RoundTrip(r)
}
