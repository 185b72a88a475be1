package transport

import "net/http"

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request, key string)
}

// NoAuth implements no authentication. Used for plain document fetches.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request, _ string) {
	// No authentication applied
}

// TokenAuth implements the Readwise token scheme, which is the word
// "Token" rather than "Bearer" in the Authorization header.
type TokenAuth struct{}

// Apply implements the Authenticator interface for TokenAuth.
func (a *TokenAuth) Apply(req *http.Request, key string) {
	if key == "" {
		return
	}
	req.Header.Set("Authorization", "Token "+key)
}
