package jwtgate

import (
	"errors"
	"net/http"
	"strings"
)

// Header names of the token protocol. Redirect-Authorization exists for
// deployments where a reverse proxy strips or rewrites the Authorization
// header; Refresh-Authorization carries a refresh token for the
// automatic access-token renewal flow.
const (
	HeaderAuthorization         = "Authorization"
	HeaderRedirectAuthorization = "Redirect-Authorization"
	HeaderRefreshAuthorization  = "Refresh-Authorization"
)

// AuthHeader returns the request's Authorization header value, falling
// back to the Redirect-Authorization variant. Empty when neither is set.
func AuthHeader(r *http.Request) string {
	if r == nil {
		return ""
	}
	if v := r.Header.Get(HeaderAuthorization); v != "" {
		return v
	}
	return r.Header.Get(HeaderRedirectAuthorization)
}

// RefreshHeader returns the request's Refresh-Authorization header value.
func RefreshHeader(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.Header.Get(HeaderRefreshAuthorization)
}

// BearerToken extracts the token from a "Bearer <token>" header value.
func BearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}

// RequestAuthenticator resolves the acting identity of a single inbound
// request from its Authorization header. One instance serves one request;
// the middleware package creates it per request and carries it in the
// request context.
//
// A validation failure never rejects the request outright: the identity
// falls back to whatever it already was (usually anonymous) and the error
// is recorded, to be surfaced once by SurfacePendingError right before
// protected work begins. Anonymous requests are unaffected.
type RequestAuthenticator struct {
	engine  *Engine
	pending error
}

// NewRequestAuthenticator creates an authenticator bound to one request's
// lifetime.
func NewRequestAuthenticator(engine *Engine) *RequestAuthenticator {
	return &RequestAuthenticator{engine: engine}
}

// ResolveCurrentUser validates the request's bearer token and returns the
// resulting user id. With no token present, or on a validation failure,
// existingUserID is passed through unchanged; failures (other than the
// normal no-token outcome) are recorded for SurfacePendingError.
func (a *RequestAuthenticator) ResolveCurrentUser(r *http.Request, existingUserID int64) int64 {
	if a == nil || a.engine == nil {
		return existingUserID
	}

	claims, err := a.engine.ValidateRequest(r.Context(), r, false)
	if err != nil {
		if !errors.Is(err, ErrNoToken) {
			a.pending = err
		}
		return existingUserID
	}

	return claims.UserID()
}

// SurfacePendingError returns the validation error recorded during
// ResolveCurrentUser, or nil. The error is cleared: it surfaces at most
// once per request.
func (a *RequestAuthenticator) SurfacePendingError() error {
	if a == nil {
		return nil
	}
	err := a.pending
	a.pending = nil
	return err
}

// PendingError returns the recorded error without clearing it.
func (a *RequestAuthenticator) PendingError() error {
	if a == nil {
		return nil
	}
	return a.pending
}
