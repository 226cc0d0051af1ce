package jwtgate

import (
	"errors"
	"net/http"
)

var (
	// ErrNoToken is the distinguished "anonymous request" outcome: no
	// Authorization header (or raw token) was supplied at all. It is not a
	// validation failure and callers must not surface it as one.
	ErrNoToken = errors.New("no token present")

	// ErrNoSigningKey indicates that no signing key could be resolved from
	// the override hook, the configuration, or the fallback salt. Fatal to
	// the current operation only, never to the process.
	ErrNoSigningKey = errors.New("signing key is not configured")

	// ErrTokenInvalid covers malformed input, a bad MAC, an expired token,
	// and a not-yet-valid token. The underlying cause is wrapped.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrIssuerMismatch indicates the decoded iss claim is not a member of
	// the allowed-issuer set.
	ErrIssuerMismatch = errors.New("token issuer does not match this server")

	// ErrMissingUser indicates a structurally valid token without a user id.
	ErrMissingUser = errors.New("user id not found in token")

	// ErrSecretRevoked indicates the token was structurally valid but the
	// embedded user secret is revoked or no longer matches the stored value.
	// Clients must re-authenticate; refreshing will not help.
	ErrSecretRevoked = errors.New("user secret does not match or has been revoked")

	// ErrPermissionDenied indicates the caller lacks the capability to act
	// on the target user.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidCredentials is returned by Login when the authentication
	// collaborator rejects the credentials. The collaborator's error code is
	// preserved verbatim in the wrapped message.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEngineNotReady indicates the engine was used before Build completed.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// HTTPStatus maps an engine error to the HTTP status the API layer should
// respond with. ErrNoToken maps to 200: an anonymous request is not an
// error. Unknown errors map to 500.
func HTTPStatus(err error) int {
	switch {
	case err == nil, errors.Is(err, ErrNoToken):
		return http.StatusOK
	case errors.Is(err, ErrNoSigningKey):
		return http.StatusForbidden
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrTokenInvalid),
		errors.Is(err, ErrIssuerMismatch),
		errors.Is(err, ErrMissingUser),
		errors.Is(err, ErrSecretRevoked),
		errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
