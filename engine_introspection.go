package jwtgate

import (
	"context"
	"time"
)

// Introspection helpers mirroring the per-user token fields an API layer
// exposes next to a user record. They issue real tokens, so the same
// identity rules apply as for IssueAccessToken and IssueRefreshToken.

// AuthToken returns a fresh access token for user, or an error when the
// acting identity on ctx is not the user.
func (e *Engine) AuthToken(ctx context.Context, user UserRecord) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}
	return e.IssueAccessToken(ctx, user, true)
}

// RefreshToken returns a fresh refresh token for user under the same
// identity rule as AuthToken.
func (e *Engine) RefreshToken(ctx context.Context, user UserRecord) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}
	return e.IssueRefreshToken(ctx, user)
}

// TokenExpiration reports when an access token issued now would expire.
func (e *Engine) TokenExpiration() time.Time {
	if e == nil {
		return time.Time{}
	}
	return e.now().Add(e.accessTTL())
}
