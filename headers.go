package jwtgate

import (
	"context"
	"net/http"
)

// Response header names for token re-issue on authenticated requests.
const (
	HeaderTokenAuth    = "X-JWT-Auth"
	HeaderTokenRefresh = "X-JWT-Refresh"
)

// ResponseTokens inspects the request's credentials and returns fresh
// tokens to hand back in response headers: a new access token minted from
// a valid Refresh-Authorization credential, and a new refresh token
// minted from a valid Authorization credential. Either result may be
// empty when the corresponding credential is absent or does not validate.
//
// Tokens only travel in cleartext response headers when the transport is
// trusted, so issuance is suppressed entirely unless the request arrived
// over TLS or the engine runs with Debug set.
func (e *Engine) ResponseTokens(ctx context.Context, r *http.Request) (access, refresh string) {
	if e == nil || r == nil {
		return "", ""
	}
	if r.TLS == nil && !e.config.Debug {
		return "", ""
	}

	if token, ok := BearerToken(RefreshHeader(r)); ok {
		if claims, err := e.Validate(ctx, token, true); err == nil {
			user := UserRecord{ID: claims.UserID()}
			if signed, err := e.IssueAccessToken(ctx, user, false); err == nil {
				access = signed
				e.metricInc(MetricHeaderTokenIssued)
			}
		}
	}

	if token, ok := BearerToken(AuthHeader(r)); ok {
		if claims, err := e.Validate(ctx, token, false); err == nil {
			user := UserRecord{ID: claims.UserID()}
			// A validated credential is the authorization here.
			issueCtx := WithActingUser(ctx, user.ID)
			if signed, err := e.IssueRefreshToken(issueCtx, user); err == nil {
				refresh = signed
				e.metricInc(MetricHeaderTokenIssued)
			}
		}
	}

	return access, refresh
}
