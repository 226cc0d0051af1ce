package middleware

import (
	"context"
	"net/http"

	"github.com/jwtgate/jwtgate"
)

type requestAuthContextKey struct{}

type userIDContextKey struct{}

// RequestAuthenticatorFromContext returns the per-request authenticator
// placed on the context by [Authenticate], so downstream handlers can
// surface a deferred validation error.
func RequestAuthenticatorFromContext(ctx context.Context) (*jwtgate.RequestAuthenticator, bool) {
	a, ok := ctx.Value(requestAuthContextKey{}).(*jwtgate.RequestAuthenticator)
	return a, ok
}

// CurrentUserID returns the user resolved by [Authenticate], or zero for
// an anonymous request.
func CurrentUserID(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDContextKey{}).(int64)
	return id
}

// Authenticate resolves the current user from the request's bearer
// credential. Requests without a token, and requests whose token fails
// validation, continue anonymously; a validation failure is recorded on
// the request authenticator for handlers that want to surface it.
func Authenticate(engine *jwtgate.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := jwtgate.NewRequestAuthenticator(engine)
			userID := auth.ResolveCurrentUser(r, 0)

			ctx := context.WithValue(r.Context(), requestAuthContextKey{}, auth)
			ctx = context.WithValue(ctx, userIDContextKey{}, userID)
			if userID != 0 {
				ctx = jwtgate.WithActingUser(ctx, userID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser wraps [Authenticate] and rejects requests that do not
// resolve to a user, reporting the recorded validation error's status.
func RequireUser(engine *jwtgate.Engine) func(http.Handler) http.Handler {
	authenticate := Authenticate(engine)
	return func(next http.Handler) http.Handler {
		return authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if CurrentUserID(r.Context()) == 0 {
				status := http.StatusUnauthorized
				if auth, ok := RequestAuthenticatorFromContext(r.Context()); ok {
					if err := auth.PendingError(); err != nil {
						status = jwtgate.HTTPStatus(err)
					}
				}
				http.Error(w, "unauthorized", status)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
