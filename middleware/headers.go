package middleware

import (
	"net/http"
	"strings"

	"github.com/jwtgate/jwtgate"
)

// TokenResponseHeaders hands fresh tokens back to authenticated clients:
// X-JWT-Auth carries a new access token minted from a valid
// Refresh-Authorization credential, X-JWT-Refresh a new refresh token
// minted from a valid Authorization credential. The engine suppresses
// both unless the request arrived over TLS or Debug is set.
//
// Access-Control-Expose-Headers is always extended with both header
// names so browser clients can read them cross-origin.
func TokenResponseHeaders(engine *jwtgate.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			exposeTokenHeaders(w.Header())

			if engine != nil {
				access, refresh := engine.ResponseTokens(r.Context(), r)
				if access != "" {
					w.Header().Set(jwtgate.HeaderTokenAuth, access)
				}
				if refresh != "" {
					w.Header().Set(jwtgate.HeaderTokenRefresh, refresh)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func exposeTokenHeaders(h http.Header) {
	const key = "Access-Control-Expose-Headers"

	existing := h.Get(key)
	if existing == "" {
		h.Set(key, jwtgate.HeaderTokenAuth+", "+jwtgate.HeaderTokenRefresh)
		return
	}
	for _, name := range []string{jwtgate.HeaderTokenAuth, jwtgate.HeaderTokenRefresh} {
		if !headerListContains(existing, name) {
			existing += ", " + name
		}
	}
	h.Set(key, existing)
}

func headerListContains(list, name string) bool {
	for _, part := range strings.Split(list, ",") {
		if strings.EqualFold(strings.TrimSpace(part), name) {
			return true
		}
	}
	return false
}
