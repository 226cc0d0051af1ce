package middleware

import (
	"net/http"
	"strings"

	"github.com/jwtgate/jwtgate"
)

// CORSHeaders emits Access-Control-Allow-Headers from the engine's CORS
// configuration. A no-op passthrough when the feature is disabled.
func CORSHeaders(engine *jwtgate.Engine) func(http.Handler) http.Handler {
	var allow string
	if engine != nil {
		cfg := engine.Config().CORS
		if cfg.Enabled && len(cfg.AllowHeaders) > 0 {
			allow = strings.Join(cfg.AllowHeaders, ", ")
		}
	}

	return func(next http.Handler) http.Handler {
		if allow == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Headers", allow)
			next.ServeHTTP(w, r)
		})
	}
}
