// Package middleware exposes HTTP middleware adapters for request
// authentication, token response headers, and CORS header emission built
// on top of jwtgate.Engine validation.
//
// # Adapters
//
//   - [Authenticate] — resolves the current user from the Authorization
//     header, anonymous requests pass through untouched.
//   - [RequireUser] — like Authenticate, but rejects requests that do not
//     resolve to a user.
//   - [TokenResponseHeaders] — re-issues tokens in X-JWT-Auth and
//     X-JWT-Refresh response headers for authenticated requests.
//   - [CORSHeaders] — emits Access-Control-Allow-Headers when enabled.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself — all decisions are delegated to
// Engine.Validate.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Touch the secret store (Engine handles I/O).
//   - Make authorization decisions beyond pass/reject from Engine.Validate.
package middleware
