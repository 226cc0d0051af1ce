// Package jwtgate provides a stateless JWT bearer-token lifecycle
// engine: HS256 access and refresh tokens, a per-user revocable secret
// embedded in refresh tokens for O(1) revocation without a blacklist,
// and anonymous pass-through request authentication.
//
// The package is designed for concurrent server workloads: Engine
// methods are safe to call from multiple goroutines after
// initialization through [Builder.Build].
//
// # Architecture boundaries
//
// jwtgate is the public surface. It exposes [Engine], [Builder],
// [Config], the [UserSecretStore] backends, and value types
// (Claims, LoginResult, MetricsSnapshot, etc.). Internal coordination —
// secret generation, audit dispatch — lives under internal/ and is
// never exported.
//
// # What this package must NOT do
//
//   - Store users or passwords; credential verification is delegated to
//     the [Authenticator] collaborator.
//   - Keep per-token server state. Revocation flows through the
//     per-user secret, never a token blacklist.
//   - Perform I/O outside of Engine methods (construction via Builder
//     is allocation-only until Build).
//
// # Performance contract
//
// Validate is the hot path. Access tokens without an embedded secret
// validate without touching the secret store; refresh tokens cost one
// store lookup.
package jwtgate
