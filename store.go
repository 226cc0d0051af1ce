package jwtgate

import "context"

// UserSecretStore persists the single piece of per-user mutable state the
// engine needs: an opaque secret value and a revoked flag. The secret is
// lazily created on first read; rotating it invalidates every refresh
// token issued before the rotation, because validation compares the
// embedded copy against the stored value.
//
// The store owns its own consistency. Each operation touches a single
// user's record; no cross-user coordination is required, and concurrent
// revoke/rotate calls for the same user may race with last-write-wins
// semantics.
type UserSecretStore interface {
	// Secret returns the user's current secret, creating one if none is
	// stored yet. Returns ErrSecretRevoked when the secret is revoked.
	Secret(ctx context.Context, userID int64) (string, error)

	// Rotate unconditionally stores a freshly generated secret and
	// returns it.
	Rotate(ctx context.Context, userID int64) (string, error)

	// SetRevoked flips the revoked flag without touching the secret value.
	SetRevoked(ctx context.Context, userID int64, revoked bool) error

	// IsRevoked reports the revoked flag.
	IsRevoked(ctx context.Context, userID int64) (bool, error)
}
