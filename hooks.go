package jwtgate

import (
	"context"
	"time"
)

// BeforeSignHook mutates the claims of a token immediately before signing.
// Deployments use it to add custom claims or adjust timestamps. The
// default is a no-op.
type BeforeSignHook func(claims *Claims, user UserRecord)

// SignedTokenHook inspects the signed token string after signing and may
// veto issuance by returning an empty string or an error. It runs after
// the engine's built-in revoked-secret veto. The default is a no-op
// pass-through.
type SignedTokenHook func(ctx context.Context, token string, userID int64) (string, error)

// TTLHook overrides a token lifetime per issuance. The defaults return
// the configured AccessTTL (5 minutes) and RefreshTTL (365 days).
type TTLHook func() time.Duration

// IssuerAllowListHook returns the set of iss values accepted at
// validation time. The default returns the configured allow-list, or the
// single configured issuer when no list is set.
type IssuerAllowListHook func() []string

// NotBeforeHook computes the nbf claim for a token. The default returns
// the issuance timestamp unchanged.
type NotBeforeHook func(issued time.Time, user UserRecord) time.Time

// Hooks bundles the engine extension points. Any field may be nil; nil
// fields use the documented defaults.
type Hooks struct {
	BeforeSign     BeforeSignHook
	SignedToken    SignedTokenHook
	AccessTTL      TTLHook
	RefreshTTL     TTLHook
	AllowedIssuers IssuerAllowListHook
	NotBefore      NotBeforeHook
}
