package jwtgate

import "context"

type actingUserContextKey struct{}
type clientIPContextKey struct{}

// WithActingUser attaches the identity the current request is acting as.
// The engine consults it for the caller-must-own-identity check on token
// issuance. Zero means anonymous.
func WithActingUser(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, actingUserContextKey{}, userID)
}

// ActingUserFromContext returns the acting user id, or zero when the
// request is anonymous.
func ActingUserFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(actingUserContextKey{}).(int64)
	return id
}

// WithClientIP attaches the caller's IP address to ctx. Used for audit
// events only.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}
