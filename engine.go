package jwtgate

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"time"

	internalaudit "github.com/jwtgate/jwtgate/internal/audit"
)

// Engine is the token lifecycle core. It issues access and refresh
// tokens, validates either, and orchestrates revocation, unrevocation,
// and rotation of the per-user secret that gates refresh tokens.
//
// An Engine is built once via Builder.Build and is immutable and safe for
// concurrent use afterwards. The only shared mutable state it touches is
// the UserSecretStore, and that only for the single storage round trip
// each operation needs.
type Engine struct {
	config        Config
	keys          *KeyResolver
	codec         *ClaimsCodec
	secrets       UserSecretStore
	authenticator Authenticator
	hooks         Hooks
	audit         *internalaudit.Dispatcher
	metrics       *Metrics
	now           func() time.Time
}

// Close flushes and stops the audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	if e == nil {
		return Config{}
	}
	return cloneConfig(e.config)
}

// AuditDropped reports how many audit events were discarded due to a full
// dispatcher buffer.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all engine metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) accessTTL() time.Duration {
	if e.hooks.AccessTTL != nil {
		if ttl := e.hooks.AccessTTL(); ttl > 0 {
			return ttl
		}
	}
	return e.config.Token.AccessTTL
}

func (e *Engine) refreshTTL() time.Duration {
	if e.hooks.RefreshTTL != nil {
		if ttl := e.hooks.RefreshTTL(); ttl > 0 {
			return ttl
		}
	}
	return e.config.Token.RefreshTTL
}

func (e *Engine) allowedIssuers() []string {
	if e.hooks.AllowedIssuers != nil {
		if issuers := e.hooks.AllowedIssuers(); len(issuers) > 0 {
			return issuers
		}
	}
	if len(e.config.Token.AllowedIssuers) > 0 {
		return e.config.Token.AllowedIssuers
	}
	return []string{e.config.Token.Issuer}
}

// IssueAccessToken signs a short-lived access token for user. When
// capCheck is true the acting identity on ctx must equal user.ID; this is
// the "only the user requesting a token can get one issued for them"
// rule. Flows where a validated refresh token is itself the
// authorization pass capCheck=false.
func (e *Engine) IssueAccessToken(ctx context.Context, user UserRecord, capCheck bool) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}
	token, err := e.issueAccessTokenAt(ctx, user, capCheck, e.now())
	if err != nil {
		return "", err
	}
	return token, nil
}

// IssueRefreshToken signs a long-lived refresh token for user with the
// user's current secret embedded. Fails with ErrSecretRevoked when the
// secret is revoked.
func (e *Engine) IssueRefreshToken(ctx context.Context, user UserRecord) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}
	return e.issueRefreshTokenAt(ctx, user, true, e.now())
}

// IssueTokenPair signs an access and a refresh token sharing a single
// issued-at timestamp, as returned to a freshly authenticated user.
func (e *Engine) IssueTokenPair(ctx context.Context, user UserRecord) (access, refresh string, err error) {
	if e == nil {
		return "", "", ErrEngineNotReady
	}

	at := e.now()
	access, err = e.issueAccessTokenAt(ctx, user, true, at)
	if err != nil {
		return "", "", err
	}
	refresh, err = e.issueRefreshTokenAt(ctx, user, true, at)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (e *Engine) issueAccessTokenAt(ctx context.Context, user UserRecord, capCheck bool, at time.Time) (string, error) {
	if err := e.checkIssueIdentity(ctx, user, capCheck); err != nil {
		return "", err
	}

	claims := e.buildClaims(user, at, e.accessTTL())

	token, err := e.signClaims(ctx, claims, user)
	if err != nil {
		return "", err
	}

	e.metricInc(MetricAccessIssued)
	e.emitAudit(ctx, auditEventAccessIssued, true, user.ID, nil, nil)
	return token, nil
}

func (e *Engine) issueRefreshTokenAt(ctx context.Context, user UserRecord, capCheck bool, at time.Time) (string, error) {
	if err := e.checkIssueIdentity(ctx, user, capCheck); err != nil {
		return "", err
	}

	secret, err := e.secrets.Secret(ctx, user.ID)
	if err != nil {
		if errors.Is(err, ErrSecretRevoked) {
			e.metricInc(MetricIssueRevoked)
		}
		e.emitAudit(ctx, auditEventIssueDenied, false, user.ID, err, nil)
		return "", err
	}

	claims := e.buildClaims(user, at, e.refreshTTL())
	claims.Data.User.UserSecret = secret

	token, err := e.signClaims(ctx, claims, user)
	if err != nil {
		return "", err
	}

	e.metricInc(MetricRefreshIssued)
	e.emitAudit(ctx, auditEventRefreshIssued, true, user.ID, nil, nil)
	return token, nil
}

func (e *Engine) checkIssueIdentity(ctx context.Context, user UserRecord, capCheck bool) error {
	if user.ID == 0 || (capCheck && ActingUserFromContext(ctx) != user.ID) {
		e.metricInc(MetricIssueDenied)
		e.emitAudit(ctx, auditEventIssueDenied, false, user.ID, ErrPermissionDenied, nil)
		return ErrPermissionDenied
	}
	return nil
}

func (e *Engine) buildClaims(user UserRecord, at time.Time, ttl time.Duration) *Claims {
	nbf := at
	if e.hooks.NotBefore != nil {
		nbf = e.hooks.NotBefore(at, user)
	}

	claims := newClaims(e.config.Token.Issuer, user.ID, at, nbf, at.Add(ttl))
	return claims
}

func (e *Engine) signClaims(ctx context.Context, claims *Claims, user UserRecord) (string, error) {
	if e.hooks.BeforeSign != nil {
		e.hooks.BeforeSign(claims, user)
	}

	key, err := e.keys.Resolve()
	if err != nil {
		e.emitAudit(ctx, auditEventIssueDenied, false, user.ID, err, nil)
		return "", err
	}

	token, err := e.codec.Encode(claims, key)
	if err != nil {
		return "", err
	}

	// Built-in veto: never hand out a token for a revoked user.
	revoked, err := e.secrets.IsRevoked(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if revoked {
		e.metricInc(MetricIssueRevoked)
		e.emitAudit(ctx, auditEventIssueDenied, false, user.ID, ErrSecretRevoked, nil)
		return "", ErrSecretRevoked
	}

	if e.hooks.SignedToken != nil {
		token, err = e.hooks.SignedToken(ctx, token, user.ID)
		if err != nil {
			e.emitAudit(ctx, auditEventIssueDenied, false, user.ID, err, nil)
			return "", err
		}
		if token == "" {
			e.metricInc(MetricIssueRevoked)
			e.emitAudit(ctx, auditEventIssueDenied, false, user.ID, ErrSecretRevoked, nil)
			return "", ErrSecretRevoked
		}
	}

	return token, nil
}

// Validate verifies a raw token and returns its claims. The gates run in
// a fixed order and each one fails the whole operation: signing key,
// MAC/shape/expiry decode, issuer membership, user id presence, and, for
// claims embedding a user secret, equality with the stored non-revoked
// secret.
//
// An empty rawToken yields ErrNoToken: the anonymous outcome, distinct
// from every failure.
func (e *Engine) Validate(ctx context.Context, rawToken string, isRefresh bool) (*Claims, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	start := e.now()
	claims, err := e.validate(ctx, rawToken, isRefresh)
	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(MetricValidateLatency, e.now().Sub(start))
	}
	return claims, err
}

// ValidateRequest extracts the bearer token from r's Authorization header
// (or its Redirect-Authorization variant) and validates it. A request
// without either header yields ErrNoToken.
func (e *Engine) ValidateRequest(ctx context.Context, r *http.Request, isRefresh bool) (*Claims, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	token, _ := BearerToken(AuthHeader(r))
	return e.Validate(ctx, token, isRefresh)
}

func (e *Engine) validate(ctx context.Context, rawToken string, isRefresh bool) (*Claims, error) {
	if rawToken == "" {
		e.metricInc(MetricValidateNoToken)
		return nil, ErrNoToken
	}

	key, err := e.keys.Resolve()
	if err != nil {
		return nil, e.validateFailed(ctx, 0, isRefresh, err)
	}

	claims, err := e.codec.Decode(rawToken, key)
	if err != nil {
		e.metricInc(MetricValidateInvalid)
		return nil, e.validateFailed(ctx, 0, isRefresh, err)
	}

	issuer, _ := claims.GetIssuer()
	if !issuerAllowed(issuer, e.allowedIssuers()) {
		e.metricInc(MetricValidateIssuerMismatch)
		return nil, e.validateFailed(ctx, claims.UserID(), isRefresh, ErrIssuerMismatch)
	}

	userID := claims.UserID()
	if userID <= 0 {
		e.metricInc(MetricValidateMissingUser)
		return nil, e.validateFailed(ctx, 0, isRefresh, ErrMissingUser)
	}

	if isRefresh && !claims.HasUserSecret() {
		// A refresh exchange requires a refresh-shaped token; an access
		// token must not stand in for one.
		e.metricInc(MetricValidateInvalid)
		return nil, e.validateFailed(ctx, userID, isRefresh, ErrTokenInvalid)
	}

	if claims.HasUserSecret() {
		stored, err := e.secrets.Secret(ctx, userID)
		if err != nil {
			if !errors.Is(err, ErrSecretRevoked) {
				return nil, e.validateFailed(ctx, userID, isRefresh, err)
			}
			e.metricInc(MetricValidateRevoked)
			return nil, e.validateFailed(ctx, userID, isRefresh, ErrSecretRevoked)
		}
		if subtle.ConstantTimeCompare([]byte(stored), []byte(claims.Data.User.UserSecret)) != 1 {
			e.metricInc(MetricValidateRevoked)
			return nil, e.validateFailed(ctx, userID, isRefresh, ErrSecretRevoked)
		}
	}

	e.metricInc(MetricValidateSuccess)
	return claims, nil
}

func (e *Engine) validateFailed(ctx context.Context, userID int64, isRefresh bool, err error) error {
	event := auditEventValidateFailure
	if isRefresh {
		event = auditEventRefreshInvalid
		e.metricInc(MetricRefreshFailure)
	}
	e.emitAudit(ctx, event, false, userID, err, func() map[string]string {
		return map[string]string{
			"refresh_context": strconv.FormatBool(isRefresh),
		}
	})
	return err
}

// RevokeUserSecret marks the target user's secret as revoked. Allowed
// when the acting user is the target, or when the caller holds the
// edit-users capability. The secret value itself is untouched so a later
// unrevoke can restore access.
func (e *Engine) RevokeUserSecret(ctx context.Context, targetUserID, actingUserID int64, canEditUsers bool) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if targetUserID <= 0 || (actingUserID != targetUserID && !canEditUsers) {
		e.emitAudit(ctx, auditEventSecretRevoked, false, targetUserID, ErrPermissionDenied, nil)
		return ErrPermissionDenied
	}

	if err := e.secrets.SetRevoked(ctx, targetUserID, true); err != nil {
		e.emitAudit(ctx, auditEventSecretRevoked, false, targetUserID, err, nil)
		return err
	}

	e.metricInc(MetricSecretRevoked)
	e.emitAudit(ctx, auditEventSecretRevoked, true, targetUserID, nil, nil)
	return nil
}

// UnrevokeUserSecret clears the revoked flag and rotates the secret,
// invalidating every refresh token issued before the revocation. Not
// self-service: the caller must hold the edit-users capability.
func (e *Engine) UnrevokeUserSecret(ctx context.Context, targetUserID int64, canEditUsers bool) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if targetUserID <= 0 || !canEditUsers {
		e.emitAudit(ctx, auditEventSecretUnrevoked, false, targetUserID, ErrPermissionDenied, nil)
		return ErrPermissionDenied
	}

	if err := e.secrets.SetRevoked(ctx, targetUserID, false); err != nil {
		e.emitAudit(ctx, auditEventSecretUnrevoked, false, targetUserID, err, nil)
		return err
	}
	if _, err := e.secrets.Rotate(ctx, targetUserID); err != nil {
		e.emitAudit(ctx, auditEventSecretUnrevoked, false, targetUserID, err, nil)
		return err
	}

	e.metricInc(MetricSecretUnrevoked)
	e.emitAudit(ctx, auditEventSecretUnrevoked, true, targetUserID, nil, nil)
	return nil
}

// RotateUserSecret generates and stores a new secret for the user,
// implicitly invalidating every previously issued refresh token. Fails
// with ErrSecretRevoked while the secret is revoked.
func (e *Engine) RotateUserSecret(ctx context.Context, userID int64) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}
	if userID <= 0 {
		return "", ErrPermissionDenied
	}

	revoked, err := e.secrets.IsRevoked(ctx, userID)
	if err != nil {
		return "", err
	}
	if revoked {
		e.emitAudit(ctx, auditEventSecretRotated, false, userID, ErrSecretRevoked, nil)
		return "", ErrSecretRevoked
	}

	secret, err := e.secrets.Rotate(ctx, userID)
	if err != nil {
		e.emitAudit(ctx, auditEventSecretRotated, false, userID, err, nil)
		return "", err
	}

	e.metricInc(MetricSecretRotated)
	e.emitAudit(ctx, auditEventSecretRotated, true, userID, nil, nil)
	return secret, nil
}

// UserSecret returns the target user's current secret. Restricted to the
// user themselves or callers with the edit-users capability; revoked
// secrets are never returned.
func (e *Engine) UserSecret(ctx context.Context, userID, actingUserID int64, canEditUsers bool) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}
	if userID <= 0 || (actingUserID != userID && !canEditUsers) {
		return "", ErrPermissionDenied
	}
	return e.secrets.Secret(ctx, userID)
}

// IsSecretRevoked reports whether the user's secret is revoked.
func (e *Engine) IsSecretRevoked(ctx context.Context, userID int64) (bool, error) {
	if e == nil {
		return false, ErrEngineNotReady
	}
	return e.secrets.IsRevoked(ctx, userID)
}

func issuerAllowed(issuer string, allowed []string) bool {
	if issuer == "" {
		return false
	}
	for _, a := range allowed {
		if issuer == a {
			return true
		}
	}
	return false
}
