package jwtgate

import (
	"context"
	"errors"
	"fmt"
)

// Mutations exposes the external-facing operations of the token engine:
// login, refresh, and the user-secret management calls. It formats
// nothing itself; errors carry the sentinel kinds the API layer maps to
// responses via HTTPStatus.
type Mutations struct {
	engine *Engine
}

// NewMutations wraps an engine.
func NewMutations(engine *Engine) *Mutations {
	return &Mutations{engine: engine}
}

// Login verifies the credentials through the engine's Authenticator
// collaborator and, on success, returns an access token, a refresh token
// (sharing one issued-at timestamp), and the authenticated user.
//
// A missing signing key fails before the collaborator is consulted. A
// credential rejection wraps the collaborator's error verbatim in
// ErrInvalidCredentials.
func (m *Mutations) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if m == nil || m.engine == nil {
		return nil, ErrEngineNotReady
	}
	e := m.engine

	if _, err := e.keys.Resolve(); err != nil {
		return nil, err
	}

	if e.authenticator == nil {
		return nil, ErrEngineNotReady
	}

	user, err := e.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, 0, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"identifier": username,
			}
		})
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if user.ID == 0 {
		e.metricInc(MetricLoginFailure)
		return nil, fmt.Errorf("%w: the user could not be found", ErrInvalidCredentials)
	}

	// The freshly authenticated user is the acting identity for the
	// caller-must-own-identity check.
	ctx = WithActingUser(ctx, user.ID)

	access, refresh, err := e.IssueTokenPair(ctx, user)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, user.ID, nil, nil)

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
	}, nil
}

// RefreshAuthToken validates a refresh token and issues a fresh access
// token for the embedded user. Presenting a valid, non-revoked refresh
// token is itself the authorization: no capability check applies.
func (m *Mutations) RefreshAuthToken(ctx context.Context, refreshToken string) (string, error) {
	if m == nil || m.engine == nil {
		return "", ErrEngineNotReady
	}
	e := m.engine

	claims, err := e.Validate(ctx, refreshToken, true)
	if err != nil {
		if errors.Is(err, ErrNoToken) {
			err = ErrTokenInvalid
			e.metricInc(MetricRefreshFailure)
		}
		return "", err
	}

	access, err := e.issueAccessTokenAt(ctx, UserRecord{ID: claims.UserID()}, false, e.now())
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		return "", err
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventRefreshSuccess, true, claims.UserID(), nil, nil)
	return access, nil
}

// RevokeSecret revokes the target user's secret. See
// Engine.RevokeUserSecret for the permission rules.
func (m *Mutations) RevokeSecret(ctx context.Context, targetUserID, actingUserID int64, canEditUsers bool) error {
	if m == nil || m.engine == nil {
		return ErrEngineNotReady
	}
	return m.engine.RevokeUserSecret(ctx, targetUserID, actingUserID, canEditUsers)
}

// UnrevokeSecret clears the revoked flag and rotates the secret.
func (m *Mutations) UnrevokeSecret(ctx context.Context, targetUserID int64, canEditUsers bool) error {
	if m == nil || m.engine == nil {
		return ErrEngineNotReady
	}
	return m.engine.UnrevokeUserSecret(ctx, targetUserID, canEditUsers)
}

// RotateSecret rotates the target user's secret, invalidating all refresh
// tokens issued before the call.
func (m *Mutations) RotateSecret(ctx context.Context, targetUserID int64) (string, error) {
	if m == nil || m.engine == nil {
		return "", ErrEngineNotReady
	}
	return m.engine.RotateUserSecret(ctx, targetUserID)
}

// ApplyUserMutationInput applies the token-related side-channel fields of
// a user-record mutation: RevokeSecret true revokes, false unrevokes, and
// RotateSecret rotates. Fields the input leaves unset are untouched.
func (m *Mutations) ApplyUserMutationInput(ctx context.Context, targetUserID, actingUserID int64, canEditUsers bool, input UserMutationInput) error {
	if m == nil || m.engine == nil {
		return ErrEngineNotReady
	}

	if input.RevokeSecret != nil {
		if *input.RevokeSecret {
			if err := m.engine.RevokeUserSecret(ctx, targetUserID, actingUserID, canEditUsers); err != nil {
				return err
			}
		} else {
			if err := m.engine.UnrevokeUserSecret(ctx, targetUserID, canEditUsers); err != nil {
				return err
			}
		}
	}

	if input.RotateSecret {
		if _, err := m.engine.RotateUserSecret(ctx, targetUserID); err != nil {
			return err
		}
	}

	return nil
}
