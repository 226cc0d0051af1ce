package jwtgate

import "context"

// UserRecord is the minimal user representation the engine works with. The
// backing user database is owned by the host application; the engine only
// needs a positive numeric id and, for login responses, basic profile data.
type UserRecord struct {
	ID       int64
	Username string
	Name     string
	Email    string
}

// Authenticator is the credential-check collaborator. Login delegates the
// username/password verification to it and never inspects passwords itself.
//
// On failure the returned error's message is surfaced to the client
// verbatim (wrapped in ErrInvalidCredentials), matching the behavior of
// propagating the backend's error code rather than a generic message.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (UserRecord, error)
}

// LoginResult is returned by Mutations.Login on success.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         UserRecord
}

// UserMutationInput carries the token-related side-channel fields accepted
// by user-record mutations. RevokeSecret set to true revokes the user
// secret; set to false it unrevokes (which also rotates). RotateSecret
// rotates the secret, invalidating all previously issued refresh tokens.
type UserMutationInput struct {
	RevokeSecret *bool
	RotateSecret bool
}
