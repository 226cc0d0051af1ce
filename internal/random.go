package internal

import (
	"github.com/google/uuid"
)

const userSecretPrefix = "jwtsecret_"

// NewUserSecret generates a fresh opaque per-user secret. The value has no
// structure beyond the prefix; equality against the stored copy is the
// only operation ever performed on it.
func NewUserSecret() string {
	return userSecretPrefix + uuid.NewString()
}

// NewTokenID generates the jti claim for an issued token.
func NewTokenID() string {
	return uuid.NewString()
}
