package jwtgate

import (
	"context"
	"sync"

	"github.com/jwtgate/jwtgate/internal"
)

// MemorySecretStore is an in-process UserSecretStore. Suitable for tests
// and single-instance deployments; anything multi-instance should use the
// redis or postgres store.
type MemorySecretStore struct {
	mu      sync.RWMutex
	secrets map[int64]string
	revoked map[int64]bool
}

// NewMemorySecretStore creates an empty in-memory store.
func NewMemorySecretStore() *MemorySecretStore {
	return &MemorySecretStore{
		secrets: make(map[int64]string),
		revoked: make(map[int64]bool),
	}
}

// Secret returns the stored secret, lazily creating one on first read.
func (s *MemorySecretStore) Secret(ctx context.Context, userID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.revoked[userID] {
		return "", ErrSecretRevoked
	}
	if secret, ok := s.secrets[userID]; ok {
		return secret, nil
	}

	secret := internal.NewUserSecret()
	s.secrets[userID] = secret
	return secret, nil
}

// Rotate stores and returns a fresh secret.
func (s *MemorySecretStore) Rotate(ctx context.Context, userID int64) (string, error) {
	secret := internal.NewUserSecret()

	s.mu.Lock()
	s.secrets[userID] = secret
	s.mu.Unlock()

	return secret, nil
}

// SetRevoked flips the revoked flag; the secret value is left in place so
// an unrevoke can restore access.
func (s *MemorySecretStore) SetRevoked(ctx context.Context, userID int64, revoked bool) error {
	s.mu.Lock()
	s.revoked[userID] = revoked
	s.mu.Unlock()
	return nil
}

// IsRevoked reports the revoked flag.
func (s *MemorySecretStore) IsRevoked(ctx context.Context, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revoked[userID], nil
}
