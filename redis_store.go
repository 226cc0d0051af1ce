package jwtgate

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/jwtgate/jwtgate/internal"
)

// RedisSecretStore is a redis-backed UserSecretStore. Each user owns two
// keys under the configured prefix:
//
//	<prefix>:secret:<id>   the opaque secret value
//	<prefix>:revoked:<id>  "1" while revoked, absent otherwise
//
// Secrets never expire; they are rotated or revoked, not aged out.
type RedisSecretStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSecretStore creates a store over the given client. prefix must
// be non-empty; it namespaces the keys so the store can share a database
// with the host application.
func NewRedisSecretStore(client *redis.Client, prefix string) (*RedisSecretStore, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisSecretStore{
		client: client,
		prefix: prefix,
	}, nil
}

func (s *RedisSecretStore) secretKey(userID int64) string {
	return s.prefix + ":secret:" + strconv.FormatInt(userID, 10)
}

func (s *RedisSecretStore) revokedKey(userID int64) string {
	return s.prefix + ":revoked:" + strconv.FormatInt(userID, 10)
}

// Secret returns the stored secret, lazily creating one on first read.
// SetNX guards the lazy create so two concurrent first reads agree on a
// single value.
func (s *RedisSecretStore) Secret(ctx context.Context, userID int64) (string, error) {
	revoked, err := s.IsRevoked(ctx, userID)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", ErrSecretRevoked
	}

	secret, err := s.client.Get(ctx, s.secretKey(userID)).Result()
	if err == nil && secret != "" {
		return secret, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("secret read: %w", err)
	}

	fresh := internal.NewUserSecret()
	if err := s.client.SetNX(ctx, s.secretKey(userID), fresh, 0).Err(); err != nil {
		return "", fmt.Errorf("secret create: %w", err)
	}

	// Re-read in case a concurrent create won.
	secret, err = s.client.Get(ctx, s.secretKey(userID)).Result()
	if err != nil {
		return "", fmt.Errorf("secret read: %w", err)
	}
	return secret, nil
}

// Rotate stores and returns a fresh secret.
func (s *RedisSecretStore) Rotate(ctx context.Context, userID int64) (string, error) {
	secret := internal.NewUserSecret()
	if err := s.client.Set(ctx, s.secretKey(userID), secret, 0).Err(); err != nil {
		return "", fmt.Errorf("secret rotate: %w", err)
	}
	return secret, nil
}

// SetRevoked flips the revoked flag.
func (s *RedisSecretStore) SetRevoked(ctx context.Context, userID int64, revoked bool) error {
	if revoked {
		if err := s.client.Set(ctx, s.revokedKey(userID), "1", 0).Err(); err != nil {
			return fmt.Errorf("secret revoke: %w", err)
		}
		return nil
	}
	if err := s.client.Del(ctx, s.revokedKey(userID)).Err(); err != nil {
		return fmt.Errorf("secret unrevoke: %w", err)
	}
	return nil
}

// IsRevoked reports the revoked flag.
func (s *RedisSecretStore) IsRevoked(ctx context.Context, userID int64) (bool, error) {
	val, err := s.client.Get(ctx, s.revokedKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("revoked read: %w", err)
	}
	return val == "1", nil
}
