package jwtgate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Registers the pgx stdlib driver. Callers open the pool with
	// sql.Open("pgx", dsn) and hand it to NewPostgresSecretStore.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jwtgate/jwtgate/internal"
)

const secretSchema = `
CREATE TABLE IF NOT EXISTS user_secrets (
	user_id BIGINT PRIMARY KEY,
	secret  TEXT    NOT NULL,
	revoked BOOLEAN NOT NULL DEFAULT FALSE
)`

// PostgresSecretStore is a SQL-backed UserSecretStore using the pgx
// driver through database/sql. One row per user; every operation is a
// single-row statement, so the database's row-level atomicity is all the
// coordination the engine needs.
type PostgresSecretStore struct {
	db *sql.DB
}

// NewPostgresSecretStore creates a store over an open database handle and
// ensures the backing table exists.
func NewPostgresSecretStore(ctx context.Context, db *sql.DB) (*PostgresSecretStore, error) {
	if db == nil {
		return nil, errors.New("database handle required")
	}
	if _, err := db.ExecContext(ctx, secretSchema); err != nil {
		return nil, fmt.Errorf("secret schema: %w", err)
	}
	return &PostgresSecretStore{db: db}, nil
}

// Secret returns the stored secret, lazily creating one on first read.
// The insert uses ON CONFLICT DO NOTHING so two concurrent first reads
// agree on a single value.
func (s *PostgresSecretStore) Secret(ctx context.Context, userID int64) (string, error) {
	var (
		secret  string
		revoked bool
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT secret, revoked FROM user_secrets WHERE user_id = $1`, userID,
	).Scan(&secret, &revoked)
	if err == nil {
		if revoked {
			return "", ErrSecretRevoked
		}
		return secret, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("secret read: %w", err)
	}

	fresh := internal.NewUserSecret()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO user_secrets (user_id, secret) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING`,
		userID, fresh,
	); err != nil {
		return "", fmt.Errorf("secret create: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT secret, revoked FROM user_secrets WHERE user_id = $1`, userID,
	).Scan(&secret, &revoked)
	if err != nil {
		return "", fmt.Errorf("secret read: %w", err)
	}
	if revoked {
		return "", ErrSecretRevoked
	}
	return secret, nil
}

// Rotate stores and returns a fresh secret, preserving the revoked flag.
func (s *PostgresSecretStore) Rotate(ctx context.Context, userID int64) (string, error) {
	secret := internal.NewUserSecret()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO user_secrets (user_id, secret) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET secret = EXCLUDED.secret`,
		userID, secret,
	); err != nil {
		return "", fmt.Errorf("secret rotate: %w", err)
	}
	return secret, nil
}

// SetRevoked flips the revoked flag, creating the row if needed.
func (s *PostgresSecretStore) SetRevoked(ctx context.Context, userID int64, revoked bool) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO user_secrets (user_id, secret, revoked) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET revoked = EXCLUDED.revoked`,
		userID, internal.NewUserSecret(), revoked,
	); err != nil {
		return fmt.Errorf("secret revoke: %w", err)
	}
	return nil
}

// IsRevoked reports the revoked flag; an absent row is not revoked.
func (s *PostgresSecretStore) IsRevoked(ctx context.Context, userID int64) (bool, error) {
	var revoked bool
	err := s.db.QueryRowContext(ctx,
		`SELECT revoked FROM user_secrets WHERE user_id = $1`, userID,
	).Scan(&revoked)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("revoked read: %w", err)
	}
	return revoked, nil
}
