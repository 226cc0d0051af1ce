//go:build integration
// +build integration

package test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/jwtgate/jwtgate"
)

type staticAuthenticator struct {
	users map[string]jwtgate.UserRecord
	pass  string
}

func (a staticAuthenticator) Authenticate(_ context.Context, username, password string) (jwtgate.UserRecord, error) {
	user, ok := a.users[username]
	if !ok || password != a.pass {
		return jwtgate.UserRecord{}, errors.New("incorrect_password")
	}
	return user, nil
}

func newIntegrationEngine(t *testing.T) (*jwtgate.Engine, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := jwtgate.DefaultConfig()
	cfg.Token.SigningKey = []byte("integration-signing-key-32-bytes")
	cfg.Token.Issuer = "https://example.com"

	engine, err := jwtgate.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithAuthenticator(staticAuthenticator{
			users: map[string]jwtgate.UserRecord{
				"jane": {ID: 42, Username: "jane", Email: "jane@example.com"},
			},
			pass: "correct-horse",
		}).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("engine build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, mr
}
