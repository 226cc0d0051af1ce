//go:build integration
// +build integration

package test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jwtgate/jwtgate"
)

func TestTokenLifecycleOverRedis(t *testing.T) {
	engine, mr := newIntegrationEngine(t)
	mutations := jwtgate.NewMutations(engine)
	ctx := context.Background()

	// Login issues a usable pair.
	result, err := mutations.Login(ctx, "jane", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// The user secret landed in redis.
	if got, err := mr.Get("jwtgate:secret:42"); err != nil || got == "" {
		t.Fatalf("expected secret in redis, got %q, %v", got, err)
	}

	// The refresh token exchanges for a fresh access token.
	access, err := mutations.RefreshAuthToken(ctx, result.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	claims, err := engine.Validate(ctx, access, false)
	if err != nil || claims.UserID() != 42 {
		t.Fatalf("refreshed token invalid: %v", err)
	}

	// Revocation kills the refresh token with a single flag write.
	if err := mutations.RevokeSecret(ctx, 42, 42, false); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if _, err := mutations.RefreshAuthToken(ctx, result.RefreshToken); !errors.Is(err, jwtgate.ErrSecretRevoked) {
		t.Fatalf("expected ErrSecretRevoked, got %v", err)
	}

	// Unrevoke restores service but rotates, so the old token stays dead.
	if err := mutations.UnrevokeSecret(ctx, 42, true); err != nil {
		t.Fatalf("unrevoke failed: %v", err)
	}
	if _, err := mutations.RefreshAuthToken(ctx, result.RefreshToken); !errors.Is(err, jwtgate.ErrSecretRevoked) {
		t.Fatalf("expected old refresh token to stay dead, got %v", err)
	}
	if _, err := mutations.Login(ctx, "jane", "correct-horse"); err != nil {
		t.Fatalf("login after unrevoke failed: %v", err)
	}
}

func TestConcurrentRefreshAgainstRotation(t *testing.T) {
	engine, _ := newIntegrationEngine(t)
	mutations := jwtgate.NewMutations(engine)
	ctx := context.Background()

	result, err := mutations.Login(ctx, "jane", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				access, err := mutations.RefreshAuthToken(ctx, result.RefreshToken)
				if err != nil {
					// Rotation raced us; the only acceptable failure.
					if !errors.Is(err, jwtgate.ErrSecretRevoked) {
						t.Errorf("unexpected refresh error: %v", err)
					}
					continue
				}
				if claims, err := engine.Validate(ctx, access, false); err == nil && claims.UserID() != 42 {
					t.Errorf("token for wrong user %d", claims.UserID())
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 5; j++ {
			_, _ = engine.RotateUserSecret(ctx, 42)
		}
	}()
	wg.Wait()
}
