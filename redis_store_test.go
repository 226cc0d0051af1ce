package jwtgate

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T) (*RedisSecretStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := NewRedisSecretStore(client, "jwtgate-test")
	if err != nil {
		t.Fatalf("store create failed: %v", err)
	}
	return store, mr
}

func TestRedisStoreRequiresClient(t *testing.T) {
	if _, err := NewRedisSecretStore(nil, "x"); err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestRedisStoreDefaultPrefix(t *testing.T) {
	store, _ := newTestRedisStore(t)
	if store.prefix != "jwtgate-test" {
		t.Fatalf("unexpected prefix %q", store.prefix)
	}

	fallback, err := NewRedisSecretStore(store.client, "")
	if err != nil {
		t.Fatalf("store create failed: %v", err)
	}
	if fallback.prefix != defaultRedisPrefix {
		t.Fatalf("expected default prefix, got %q", fallback.prefix)
	}
}

func TestRedisStoreLazyCreateStable(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	first, err := store.Secret(ctx, 7)
	if err != nil {
		t.Fatalf("secret failed: %v", err)
	}
	second, err := store.Secret(ctx, 7)
	if err != nil {
		t.Fatalf("secret failed: %v", err)
	}
	if first != second {
		t.Fatalf("secret not stable: %q then %q", first, second)
	}

	if got, _ := mr.Get("jwtgate-test:secret:7"); got != first {
		t.Fatalf("stored value %q does not match returned %q", got, first)
	}
}

func TestRedisStoreRevokeUnrevoke(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t)

	before, _ := store.Secret(ctx, 7)

	if err := store.SetRevoked(ctx, 7, true); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if _, err := store.Secret(ctx, 7); !errors.Is(err, ErrSecretRevoked) {
		t.Fatalf("expected ErrSecretRevoked, got %v", err)
	}
	if revoked, _ := store.IsRevoked(ctx, 7); !revoked {
		t.Fatal("expected revoked flag set")
	}

	if err := store.SetRevoked(ctx, 7, false); err != nil {
		t.Fatalf("unrevoke failed: %v", err)
	}
	after, err := store.Secret(ctx, 7)
	if err != nil {
		t.Fatalf("secret failed after unrevoke: %v", err)
	}
	if after != before {
		t.Fatalf("unrevoke alone must not change the secret: %q vs %q", after, before)
	}
}

func TestRedisStoreRotate(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t)

	before, _ := store.Secret(ctx, 7)
	rotated, err := store.Rotate(ctx, 7)
	if err != nil {
		t.Fatalf("rotate failed: %v", err)
	}
	if rotated == before {
		t.Fatal("rotate returned the prior secret")
	}
	if after, _ := store.Secret(ctx, 7); after != rotated {
		t.Fatalf("read after rotate returned %q, want %q", after, rotated)
	}
}
