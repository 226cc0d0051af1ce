package jwtgate

import (
	"errors"
	"net/http/httptest"
	"testing"
)

func TestBearerToken(t *testing.T) {
	if token, ok := BearerToken("Bearer abc.def.ghi"); !ok || token != "abc.def.ghi" {
		t.Fatalf("unexpected result %q, %v", token, ok)
	}
	if _, ok := BearerToken("Basic dXNlcjpwYXNz"); ok {
		t.Fatal("expected rejection for non-bearer scheme")
	}
	if _, ok := BearerToken("Bearer "); ok {
		t.Fatal("expected rejection for empty token")
	}
	if _, ok := BearerToken(""); ok {
		t.Fatal("expected rejection for empty header")
	}
}

func TestAuthHeaderRedirectFallback(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if got := AuthHeader(r); got != "" {
		t.Fatalf("expected empty header, got %q", got)
	}

	r.Header.Set(HeaderRedirectAuthorization, "Bearer redirected")
	if got := AuthHeader(r); got != "Bearer redirected" {
		t.Fatalf("expected redirect fallback, got %q", got)
	}

	r.Header.Set(HeaderAuthorization, "Bearer primary")
	if got := AuthHeader(r); got != "Bearer primary" {
		t.Fatalf("expected primary header to win, got %q", got)
	}
}

func TestResolveCurrentUserAnonymousPassThrough(t *testing.T) {
	e := newTestEngine(t)
	auth := NewRequestAuthenticator(e)

	r := httptest.NewRequest("GET", "/", nil)
	if got := auth.ResolveCurrentUser(r, 0); got != 0 {
		t.Fatalf("expected anonymous pass-through, got user %d", got)
	}
	if err := auth.PendingError(); err != nil {
		t.Fatalf("no-token must not record an error, got %v", err)
	}

	// An existing identity survives a token-less request too.
	if got := auth.ResolveCurrentUser(r, 7); got != 7 {
		t.Fatalf("expected existing identity 7, got %d", got)
	}
}

func TestResolveCurrentUserValidToken(t *testing.T) {
	e := newTestEngine(t)
	token, err := e.IssueAccessToken(actingCtx(42), UserRecord{ID: 42}, true)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set(HeaderAuthorization, "Bearer "+token)

	auth := NewRequestAuthenticator(e)
	if got := auth.ResolveCurrentUser(r, 7); got != 42 {
		t.Fatalf("expected token identity 42 to override, got %d", got)
	}
	if err := auth.PendingError(); err != nil {
		t.Fatalf("unexpected recorded error %v", err)
	}
}

func TestResolveCurrentUserTamperedTokenRecordsError(t *testing.T) {
	e := newTestEngine(t)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set(HeaderAuthorization, "Bearer not.a.token")

	auth := NewRequestAuthenticator(e)
	if got := auth.ResolveCurrentUser(r, 7); got != 7 {
		t.Fatalf("failure must keep the existing identity, got %d", got)
	}

	err := auth.SurfacePendingError()
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected recorded ErrTokenInvalid, got %v", err)
	}
	// Surfaced errors clear; a second surface returns nil.
	if err := auth.SurfacePendingError(); err != nil {
		t.Fatalf("expected cleared pending error, got %v", err)
	}
}

func TestResolveCurrentUserRedirectHeader(t *testing.T) {
	e := newTestEngine(t)
	token, err := e.IssueAccessToken(actingCtx(42), UserRecord{ID: 42}, true)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set(HeaderRedirectAuthorization, "Bearer "+token)

	auth := NewRequestAuthenticator(e)
	if got := auth.ResolveCurrentUser(r, 0); got != 42 {
		t.Fatalf("expected identity from redirect header, got %d", got)
	}
}
