package jwtgate

import (
	"errors"
	"time"
)

// Config carries all engine settings. A Config is validated by
// Builder.Build and treated as immutable afterwards.
type Config struct {
	Token       TokenConfig
	SecretStore SecretStoreConfig
	CORS        CORSConfig
	Audit       AuditConfig
	Metrics     MetricsConfig

	// Debug allows token response headers on plaintext transport, for
	// local development only. Never enable in production.
	Debug bool
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig controls claim construction and verification.
type TokenConfig struct {
	// SigningKey is the process-wide HMAC key. Required unless a key
	// override hook or FallbackKey provides one.
	SigningKey []byte

	// FallbackKey is consulted when neither the override hook nor
	// SigningKey yields a non-empty key. Deployments typically point this
	// at a platform-provided auth salt.
	FallbackKey []byte

	// Issuer is the canonical URL of this deployment, written into the iss
	// claim of every issued token. Required.
	Issuer string

	// AllowedIssuers is the set of iss values accepted at validation time.
	// Empty means only Issuer is accepted. Useful for multi-domain
	// deployments that share a signing key.
	AllowedIssuers []string

	// AccessTTL is the access-token lifetime. Default 5 minutes.
	AccessTTL time.Duration

	// RefreshTTL is the refresh-token lifetime. Default 365 days; refresh
	// tokens are meant to be long lived and are revoked through the user
	// secret, not through expiry.
	RefreshTTL time.Duration

	// Leeway is the clock-skew tolerance applied on the verifying side
	// only. Default 60 seconds.
	Leeway time.Duration
}

/*
====================================
SECRET STORE CONFIG
====================================
*/

// SecretStoreConfig controls the key layout of the redis-backed user
// secret store.
type SecretStoreConfig struct {
	RedisPrefix string // default "jwtgate"
}

/*
====================================
CORS CONFIG
====================================
*/

// CORSConfig controls the optional Access-Control-Allow-Headers emission.
// Disabled by default.
type CORSConfig struct {
	Enabled      bool
	AllowHeaders []string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the in-process metrics registry.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

const (
	defaultAccessTTL   = 5 * time.Minute
	defaultRefreshTTL  = 365 * 24 * time.Hour
	defaultLeeway      = 60 * time.Second
	defaultRedisPrefix = "jwtgate"
)

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:  defaultAccessTTL,
			RefreshTTL: defaultRefreshTTL,
			Leeway:     defaultLeeway,
		},
		SecretStore: SecretStoreConfig{
			RedisPrefix: defaultRedisPrefix,
		},
		CORS: CORSConfig{
			AllowHeaders: []string{"Access-Control-Allow-Headers", "Content-Type", "Authorization"},
		},
		Audit: AuditConfig{
			BufferSize: 256,
			DropIfFull: true,
		},
	}
}

// DefaultConfig returns the engine defaults: 5 minute access tokens,
// 365 day refresh tokens, 60s verification leeway, CORS and audit
// disabled.
func DefaultConfig() Config {
	return defaultConfig()
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.SigningKey = cloneBytes(cfg.Token.SigningKey)
	out.Token.FallbackKey = cloneBytes(cfg.Token.FallbackKey)
	out.Token.AllowedIssuers = cloneStrings(cfg.Token.AllowedIssuers)
	out.CORS.AllowHeaders = cloneStrings(cfg.CORS.AllowHeaders)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// Validate checks the configuration for values the engine cannot operate
// with. It does not require a signing key: key resolution is deferred to
// the first issue/validate call so that a missing key fails that operation
// only.
func (c Config) Validate() error {
	if c.Token.Issuer == "" {
		return errors.New("token issuer required")
	}
	if c.Token.AccessTTL <= 0 {
		return errors.New("invalid access TTL configuration")
	}
	if c.Token.RefreshTTL <= c.Token.AccessTTL {
		return errors.New("refresh TTL must exceed access TTL")
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return errors.New("invalid leeway configuration")
	}
	if c.SecretStore.RedisPrefix == "" {
		return errors.New("secret store redis prefix required")
	}
	return nil
}
