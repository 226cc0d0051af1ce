package jwtgate

import (
	"testing"
	"time"
)

func validTestConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.SigningKey = append([]byte(nil), testKey...)
	cfg.Token.Issuer = "https://example.com"
	return cfg
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Token.AccessTTL != 5*time.Minute {
		t.Fatalf("unexpected access TTL %v", cfg.Token.AccessTTL)
	}
	if cfg.Token.RefreshTTL != 365*24*time.Hour {
		t.Fatalf("unexpected refresh TTL %v", cfg.Token.RefreshTTL)
	}
	if cfg.Token.Leeway != 60*time.Second {
		t.Fatalf("unexpected leeway %v", cfg.Token.Leeway)
	}
	if cfg.SecretStore.RedisPrefix != "jwtgate" {
		t.Fatalf("unexpected redis prefix %q", cfg.SecretStore.RedisPrefix)
	}
	if cfg.CORS.Enabled || cfg.Audit.Enabled || cfg.Metrics.Enabled || cfg.Debug {
		t.Fatal("optional features must default to disabled")
	}
}

func TestConfigValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing issuer", func(c *Config) { c.Token.Issuer = "" }},
		{"zero access TTL", func(c *Config) { c.Token.AccessTTL = 0 }},
		{"refresh not exceeding access", func(c *Config) { c.Token.RefreshTTL = c.Token.AccessTTL }},
		{"negative leeway", func(c *Config) { c.Token.Leeway = -time.Second }},
		{"excessive leeway", func(c *Config) { c.Token.Leeway = 3 * time.Minute }},
		{"empty redis prefix", func(c *Config) { c.SecretStore.RedisPrefix = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validTestConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestConfigValidateAcceptsMissingKey(t *testing.T) {
	cfg := validTestConfig()
	cfg.Token.SigningKey = nil

	// Key resolution is an operation-time concern, not a config error.
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config without signing key, got %v", err)
	}
}

func TestCloneConfigIsolatesSlices(t *testing.T) {
	cfg := validTestConfig()
	cfg.Token.AllowedIssuers = []string{"https://example.com"}

	clone := cloneConfig(cfg)
	clone.Token.SigningKey[0] ^= 0xff
	clone.Token.AllowedIssuers[0] = "https://evil.example"

	if cfg.Token.SigningKey[0] == clone.Token.SigningKey[0] {
		t.Fatal("signing key not deep-copied")
	}
	if cfg.Token.AllowedIssuers[0] != "https://example.com" {
		t.Fatal("allowed issuers not deep-copied")
	}
}
