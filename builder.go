package jwtgate

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	internalaudit "github.com/jwtgate/jwtgate/internal/audit"
)

// Builder assembles an Engine. Zero or one of WithRedis/WithSecretStore
// selects the user secret backend; with neither, an in-process memory
// store is used.
type Builder struct {
	config Config
	redis  *redis.Client

	secretStore   UserSecretStore
	authenticator Authenticator
	auditSink     AuditSink
	hooks         Hooks
	keyOverride   KeyOverride
	clock         func() time.Time

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis selects a redis-backed user secret store over the given client.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithSecretStore selects an explicit user secret store, overriding
// WithRedis.
func (b *Builder) WithSecretStore(store UserSecretStore) *Builder {
	b.secretStore = store
	return b
}

// WithAuthenticator wires the credential-check collaborator used by
// Mutations.Login. Optional; an engine without one can still validate and
// manage tokens.
func (b *Builder) WithAuthenticator(a Authenticator) *Builder {
	b.authenticator = a
	return b
}

// WithAuditSink wires the audit event receiver and enables auditing.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = true
	return b
}

// WithHooks installs the engine extension points.
func (b *Builder) WithHooks(h Hooks) *Builder {
	b.hooks = h
	return b
}

// WithKeyOverride installs the signing-key override hook, consulted
// before the configured key on first resolution.
func (b *Builder) WithKeyOverride(fn KeyOverride) *Builder {
	b.keyOverride = fn
	return b
}

// WithMetricsEnabled toggles the in-process metrics registry.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the validate-latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// WithClock replaces the engine's time source. Tests use it to pin
// issuance and verification to a fixed instant.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.clock = now
	return b
}

// Build validates the configuration and assembles the engine. A Builder
// is single-use.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := b.secretStore
	if store == nil && b.redis != nil {
		var err error
		store, err = NewRedisSecretStore(b.redis, cfg.SecretStore.RedisPrefix)
		if err != nil {
			return nil, err
		}
	}
	if store == nil {
		store = NewMemorySecretStore()
	}

	now := b.clock
	if now == nil {
		now = time.Now
	}

	engine := &Engine{
		config:        cfg,
		keys:          NewKeyResolver(cfg.Token.SigningKey, cfg.Token.FallbackKey, b.keyOverride),
		codec:         NewClaimsCodec(cfg.Token.Leeway, now),
		secrets:       store,
		authenticator: b.authenticator,
		hooks:         b.hooks,
		metrics:       NewMetrics(cfg.Metrics),
		now:           now,
	}
	engine.audit = internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)

	b.built = true

	return engine, nil
}
