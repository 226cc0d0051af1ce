package jwtgate

import "sync"

// KeyOverride is an optional hook consulted before the configured signing
// key. Returning a non-empty slice wins; returning nil or empty falls
// through to the configured key and then the fallback salt. Deployments
// use it to source the key from a secrets manager or an admin UI instead
// of static configuration.
type KeyOverride func() []byte

// KeyResolver resolves the process-wide HMAC signing key. The first
// successful resolution is cached for the process lifetime: later
// configuration changes are deliberately not observed, keeping a single
// token-signing identity per process. A failed resolution is not cached,
// so an operation can succeed later once a key becomes available.
type KeyResolver struct {
	override   KeyOverride
	configured []byte
	fallback   []byte

	mu  sync.Mutex
	key []byte
}

// NewKeyResolver builds a resolver over the three key sources, in
// precedence order: override hook, configured key, fallback salt.
func NewKeyResolver(configured, fallback []byte, override KeyOverride) *KeyResolver {
	return &KeyResolver{
		override:   override,
		configured: cloneBytes(configured),
		fallback:   cloneBytes(fallback),
	}
}

// Resolve returns the signing key, or ErrNoSigningKey when every source is
// empty.
func (r *KeyResolver) Resolve() ([]byte, error) {
	if r == nil {
		return nil, ErrNoSigningKey
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.key) > 0 {
		return r.key, nil
	}

	if r.override != nil {
		if k := r.override(); len(k) > 0 {
			r.key = cloneBytes(k)
			return r.key, nil
		}
	}
	if len(r.configured) > 0 {
		r.key = r.configured
		return r.key, nil
	}
	if len(r.fallback) > 0 {
		r.key = r.fallback
		return r.key, nil
	}

	return nil, ErrNoSigningKey
}
