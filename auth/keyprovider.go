package auth

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// KeyProvider supplies the MAC key used to sign and verify tokens.
type KeyProvider interface {
	// Key returns the signing key.
	Key(ctx context.Context) ([]byte, error)
}

// StaticKeyProvider holds a fixed in-memory key.
type StaticKeyProvider struct {
	key []byte
}

// NewStaticKeyProvider creates a static key provider.
func NewStaticKeyProvider(key []byte) *StaticKeyProvider {
	return &StaticKeyProvider{key: key}
}

// Key returns the static key.
func (p *StaticKeyProvider) Key(_ context.Context) ([]byte, error) {
	return p.key, nil
}

// SecretResolver resolves a secret reference to its value.
// *secret.Resolver satisfies this.
type SecretResolver interface {
	ResolveValue(ctx context.Context, value string) (string, error)
}

// ResolverKeyProvider resolves the signing key through a secret
// resolver on first use and caches it for the process lifetime.
// Concurrent first uses share a single resolution.
type ResolverKeyProvider struct {
	resolver SecretResolver
	ref      string

	group singleflight.Group

	mu  sync.RWMutex
	key []byte
}

// NewResolverKeyProvider creates a provider resolving ref through
// resolver.
func NewResolverKeyProvider(resolver SecretResolver, ref string) *ResolverKeyProvider {
	return &ResolverKeyProvider{resolver: resolver, ref: ref}
}

// Key returns the resolved signing key, resolving it on first use.
func (p *ResolverKeyProvider) Key(ctx context.Context) ([]byte, error) {
	p.mu.RLock()
	key := p.key
	p.mu.RUnlock()
	if key != nil {
		return key, nil
	}

	v, err, _ := p.group.Do("key", func() (any, error) {
		value, err := p.resolver.ResolveValue(ctx, p.ref)
		if err != nil {
			return nil, err
		}
		if value == "" {
			return nil, fmt.Errorf("%w: secret %q resolved to empty value", ErrKeyUnavailable, p.ref)
		}
		resolved := []byte(value)
		p.mu.Lock()
		p.key = resolved
		p.mu.Unlock()
		return resolved, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Ensure providers implement KeyProvider
var _ KeyProvider = (*StaticKeyProvider)(nil)
var _ KeyProvider = (*ResolverKeyProvider)(nil)
