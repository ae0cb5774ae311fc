package auth

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

type fakeResolver struct {
	calls atomic.Int64
	value string
	err   error
}

func (r *fakeResolver) ResolveValue(_ context.Context, _ string) (string, error) {
	r.calls.Add(1)
	return r.value, r.err
}

func TestStaticKeyProvider(t *testing.T) {
	provider := NewStaticKeyProvider([]byte("my-secret"))

	key, err := provider.Key(context.Background())
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	if string(key) != "my-secret" {
		t.Errorf("Key() = %q, want my-secret", key)
	}
}

func TestResolverKeyProvider_ResolvesOnce(t *testing.T) {
	resolver := &fakeResolver{value: "resolved-secret"}
	provider := NewResolverKeyProvider(resolver, "secretref:env:JWT_SECRET")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key, err := provider.Key(context.Background())
			if err != nil {
				t.Errorf("Key() error = %v", err)
				return
			}
			if string(key) != "resolved-secret" {
				t.Errorf("Key() = %q, want resolved-secret", key)
			}
		}()
	}
	wg.Wait()

	if got := resolver.calls.Load(); got != 1 {
		t.Errorf("resolver called %d times, want 1", got)
	}

	// Subsequent calls hit the cache.
	if _, err := provider.Key(context.Background()); err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	if got := resolver.calls.Load(); got != 1 {
		t.Errorf("resolver called %d times after cache hit, want 1", got)
	}
}

func TestResolverKeyProvider_Error(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("boom")}
	provider := NewResolverKeyProvider(resolver, "secretref:env:JWT_SECRET")

	if _, err := provider.Key(context.Background()); err == nil {
		t.Error("Key() error = nil, want resolution failure")
	}
}

func TestResolverKeyProvider_EmptyValue(t *testing.T) {
	resolver := &fakeResolver{value: ""}
	provider := NewResolverKeyProvider(resolver, "secretref:env:JWT_SECRET")

	if _, err := provider.Key(context.Background()); !errors.Is(err, ErrKeyUnavailable) {
		t.Errorf("Key() error = %v, want ErrKeyUnavailable", err)
	}
}
