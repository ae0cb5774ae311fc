package secret

import (
	"context"
	"fmt"
	"strings"
)

// refPrefix marks values that name a secret through a provider.
const refPrefix = "secretref:"

// Resolver resolves configuration values that may name secrets.
//
// Values of the form "secretref:<provider>:<ref>" are resolved through
// a registered provider; anything else is returned after strict
// environment expansion.
type Resolver struct {
	providers map[string]Provider
}

// NewResolver creates a resolver with the given providers.
func NewResolver(providers ...Provider) *Resolver {
	r := &Resolver{providers: make(map[string]Provider)}
	for _, p := range providers {
		if p != nil {
			r.providers[p.Name()] = p
		}
	}
	return r
}

// ResolveValue resolves environment variables and a secret ref in
// value.
func (r *Resolver) ResolveValue(ctx context.Context, value string) (string, error) {
	expanded, err := ExpandStrict(value)
	if err != nil {
		return "", err
	}

	providerName, ref, ok := ParseRef(expanded)
	if !ok {
		return expanded, nil
	}

	provider, ok := r.providers[providerName]
	if !ok {
		return "", fmt.Errorf("secret provider %q is not registered", providerName)
	}
	return provider.Resolve(ctx, ref)
}

// ParseRef parses a secret reference of the form:
//
//	secretref:<provider>:<ref>
func ParseRef(value string) (provider string, ref string, ok bool) {
	if !strings.HasPrefix(value, refPrefix) {
		return "", "", false
	}
	parts := strings.SplitN(strings.TrimPrefix(value, refPrefix), ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
