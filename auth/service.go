package auth

import (
	"context"
	"time"
)

// Config configures the auth service. It is read once at construction
// and immutable thereafter; build it at process start (see the config
// package) and pass it in rather than consulting the environment here.
type Config struct {
	// Keys supplies the token signing key.
	Keys KeyProvider

	// Enabled gates all validation. When false, ValidateToken returns
	// synthetic anonymous claims carrying the wildcard scope without
	// inspecting the token. This is a development-mode bypass and must
	// never be the production posture.
	Enabled bool

	// Issuer is stamped into issued tokens and verified on decode.
	// Default: "universal-connector"
	Issuer string

	// Audience is stamped into issued tokens and verified on decode.
	// Default: "universal-connector-api"
	Audience string

	// TokenTTL is the lifetime of tokens from IssueToken.
	// Default: 24 hours
	TokenTTL time.Duration

	// APIKeyTTL is the lifetime of tokens from IssueAPIKey.
	// Default: 365 days
	APIKeyTTL time.Duration

	// RequiredScopes maps endpoint names to the scopes a caller must
	// hold. Endpoints with no entry require no scopes.
	RequiredScopes map[string][]string
}

// Service issues and validates signed tokens and makes scope-based
// authorization decisions.
//
// Authorization is scope-list-based rather than role-based: the
// endpoint-to-scope mapping is configured independently of identity,
// keeping the service stateless per call and safe for concurrent use.
type Service struct {
	config Config
	codec  *Codec
}

// NewService creates an auth service.
func NewService(config Config) *Service {
	// Apply defaults
	if config.Issuer == "" {
		config.Issuer = "universal-connector"
	}
	if config.Audience == "" {
		config.Audience = "universal-connector-api"
	}
	if config.TokenTTL <= 0 {
		config.TokenTTL = 24 * time.Hour
	}
	if config.APIKeyTTL <= 0 {
		config.APIKeyTTL = 365 * 24 * time.Hour
	}

	return &Service{
		config: config,
		codec:  NewCodec(config.Keys, config.Issuer, config.Audience),
	}
}

// IssueToken creates a signed token for userID with the default
// lifetime.
func (s *Service) IssueToken(ctx context.Context, userID string, scopes []string) (string, error) {
	claims := NewClaims(userID, scopes, s.config.Issuer, s.config.Audience, s.config.TokenTTL)
	return s.codec.Encode(ctx, claims)
}

// IssueAPIKey creates a long-lived token recording the key's display
// name in the "key_name" custom claim.
func (s *Service) IssueAPIKey(ctx context.Context, userID string, scopes []string, name string) (string, error) {
	claims := NewClaims(userID, scopes, s.config.Issuer, s.config.Audience, s.config.TokenTTL)
	claims = claims.WithExtendedExpiry(s.config.APIKeyTTL)
	claims.SetCustom("key_name", name)
	return s.codec.Encode(ctx, claims)
}

// ValidateToken decodes and verifies token, returning its claims.
// Codec errors propagate; a structurally valid token past its expiry
// fails with ErrTokenExpired.
func (s *Service) ValidateToken(ctx context.Context, token string) (*Claims, error) {
	if !s.config.Enabled {
		return AnonymousClaims(s.config.Issuer, s.config.Audience, s.config.TokenTTL), nil
	}

	claims, err := s.codec.Decode(ctx, token)
	if err != nil {
		return nil, err
	}

	if claims.IsExpired(time.Now()) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}

// Authorize validates token and checks its scopes against the
// endpoint's requirements, returning the verified claims on success.
//
// The wildcard scope grants access to every endpoint. Endpoints absent
// from RequiredScopes require no scopes. A valid token lacking required
// scopes fails with *ScopeError, distinguishable from authentication
// failures via errors.Is(err, ErrInsufficientScope).
func (s *Service) Authorize(ctx context.Context, token string, endpoint string) (*Claims, error) {
	claims, err := s.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if claims.HasScope(WildcardScope) {
		return claims, nil
	}

	var missing []string
	for _, scope := range s.config.RequiredScopes[endpoint] {
		if !claims.HasScope(scope) {
			missing = append(missing, scope)
		}
	}
	if len(missing) > 0 {
		return nil, &ScopeError{
			Subject:  claims.Subject,
			Endpoint: endpoint,
			Missing:  missing,
		}
	}

	return claims, nil
}
