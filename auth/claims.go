package auth

import (
	"time"

	"github.com/google/uuid"
)

// WildcardScope grants access to every endpoint.
const WildcardScope = "*"

// Claims is the identity and authorization payload carried by a token.
//
// Claims decoded from a token are read-only: callers must not mutate
// them. The issuing side may adjust a freshly created instance (custom
// fields, extended expiry) before it is encoded.
type Claims struct {
	// Subject is the user ID the token was issued to. Never empty for
	// an issued token.
	Subject string `json:"sub"`

	// IssuedAt and ExpiresAt are epoch seconds. ExpiresAt > IssuedAt
	// at issuance.
	IssuedAt  int64 `json:"iat"`
	ExpiresAt int64 `json:"exp"`

	// Issuer and Audience identify this deployment and are verified on
	// decode, preventing replay of tokens minted by or for another
	// system.
	Issuer   string `json:"iss"`
	Audience string `json:"aud"`

	// TokenID uniquely identifies this issuance.
	TokenID string `json:"jti,omitempty"`

	// Scopes are the capabilities granted to the subject.
	Scopes []string `json:"scopes"`

	// Custom carries extension claims. Values must be JSON-serializable
	// and round-trip through the codec without loss.
	Custom map[string]any `json:"custom,omitempty"`
}

// NewClaims creates claims for userID expiring ttl from now.
func NewClaims(userID string, scopes []string, issuer, audience string, ttl time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		Subject:   userID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
		Issuer:    issuer,
		Audience:  audience,
		TokenID:   uuid.NewString(),
		Scopes:    scopes,
		Custom:    make(map[string]any),
	}
}

// AnonymousClaims creates the synthetic all-scopes claims returned when
// authentication is disabled.
func AnonymousClaims(issuer, audience string, ttl time.Duration) *Claims {
	return NewClaims("anonymous", []string{WildcardScope}, issuer, audience, ttl)
}

// HasScope reports whether scope was granted, either verbatim or via
// the wildcard.
func (c *Claims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope || s == WildcardScope {
			return true
		}
	}
	return false
}

// IsExpired reports whether the claims expired at or before now.
func (c *Claims) IsExpired(now time.Time) bool {
	return now.Unix() >= c.ExpiresAt
}

// SetCustom records an extension claim. Only meaningful before the
// claims are encoded.
func (c *Claims) SetCustom(key string, value any) {
	if c.Custom == nil {
		c.Custom = make(map[string]any)
	}
	c.Custom[key] = value
}

// WithExtendedExpiry returns a copy of the claims whose lifetime,
// measured from issuance, is d. Used for long-lived credentials such as
// API keys.
func (c *Claims) WithExtendedExpiry(d time.Duration) *Claims {
	out := c.clone()
	out.ExpiresAt = time.Unix(c.IssuedAt, 0).Add(d).Unix()
	return out
}

func (c *Claims) clone() *Claims {
	out := *c
	out.Scopes = make([]string, len(c.Scopes))
	copy(out.Scopes, c.Scopes)
	if c.Custom != nil {
		out.Custom = make(map[string]any, len(c.Custom))
		for k, v := range c.Custom {
			out.Custom[k] = v
		}
	}
	return &out
}
