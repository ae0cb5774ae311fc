package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Reserved JOSE claim names that never spill into Custom.
var reservedJOSEClaims = map[string]bool{
	"sub": true, "iat": true, "exp": true,
	"iss": true, "aud": true, "jti": true,
	"scopes": true,
}

// SignJOSE re-issues claims as a standard JOSE (RFC 7519) token signed
// with HS256, for callers that must hand credentials to external JWT
// consumers. The guard codec's own wire form carries the claims payload
// first; this is the bridge to the conventional header-first layout.
func SignJOSE(ctx context.Context, keys KeyProvider, claims *Claims) (string, error) {
	key, err := keys.Key(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyUnavailable, err)
	}

	mc := jwt.MapClaims{
		"sub":    claims.Subject,
		"iat":    jwt.NewNumericDate(time.Unix(claims.IssuedAt, 0)),
		"exp":    jwt.NewNumericDate(time.Unix(claims.ExpiresAt, 0)),
		"iss":    claims.Issuer,
		"aud":    claims.Audience,
		"scopes": claims.Scopes,
	}
	if claims.TokenID != "" {
		mc["jti"] = claims.TokenID
	}
	for k, v := range claims.Custom {
		if !reservedJOSEClaims[k] {
			mc[k] = v
		}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return signed, nil
}

// ParseJOSE validates an externally issued HS256 JOSE token and maps it
// into guard claims. Issuer and audience checks are the caller's
// concern; expiry is enforced here.
func ParseJOSE(ctx context.Context, keys KeyProvider, token string) (*Claims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return keys.Key(ctx)
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, fmt.Errorf("%w: %v", ErrDecoding, err)
		}
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrDecoding
	}

	claims := &Claims{Custom: make(map[string]any)}
	if sub, ok := mc["sub"].(string); ok {
		claims.Subject = sub
	}
	if iss, ok := mc["iss"].(string); ok {
		claims.Issuer = iss
	}
	if aud, ok := mc["aud"].(string); ok {
		claims.Audience = aud
	}
	if jti, ok := mc["jti"].(string); ok {
		claims.TokenID = jti
	}
	if iat, ok := mc["iat"].(float64); ok {
		claims.IssuedAt = int64(iat)
	}
	if exp, ok := mc["exp"].(float64); ok {
		claims.ExpiresAt = int64(exp)
	}
	if scopes, ok := mc["scopes"].([]any); ok {
		claims.Scopes = make([]string, 0, len(scopes))
		for _, s := range scopes {
			if str, ok := s.(string); ok {
				claims.Scopes = append(claims.Scopes, str)
			}
		}
	}
	for k, v := range mc {
		if !reservedJOSEClaims[k] {
			claims.Custom[k] = v
		}
	}

	return claims, nil
}
