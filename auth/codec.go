package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// TokenPrefix is the optional scheme prefix accepted on inbound tokens.
// Matching is case-sensitive.
const TokenPrefix = "Bearer "

// tokenHeader is the third token part, describing the signing scheme so
// external inspectors can identify it. Constant for this codec.
type tokenHeader struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

var defaultHeader = tokenHeader{Alg: "HS256", Typ: "guard"}

// Codec encodes and verifies signed claim tokens.
//
// The wire form is base64url(claims JSON) "." base64url(HMAC-SHA256)
// "." base64url(header JSON). Encoding is deterministic for identical
// claims and key. The codec is a pure function of its input and the
// signing key: it performs no expiry checks (the Service's concern) and
// has no side effects.
type Codec struct {
	keys     KeyProvider
	issuer   string
	audience string
}

// NewCodec creates a codec. Non-empty issuer and audience values are
// verified against decoded claims; empty values disable the check.
func NewCodec(keys KeyProvider, issuer, audience string) *Codec {
	return &Codec{keys: keys, issuer: issuer, audience: audience}
}

// Encode serializes and signs claims into a token string.
// Returns ErrEncoding if the claims contain non-serializable custom
// values.
func (c *Codec) Encode(ctx context.Context, claims *Claims) (string, error) {
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}

	key, err := c.keys.Key(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyUnavailable, err)
	}

	header, err := json.Marshal(defaultHeader)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}

	enc := base64.RawURLEncoding
	return enc.EncodeToString(payload) + "." +
		enc.EncodeToString(computeMAC(payload, key)) + "." +
		enc.EncodeToString(header), nil
}

// Decode verifies token and returns its claims.
//
// Failure modes: ErrTokenMalformed for structural problems,
// ErrInvalidSignature for MAC, issuer, or audience mismatches (all
// treated as forgery-class failures), ErrDecoding when the payload does
// not unmarshal into the Claims shape.
func (c *Codec) Decode(ctx context.Context, token string) (*Claims, error) {
	token = strings.TrimPrefix(token, TokenPrefix)

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 parts, got %d", ErrTokenMalformed, len(parts))
	}

	enc := base64.RawURLEncoding
	payload, err := enc.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: claims part: %v", ErrTokenMalformed, err)
	}
	sig, err := enc.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: signature part: %v", ErrTokenMalformed, err)
	}
	if _, err := enc.DecodeString(parts[2]); err != nil {
		return nil, fmt.Errorf("%w: header part: %v", ErrTokenMalformed, err)
	}

	key, err := c.keys.Key(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyUnavailable, err)
	}

	if subtle.ConstantTimeCompare(sig, computeMAC(payload, key)) != 1 {
		return nil, ErrInvalidSignature
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecoding, err)
	}

	if c.issuer != "" && claims.Issuer != c.issuer {
		return nil, fmt.Errorf("%w: issuer mismatch", ErrInvalidSignature)
	}
	if c.audience != "" && claims.Audience != c.audience {
		return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidSignature)
	}

	return &claims, nil
}

func computeMAC(payload, key []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(payload)
	return h.Sum(nil)
}
