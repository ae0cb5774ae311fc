package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestJOSE_RoundTrip(t *testing.T) {
	keys := NewStaticKeyProvider([]byte("test-secret-key-at-least-32-bytes"))

	claims := NewClaims("user123", []string{"read", "write"}, "universal-connector", "universal-connector-api", time.Hour)
	claims.SetCustom("key_name", "deploy-bot")

	token, err := SignJOSE(context.Background(), keys, claims)
	if err != nil {
		t.Fatalf("SignJOSE() error = %v", err)
	}

	parsed, err := ParseJOSE(context.Background(), keys, token)
	if err != nil {
		t.Fatalf("ParseJOSE() error = %v", err)
	}

	if parsed.Subject != claims.Subject {
		t.Errorf("Subject = %v, want %v", parsed.Subject, claims.Subject)
	}
	if parsed.Issuer != claims.Issuer {
		t.Errorf("Issuer = %v, want %v", parsed.Issuer, claims.Issuer)
	}
	if parsed.Audience != claims.Audience {
		t.Errorf("Audience = %v, want %v", parsed.Audience, claims.Audience)
	}
	if parsed.TokenID != claims.TokenID {
		t.Errorf("TokenID = %v, want %v", parsed.TokenID, claims.TokenID)
	}
	if parsed.IssuedAt != claims.IssuedAt || parsed.ExpiresAt != claims.ExpiresAt {
		t.Errorf("timestamps = (%d, %d), want (%d, %d)",
			parsed.IssuedAt, parsed.ExpiresAt, claims.IssuedAt, claims.ExpiresAt)
	}
	if !parsed.HasScope("read") || !parsed.HasScope("write") {
		t.Errorf("Scopes = %v, want [read write]", parsed.Scopes)
	}
	if got := parsed.Custom["key_name"]; got != "deploy-bot" {
		t.Errorf("Custom[key_name] = %v, want deploy-bot", got)
	}
}

func TestParseJOSE_Expired(t *testing.T) {
	keys := NewStaticKeyProvider([]byte("test-secret-key-at-least-32-bytes"))

	claims := NewClaims("user123", []string{"read"}, "iss", "aud", time.Hour)
	claims.IssuedAt = time.Now().Add(-2 * time.Hour).Unix()
	claims.ExpiresAt = time.Now().Add(-time.Hour).Unix()

	token, err := SignJOSE(context.Background(), keys, claims)
	if err != nil {
		t.Fatalf("SignJOSE() error = %v", err)
	}

	if _, err := ParseJOSE(context.Background(), keys, token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("ParseJOSE() error = %v, want ErrTokenExpired", err)
	}
}

func TestParseJOSE_WrongKey(t *testing.T) {
	keys := NewStaticKeyProvider([]byte("test-secret-key-at-least-32-bytes"))
	other := NewStaticKeyProvider([]byte("a-completely-different-secret-key"))

	token, err := SignJOSE(context.Background(), keys, NewClaims("user123", nil, "iss", "aud", time.Hour))
	if err != nil {
		t.Fatalf("SignJOSE() error = %v", err)
	}

	if _, err := ParseJOSE(context.Background(), other, token); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("ParseJOSE() error = %v, want ErrInvalidSignature", err)
	}
}

func TestParseJOSE_Malformed(t *testing.T) {
	keys := NewStaticKeyProvider([]byte("test-secret-key-at-least-32-bytes"))

	if _, err := ParseJOSE(context.Background(), keys, "not a jose token"); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("ParseJOSE() error = %v, want ErrTokenMalformed", err)
	}
}
