package auth

import (
	"testing"
	"time"
)

func TestNewClaims(t *testing.T) {
	claims := NewClaims("user123", []string{"read"}, "universal-connector", "universal-connector-api", 24*time.Hour)

	if claims.Subject != "user123" {
		t.Errorf("Subject = %v, want user123", claims.Subject)
	}
	if claims.ExpiresAt <= claims.IssuedAt {
		t.Errorf("ExpiresAt = %d not after IssuedAt = %d", claims.ExpiresAt, claims.IssuedAt)
	}
	if claims.TokenID == "" {
		t.Error("TokenID is empty")
	}
}

func TestClaims_HasScope(t *testing.T) {
	tests := []struct {
		name   string
		scopes []string
		check  string
		want   bool
	}{
		{
			name:   "granted scope",
			scopes: []string{"read", "write"},
			check:  "read",
			want:   true,
		},
		{
			name:   "missing scope",
			scopes: []string{"read"},
			check:  "write",
			want:   false,
		},
		{
			name:   "wildcard grants any scope",
			scopes: []string{"*"},
			check:  "admin:write",
			want:   true,
		},
		{
			name:   "wildcard matches itself",
			scopes: []string{"*"},
			check:  "*",
			want:   true,
		},
		{
			name:   "empty scopes",
			scopes: nil,
			check:  "read",
			want:   false,
		},
		{
			name:   "no partial match",
			scopes: []string{"admin:write"},
			check:  "admin",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := &Claims{Scopes: tt.scopes}
			if got := claims.HasScope(tt.check); got != tt.want {
				t.Errorf("HasScope(%q) = %v, want %v", tt.check, got, tt.want)
			}
		})
	}
}

func TestClaims_IsExpired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		expiresAt int64
		want      bool
	}{
		{
			name:      "one second past expiry",
			expiresAt: now.Unix() - 1,
			want:      true,
		},
		{
			name:      "exactly at expiry",
			expiresAt: now.Unix(),
			want:      true,
		},
		{
			name:      "one second before expiry",
			expiresAt: now.Unix() + 1,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := &Claims{ExpiresAt: tt.expiresAt}
			if got := claims.IsExpired(now); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClaims_WithExtendedExpiry(t *testing.T) {
	claims := NewClaims("user123", []string{"read"}, "iss", "aud", 24*time.Hour)

	extended := claims.WithExtendedExpiry(365 * 24 * time.Hour)

	wantExp := time.Unix(claims.IssuedAt, 0).Add(365 * 24 * time.Hour).Unix()
	if extended.ExpiresAt != wantExp {
		t.Errorf("ExpiresAt = %d, want %d", extended.ExpiresAt, wantExp)
	}

	// Original is unchanged
	if claims.ExpiresAt == extended.ExpiresAt {
		t.Error("WithExtendedExpiry mutated the original claims")
	}

	// Copy is deep
	extended.Scopes[0] = "write"
	if claims.Scopes[0] != "read" {
		t.Error("WithExtendedExpiry shares the scopes slice with the original")
	}
}

func TestClaims_SetCustom(t *testing.T) {
	claims := &Claims{}
	claims.SetCustom("key_name", "ci-pipeline")

	if got := claims.Custom["key_name"]; got != "ci-pipeline" {
		t.Errorf("Custom[key_name] = %v, want ci-pipeline", got)
	}
}

func TestAnonymousClaims(t *testing.T) {
	claims := AnonymousClaims("iss", "aud", time.Hour)

	if claims.Subject != "anonymous" {
		t.Errorf("Subject = %v, want anonymous", claims.Subject)
	}
	if !claims.HasScope("anything") {
		t.Error("anonymous claims should carry the wildcard scope")
	}
}
