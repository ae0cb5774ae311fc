package auth

import (
	"context"
	"testing"
	"time"
)

func TestClaimsContext(t *testing.T) {
	claims := NewClaims("user123", []string{"read"}, "iss", "aud", time.Hour)

	ctx := WithClaims(context.Background(), claims)

	if got := ClaimsFromContext(ctx); got != claims {
		t.Errorf("ClaimsFromContext() = %v, want %v", got, claims)
	}
	if got := SubjectFromContext(ctx); got != "user123" {
		t.Errorf("SubjectFromContext() = %v, want user123", got)
	}
}

func TestClaimsContext_Empty(t *testing.T) {
	ctx := context.Background()

	if got := ClaimsFromContext(ctx); got != nil {
		t.Errorf("ClaimsFromContext() = %v, want nil", got)
	}
	if got := SubjectFromContext(ctx); got != "" {
		t.Errorf("SubjectFromContext() = %q, want empty", got)
	}
}

func TestClientIDContext(t *testing.T) {
	ctx := WithClientID(context.Background(), "10.0.0.1")

	if got := ClientIDFromContext(ctx); got != "10.0.0.1" {
		t.Errorf("ClientIDFromContext() = %v, want 10.0.0.1", got)
	}
	if got := ClientIDFromContext(context.Background()); got != "" {
		t.Errorf("ClientIDFromContext() = %q, want empty", got)
	}
}
