package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func testCodec() *Codec {
	return NewCodec(NewStaticKeyProvider([]byte("test-secret-key-at-least-32-bytes")), "universal-connector", "universal-connector-api")
}

func testClaims() *Claims {
	claims := NewClaims("user123", []string{"read", "write"}, "universal-connector", "universal-connector-api", 24*time.Hour)
	claims.SetCustom("key_name", "deploy-bot")
	claims.SetCustom("trusted", true)
	return claims
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := testCodec()
	claims := testClaims()

	token, err := codec.Encode(context.Background(), claims)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	decoded, err := codec.Decode(context.Background(), token)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if !reflect.DeepEqual(decoded, claims) {
		t.Errorf("Decode() = %+v, want %+v", decoded, claims)
	}
}

func TestCodec_Deterministic(t *testing.T) {
	codec := testCodec()
	claims := testClaims()

	first, err := codec.Encode(context.Background(), claims)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	second, err := codec.Encode(context.Background(), claims)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if first != second {
		t.Error("Encode() is not deterministic for identical claims and key")
	}
}

func TestCodec_BearerPrefix(t *testing.T) {
	codec := testCodec()

	token, err := codec.Encode(context.Background(), testClaims())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if _, err := codec.Decode(context.Background(), "Bearer "+token); err != nil {
		t.Errorf("Decode() with Bearer prefix error = %v", err)
	}

	// Prefix matching is case-sensitive: "bearer " is not stripped and
	// the leftover prefix corrupts the first part.
	if _, err := codec.Decode(context.Background(), "bearer "+token); err == nil {
		t.Error("Decode() accepted lowercase bearer prefix")
	}
}

func TestCodec_Malformed(t *testing.T) {
	codec := testCodec()

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "one part", token: "abc"},
		{name: "two parts", token: "abc.def"},
		{name: "four parts", token: "abc.def.ghi.jkl"},
		{name: "invalid base64 payload", token: "!!!.ZGVm.Z2hp"},
		{name: "invalid base64 signature", token: "YWJj.!!!.Z2hp"},
		{name: "invalid base64 header", token: "YWJj.ZGVm.!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode(context.Background(), tt.token)
			if !errors.Is(err, ErrTokenMalformed) {
				t.Errorf("Decode() error = %v, want ErrTokenMalformed", err)
			}
		})
	}
}

func TestCodec_TamperedSignature(t *testing.T) {
	codec := testCodec()

	token, err := codec.Encode(context.Background(), testClaims())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	parts := strings.Split(token, ".")
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode signature part: %v", err)
	}

	// Flipping any byte of the MAC must be detected.
	for i := range sig {
		tampered := make([]byte, len(sig))
		copy(tampered, sig)
		tampered[i] ^= 0x01

		forged := parts[0] + "." + base64.RawURLEncoding.EncodeToString(tampered) + "." + parts[2]
		if _, err := codec.Decode(context.Background(), forged); !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("Decode() with byte %d flipped: error = %v, want ErrInvalidSignature", i, err)
		}
	}
}

func TestCodec_TamperedPayload(t *testing.T) {
	codec := testCodec()

	token, err := codec.Encode(context.Background(), testClaims())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	parts := strings.Split(token, ".")
	payload, _ := base64.RawURLEncoding.DecodeString(parts[0])
	forgedPayload := strings.Replace(string(payload), "user123", "user999", 1)

	forged := base64.RawURLEncoding.EncodeToString([]byte(forgedPayload)) + "." + parts[1] + "." + parts[2]
	if _, err := codec.Decode(context.Background(), forged); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Decode() error = %v, want ErrInvalidSignature", err)
	}
}

func TestCodec_WrongKey(t *testing.T) {
	codec := testCodec()
	other := NewCodec(NewStaticKeyProvider([]byte("a-completely-different-secret-key")), "universal-connector", "universal-connector-api")

	token, err := codec.Encode(context.Background(), testClaims())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if _, err := other.Decode(context.Background(), token); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Decode() error = %v, want ErrInvalidSignature", err)
	}
}

func TestCodec_IssuerAudienceMismatch(t *testing.T) {
	keys := NewStaticKeyProvider([]byte("test-secret-key-at-least-32-bytes"))

	tests := []struct {
		name     string
		issuer   string
		audience string
	}{
		{name: "wrong issuer", issuer: "other-system", audience: "universal-connector-api"},
		{name: "wrong audience", issuer: "universal-connector", audience: "other-api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			minting := NewCodec(keys, tt.issuer, tt.audience)
			claims := NewClaims("user123", []string{"read"}, tt.issuer, tt.audience, time.Hour)

			token, err := minting.Encode(context.Background(), claims)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			// Cross-system replay is rejected as a forgery-class failure.
			if _, err := testCodec().Decode(context.Background(), token); !errors.Is(err, ErrInvalidSignature) {
				t.Errorf("Decode() error = %v, want ErrInvalidSignature", err)
			}
		})
	}
}

func TestCodec_UndecodableClaims(t *testing.T) {
	codec := testCodec()

	// A correctly signed payload that is not a Claims JSON object.
	key := []byte("test-secret-key-at-least-32-bytes")
	payload := []byte("not json")
	enc := base64.RawURLEncoding
	token := enc.EncodeToString(payload) + "." +
		enc.EncodeToString(computeMAC(payload, key)) + "." +
		enc.EncodeToString([]byte(`{"alg":"HS256","typ":"guard"}`))

	if _, err := codec.Decode(context.Background(), token); !errors.Is(err, ErrDecoding) {
		t.Errorf("Decode() error = %v, want ErrDecoding", err)
	}
}

func TestCodec_UnencodableCustom(t *testing.T) {
	codec := testCodec()

	claims := testClaims()
	claims.SetCustom("bad", make(chan int))

	if _, err := codec.Encode(context.Background(), claims); !errors.Is(err, ErrEncoding) {
		t.Errorf("Encode() error = %v, want ErrEncoding", err)
	}
}
