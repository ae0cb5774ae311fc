// Package config builds the immutable process configuration snapshot
// for the admission-control layer.
//
// The environment is read exactly once, at startup; the auth and
// ratelimit cores never consult it themselves. Everything they need
// arrives through their config structs.
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/universal-connector/guard/auth"
	"github.com/universal-connector/guard/observe"
	"github.com/universal-connector/guard/ratelimit"
	"github.com/universal-connector/guard/secret"
)

// defaultSecret is the development fallback when no secret is
// configured. Deployments must set JWT_SECRET or JWT_SECRET_REF.
const defaultSecret = "change-this-secret-in-production"

// Config is the process-wide configuration snapshot.
type Config struct {
	Auth      auth.Config
	RateLimit ratelimit.Config
	Observe   observe.Config
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first when present (development
// convenience; deployments set the environment directly).
//
// Recognized variables:
//
//	JWT_SECRET            signing key value
//	JWT_SECRET_REF        secret reference, e.g. secretref:env:JWT_SECRET
//	ENABLE_AUTH           "true" enables token validation (default false)
//	TOKEN_TTL             token lifetime, Go duration (default 24h)
//	API_KEY_TTL           API key lifetime, Go duration (default 8760h)
//	REQUIRED_SCOPES       endpoint=scope,scope;endpoint=scope
//	ENABLE_RATE_LIMIT     "true" enables rate limiting (default true)
//	RATE_LIMIT_RPM        sustained requests per minute (default 60)
//	RATE_LIMIT_BURST      burst capacity (default 10)
//	RATE_LIMIT_IDLE_TTL   idle bucket lifetime, Go duration (default 10m)
//	LOG_LEVEL             debug|info|warn|error (default info)
//	TRACING_EXPORTER      otlp|stdout|none
//	METRICS_EXPORTER      otlp|prometheus|stdout|none
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	keys, err := keyProvider(ctx)
	if err != nil {
		return nil, err
	}

	requiredScopes, err := ParseRequiredScopes(os.Getenv("REQUIRED_SCOPES"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Auth: auth.Config{
			Keys:           keys,
			Enabled:        boolEnv("ENABLE_AUTH", false),
			TokenTTL:       durationEnv("TOKEN_TTL", 24*time.Hour),
			APIKeyTTL:      durationEnv("API_KEY_TTL", 365*24*time.Hour),
			RequiredScopes: requiredScopes,
		},
		RateLimit: ratelimit.Config{
			RequestsPerMinute: intEnv("RATE_LIMIT_RPM", 60),
			Burst:             intEnv("RATE_LIMIT_BURST", 10),
			Enabled:           boolEnv("ENABLE_RATE_LIMIT", true),
			IdleTTL:           durationEnv("RATE_LIMIT_IDLE_TTL", 10*time.Minute),
		},
		Observe: observe.Config{
			ServiceName: "connector-guard",
			Tracing: observe.TracingConfig{
				Enabled:   os.Getenv("TRACING_EXPORTER") != "",
				Exporter:  os.Getenv("TRACING_EXPORTER"),
				SamplePct: 1.0,
			},
			Metrics: observe.MetricsConfig{
				Enabled:  os.Getenv("METRICS_EXPORTER") != "",
				Exporter: os.Getenv("METRICS_EXPORTER"),
			},
			Logging: observe.LoggingConfig{
				Enabled: true,
				Level:   envOr("LOG_LEVEL", "info"),
			},
		},
	}

	return cfg, nil
}

// keyProvider builds the signing-key provider. A JWT_SECRET_REF takes
// precedence and is resolved lazily through the secret resolver;
// otherwise the JWT_SECRET value is used directly.
func keyProvider(_ context.Context) (auth.KeyProvider, error) {
	if ref := os.Getenv("JWT_SECRET_REF"); ref != "" {
		resolver := secret.NewResolver(secret.EnvProvider{})
		return auth.NewResolverKeyProvider(resolver, ref), nil
	}

	value := os.Getenv("JWT_SECRET")
	if value == "" {
		value = defaultSecret
	}
	return auth.NewStaticKeyProvider([]byte(value)), nil
}

// ParseRequiredScopes parses the endpoint scope mapping:
//
//	admin=admin:write;documents=documents:read,documents:write
//
// Empty input yields an empty mapping (no endpoint requires scopes).
func ParseRequiredScopes(s string) (map[string][]string, error) {
	out := make(map[string][]string)
	if strings.TrimSpace(s) == "" {
		return out, nil
	}

	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, scopes, ok := strings.Cut(entry, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid REQUIRED_SCOPES entry %q", entry)
		}
		for _, scope := range strings.Split(scopes, ",") {
			scope = strings.TrimSpace(scope)
			if scope == "" {
				continue
			}
			out[name] = append(out[name], scope)
		}
	}
	return out, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "true"
}

func intEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
