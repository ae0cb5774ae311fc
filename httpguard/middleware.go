package httpguard

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/universal-connector/guard/auth"
	"github.com/universal-connector/guard/ratelimit"
)

// ClientIDHeader overrides the rate-limit identity when set by a
// trusted proxy. Absent the header, the remote IP is used.
const ClientIDHeader = "X-Client-ID"

// ClientID extracts the rate-limit identity for a request.
func ClientID(r *http.Request) string {
	if id := r.Header.Get(ClientIDHeader); id != "" {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// StatusCode maps an admission error to its HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, auth.ErrInsufficientScope):
		return http.StatusForbidden
	default:
		return http.StatusUnauthorized
	}
}

// Middleware guards an http.Handler. The endpoint name selects the
// scope requirements configured on the auth service. Admitted requests
// carry the claims and client ID in their context.
func (g *Guard) Middleware(endpoint string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := ClientID(r)
			claims, status, err := g.Admit(r.Context(), clientID, r.Header.Get("Authorization"), endpoint)
			setRateLimitHeaders(w, status)
			if err != nil {
				code := StatusCode(err)
				if code == http.StatusTooManyRequests {
					retry := status.ResetAt - time.Now().Unix()
					if retry < 1 {
						retry = 1
					}
					w.Header().Set("Retry-After", strconv.FormatInt(retry, 10))
				}
				http.Error(w, http.StatusText(code), code)
				return
			}

			ctx := auth.WithClaims(r.Context(), claims)
			ctx = auth.WithClientID(ctx, clientID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func setRateLimitHeaders(w http.ResponseWriter, status ratelimit.Status) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.FormatUint(uint64(status.Limit), 10))
	h.Set("X-RateLimit-Remaining", strconv.FormatUint(uint64(status.Remaining), 10))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(status.ResetAt, 10))
}
