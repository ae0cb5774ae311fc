// Package httpguard binds the auth and ratelimit cores to HTTP and
// WebSocket transports.
//
// The Guard's Admit method is transport-neutral: it runs the rate
// limiter first, then token validation and scope authorization, and
// reports the outcome to the configured observer. Middleware wraps an
// http.Handler with that check; UpgradeWebSocket performs it before
// completing a WebSocket handshake.
package httpguard
