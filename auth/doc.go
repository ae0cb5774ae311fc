// Package auth provides signed-token issuance, validation, and
// scope-based authorization for the connector's API surface.
//
// Tokens are compact three-part strings binding a claims payload to an
// HMAC-SHA256 signature. The package is protocol-agnostic and can be
// used with any transport layer; see the httpguard package for HTTP and
// WebSocket wiring.
package auth
