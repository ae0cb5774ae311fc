package auth

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for token validation and authorization.
var (
	// Authentication errors
	ErrTokenMalformed   = errors.New("auth: token malformed")
	ErrInvalidSignature = errors.New("auth: invalid token signature")
	ErrTokenExpired     = errors.New("auth: token expired")
	ErrEncoding         = errors.New("auth: claims not encodable")
	ErrDecoding         = errors.New("auth: claims not decodable")
	ErrKeyUnavailable   = errors.New("auth: signing key unavailable")

	// Authorization errors
	ErrInsufficientScope = errors.New("auth: insufficient scope")
)

// ScopeError reports an authorization failure: the caller authenticated
// successfully but lacks scopes the endpoint requires. It is distinct
// from the authentication sentinels above so callers can map it to a
// 403 rather than a 401.
type ScopeError struct {
	// Subject is the identity that was denied.
	Subject string

	// Endpoint is the endpoint that was denied access to.
	Endpoint string

	// Missing are the required scopes the claims did not carry.
	Missing []string
}

// Error returns the error message.
func (e *ScopeError) Error() string {
	return fmt.Sprintf("auth: subject %q missing scopes [%s] for endpoint %q",
		e.Subject, strings.Join(e.Missing, ", "), e.Endpoint)
}

// Is reports whether this error matches the target.
func (e *ScopeError) Is(target error) bool {
	return target == ErrInsufficientScope
}
