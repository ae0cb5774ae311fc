// Package secret resolves signing-key material from reference strings.
//
// Configuration values may name secrets indirectly, either through
// strict ${VAR} environment expansion or through explicit
// "secretref:<provider>:<ref>" references resolved by a registered
// provider. Resolved values are never logged.
package secret
