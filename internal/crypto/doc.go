// Package crypto implements the canonical-query HMAC scheme that
// authenticates both the /connect handshake response and the deep-link
// confirmation.
//
// Contents
//
//   - Strict RFC 3986 percent-encoding (EscapeStrict)
//   - Canonical signing input over a query mapping (Canonical)
//   - HMAC-SHA256 signing and verification (Sign, SignQuery, Verify, Validate)
//   - Short secret fingerprints for logging (Fingerprint)
//
// # Notes
//
// The signature parameter never contributes to its own input. There is no
// nonce or timestamp, so a valid signed mapping can be replayed; callers
// bound that window with their own state.
package crypto
