// Package backend talks to the TextBuddy backend.
//
// It provides a net/http implementation of domain.Transport and the
// /connect handshake client built on top of it. The handshake reply is a
// flat JSON object of strings carrying its own HMAC signature, which is
// checked with the game's API key before any field is trusted.
//
// Connect never returns an error: every failure is classified into a
// domain.ErrorKind (network, timeout, 4xx, 5xx, JSON, signature) so the
// caller can report it without unwinding.
package backend
