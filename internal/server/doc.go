// Package server is a reference TextBuddy backend: it answers the signed
// /connect handshake, turns inbound sign-up SMS into signed confirmation
// links and exposes Prometheus metrics. It keeps subscriptions in memory
// and exists for local development and end-to-end tests.
package server
