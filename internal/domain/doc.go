// Package domain defines core data models and interfaces shared across the SDK.
// It contains plain types (wire/state/events) and contracts for the external
// collaborators (transport, store, SMS composer, deep-link delivery) only.
package domain
