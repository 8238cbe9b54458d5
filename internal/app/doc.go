// Package app wires application dependencies for the CLI.
//
// It loads Config (defaults, YAML file, TEXTBUDDY_* environment), builds the
// store, backend client, SMS composer, deep-link relay and subscription
// service from it, and exposes them via the Wire struct. App wraps a Wire
// with an event recorder so commands can report outcomes.
package app
