// Package commands defines the textbuddy CLI, a host harness for the SDK.
//
// Commands
//
//   - connect      Run the handshake and print the session state
//   - subscribe    Start an SMS opt-in (prints the composer URL)
//   - confirm      Deliver a confirmation deep link to a pending opt-in
//   - unsubscribe  Opt out and forget the cached user ID
//   - status       Print the cached user ID without contacting the backend
//   - sign         Print a signed query string
//   - verify       Check a deep link's signature
//   - parse        Print the parts of a deep link
//
// # Implementation
//
// The root command loads the configuration and builds the dependency graph
// (store, backend client, SMS composer, subscription service) before any
// command that needs it runs. sign, verify and parse work offline and skip
// that step.
package commands
