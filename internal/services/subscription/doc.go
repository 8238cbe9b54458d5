// Package subscription implements the SDK session: the /connect handshake,
// the SMS opt-in and opt-out flow and deep-link confirmation.
//
// A Service owns two states, InitState (NotStarted, InProgress, Complete)
// and SubState (None, Pending, Active), plus the cached user ID and the
// phone number sign-up messages go to. Hosts observe transitions through
// OnEvent.
package subscription
