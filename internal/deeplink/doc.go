// Package deeplink parses deep-link URLs handed to the app by the operating
// system and relays them to the SDK.
//
// Parsing is strict about the URL being absolute and lenient about the
// query: malformed segments are dropped rather than failing the link.
package deeplink
