// Package main runs the in-memory TextBuddy reference backend used during
// development and tests.
//
// HTTP API
//
//	POST /connect {"gameID": "...", "userID": "..."}
//	    Return {"phoneNumber", "userIDStatus", "sig"} signed with the API key.
//	    userIDStatus is "subscribed" when userID holds a live subscription to
//	    gameID, otherwise "unsubscribed".
//
//	POST /sms {"from": "...", "body": "Action: SUBSCRIBE\nGameID: ..."}
//	    Simulate an inbound sign-up message. SUBSCRIBE issues a user ID and
//	    returns the signed confirmation link; UNSUBSCRIBE ends the sender's
//	    subscription.
//
//	GET /metrics
//	    Prometheus exposition.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - Responses are JSON. Non-2xx statuses carry {"error": code}.
//   - Every request is logged with its method, route, status and duration.
//   - POST routes are rate limited per client IP when --rate-limit is set.
//   - The default listen address is :8080.
package main
