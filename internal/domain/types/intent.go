package types

import (
	"errors"
	"fmt"
	"strings"
)

// Action is what the user asks for in a sign-up SMS.
type Action string

const (
	ActionSubscribe   Action = "SUBSCRIBE"
	ActionUnsubscribe Action = "UNSUBSCRIBE"
)

// ErrInvalidIntent is returned when an SMS body is not a sign-up intent.
var ErrInvalidIntent = errors.New("invalid sign-up intent")

const (
	actionPrefix = "Action: "
	gamePrefix   = "GameID: "
)

// SignUpIntent is the message the user sends by SMS to opt in or out.
type SignUpIntent struct {
	Action Action
	GameID GameID
}

// String renders the intent as the two-line SMS body.
func (i SignUpIntent) String() string {
	return actionPrefix + string(i.Action) + "\n" + gamePrefix + string(i.GameID)
}

// ParseSignUpIntent reads an SMS body produced by SignUpIntent.String.
// Surrounding whitespace and CRLF line endings are tolerated.
func ParseSignUpIntent(body string) (SignUpIntent, error) {
	lines := strings.Split(strings.ReplaceAll(strings.TrimSpace(body), "\r\n", "\n"), "\n")
	if len(lines) != 2 {
		return SignUpIntent{}, fmt.Errorf("%w: want 2 lines, got %d", ErrInvalidIntent, len(lines))
	}
	action, ok := strings.CutPrefix(strings.TrimSpace(lines[0]), actionPrefix)
	if !ok {
		return SignUpIntent{}, fmt.Errorf("%w: missing action line", ErrInvalidIntent)
	}
	game, ok := strings.CutPrefix(strings.TrimSpace(lines[1]), gamePrefix)
	if !ok || strings.TrimSpace(game) == "" {
		return SignUpIntent{}, fmt.Errorf("%w: missing game id", ErrInvalidIntent)
	}
	switch a := Action(strings.TrimSpace(action)); a {
	case ActionSubscribe, ActionUnsubscribe:
		return SignUpIntent{Action: a, GameID: GameID(strings.TrimSpace(game))}, nil
	default:
		return SignUpIntent{}, fmt.Errorf("%w: unknown action %q", ErrInvalidIntent, action)
	}
}
