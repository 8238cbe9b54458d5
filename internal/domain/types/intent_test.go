package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textbuddy/internal/domain/types"
)

func TestSignUpIntent_String(t *testing.T) {
	in := types.SignUpIntent{Action: types.ActionUnsubscribe, GameID: "g-7"}
	assert.Equal(t, "Action: UNSUBSCRIBE\nGameID: g-7", in.String())
}

func TestParseSignUpIntent(t *testing.T) {
	got, err := types.ParseSignUpIntent("Action: SUBSCRIBE\r\nGameID: g1\n")
	require.NoError(t, err)
	assert.Equal(t, types.SignUpIntent{Action: types.ActionSubscribe, GameID: "g1"}, got)

	for _, body := range []string{
		"",
		"Action: SUBSCRIBE",
		"Action: DANCE\nGameID: g1",
		"GameID: g1\nAction: SUBSCRIBE",
		"Action: SUBSCRIBE\nGameID: ",
	} {
		_, err := types.ParseSignUpIntent(body)
		assert.ErrorIs(t, err, types.ErrInvalidIntent, body)
	}
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "signature_validation", types.ErrSignatureValidation.String())
	assert.Equal(t, "unknown", types.ErrUnknown.String())
	assert.Equal(t, "complete", types.InitComplete.String())
	assert.Equal(t, "pending", types.SubPending.String())
	assert.Equal(t, "Signature validation failed", types.ReasonSignatureMismatch.Message())
	assert.Equal(t, types.EventSubscribeFailed, types.SubscribeFailed{}.Kind())
}
