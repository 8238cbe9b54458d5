package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_FirstCallWins(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Configure(Config{Output: &first, Level: "debug", Service: "sdk-test"})
	Configure(Config{Output: &second})

	l := WithComponent("subscription")
	l.Debug().Str(FieldGameID, "g1").Msg("hello")

	assert.Zero(t, second.Len())
	var entry map[string]any
	require.NoError(t, json.Unmarshal(first.Bytes(), &entry))
	assert.Equal(t, "sdk-test", entry["service"])
	assert.Equal(t, "subscription", entry[FieldComponent])
	assert.Equal(t, "g1", entry[FieldGameID])
	assert.Equal(t, "hello", entry["message"])
}

func TestConfigure_LevelFilters(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Configure(Config{Output: &buf, Level: "warn"})
	l := Base()
	l.Info().Msg("dropped")
	assert.Zero(t, buf.Len())
	l.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestForSDK_Disabled(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Configure(Config{Output: &buf, Level: "debug"})
	l := ForSDK("sdk", false)
	l.Error().Msg("silent")
	assert.Zero(t, buf.Len())

	l = ForSDK("sdk", true)
	l.Info().Msg("loud")
	assert.Contains(t, buf.String(), "loud")
}
