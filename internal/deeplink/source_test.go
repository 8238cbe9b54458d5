package deeplink_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"textbuddy/internal/deeplink"
)

func TestRelay_PendingUntilListened(t *testing.T) {
	r := deeplink.NewRelay()
	r.Deliver("textbuddy://confirm?a=1")

	url, ok := r.PendingURL()
	assert.True(t, ok)
	assert.Equal(t, "textbuddy://confirm?a=1", url)

	var got []string
	cancel := r.Listen(func(u string) { got = append(got, u) })
	r.Deliver("textbuddy://confirm?a=2")
	assert.Equal(t, []string{"textbuddy://confirm?a=2"}, got)

	cancel()
	cancel()
	r.Deliver("textbuddy://confirm?a=3")
	assert.Len(t, got, 1)

	url, _ = r.PendingURL()
	assert.Equal(t, "textbuddy://confirm?a=3", url)
}

func TestRelay_IgnoresEmpty(t *testing.T) {
	r := deeplink.NewRelay()
	r.Deliver("")
	_, ok := r.PendingURL()
	assert.False(t, ok)
}
