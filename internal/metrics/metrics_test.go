package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"textbuddy/internal/metrics"
)

func TestRecorder(t *testing.T) {
	r := metrics.New(prometheus.NewRegistry())

	r.Connect("none")
	r.Connect("none")
	r.Transition("none", "pending")
	r.Transition("pending", "pending")
	r.Confirmation("accepted")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.ConnectTotal.WithLabelValues("none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.TransitionTotal.WithLabelValues("none", "pending")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.TransitionTotal.WithLabelValues("pending", "pending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ConfirmationTotal.WithLabelValues("accepted")))
}

func TestRecorder_NilIsSafe(t *testing.T) {
	var r *metrics.Recorder
	assert.NotPanics(t, func() {
		r.Connect("none")
		r.Transition("a", "b")
		r.Confirmation("x")
		r.SMS("SUBSCRIBE", "sent")
		r.Signed("connect")
		r.HTTP("GET", "/metrics", 200, 0.1)
	})
}
