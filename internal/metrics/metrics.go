// Package metrics provides Prometheus counters for the SDK and the
// reference backend.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder groups the counters. A nil *Recorder records nothing.
// Labels stay low-cardinality: no user or request IDs.
type Recorder struct {
	ConnectTotal      *prometheus.CounterVec
	TransitionTotal   *prometheus.CounterVec
	ConfirmationTotal *prometheus.CounterVec
	SMSTotal          *prometheus.CounterVec
	SignedTotal       *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// New registers the counters with reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		ConnectTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "textbuddy_connect_total",
			Help: "Handshake attempts, by result (none on success, else the error kind).",
		}, []string{"result"}),
		TransitionTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "textbuddy_subscription_transitions_total",
			Help: "Subscription state changes, by old and new state.",
		}, []string{"from", "to"}),
		ConfirmationTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "textbuddy_confirmations_total",
			Help: "Deep-link confirmations evaluated, by outcome.",
		}, []string{"outcome"}),
		SMSTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "textbuddy_sms_total",
			Help: "Sign-up messages handed to the composer or received by the backend, by action and result.",
		}, []string{"action", "result"}),
		SignedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "textbuddy_signed_payloads_total",
			Help: "Payloads signed by the backend, by kind.",
		}, []string{"kind"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "textbuddy_http_request_duration_seconds",
			Help:    "Backend HTTP request latencies, by method, route pattern and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

func (r *Recorder) Connect(result string) {
	if r == nil {
		return
	}
	r.ConnectTotal.WithLabelValues(result).Inc()
}

func (r *Recorder) Transition(from, to string) {
	if r == nil || from == to {
		return
	}
	r.TransitionTotal.WithLabelValues(from, to).Inc()
}

func (r *Recorder) Confirmation(outcome string) {
	if r == nil {
		return
	}
	r.ConfirmationTotal.WithLabelValues(outcome).Inc()
}

func (r *Recorder) SMS(action, result string) {
	if r == nil {
		return
	}
	r.SMSTotal.WithLabelValues(action, result).Inc()
}

func (r *Recorder) Signed(kind string) {
	if r == nil {
		return
	}
	r.SignedTotal.WithLabelValues(kind).Inc()
}

// HTTP observes one served request. path must be a route pattern or a fixed
// placeholder for unmatched requests, never a raw URL path.
func (r *Recorder) HTTP(method, path string, status int, seconds float64) {
	if r == nil {
		return
	}
	r.HTTPDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(seconds)
}
