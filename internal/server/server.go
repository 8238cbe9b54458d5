package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	xlog "textbuddy/internal/log"
	"textbuddy/internal/metrics"
)

// Route paths.
const (
	PathConnect = "/connect"
	PathSMS     = "/sms"
	PathMetrics = "/metrics"
)

const maxBodyBytes = 64 << 10

// unmatchedRoute labels requests no route matched, keeping the metric's path
// label bounded.
const unmatchedRoute = "unmatched"

// ErrMissingAPIKey is returned by New without a signing key.
var ErrMissingAPIKey = errors.New("server: api key is required")

// Config configures the reference backend.
type Config struct {
	APIKey      string
	PhoneNumber string // short code reported by /connect
	Scheme      string // confirmation link scheme, default "textbuddy"

	// RateLimit requests per RateWindow per client IP; zero disables.
	RateLimit  int
	RateWindow time.Duration
}

// Server answers the SDK handshake and simulates the SMS gateway.
type Server struct {
	cfg     Config
	log     zerolog.Logger
	reg     *prometheus.Registry
	metrics *metrics.Recorder
	subs    *Subscribers
}

// New returns a Server with its own metrics registry.
func New(cfg Config, log zerolog.Logger) (*Server, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Scheme == "" {
		cfg.Scheme = "textbuddy"
	}
	if cfg.RateLimit > 0 && cfg.RateWindow <= 0 {
		cfg.RateWindow = time.Minute
	}
	reg := prometheus.NewRegistry()
	return &Server{
		cfg:     cfg,
		log:     log,
		reg:     reg,
		metrics: metrics.New(reg),
		subs:    NewSubscribers(),
	}, nil
}

// Subscribers exposes the registry, mainly for tests and admin tooling.
func (s *Server) Subscribers() *Subscribers { return s.subs }

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(s.observe)

	r.Get(PathMetrics, promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}).ServeHTTP)
	r.Group(func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			r.Use(s.rateLimit())
		}
		r.Post(PathConnect, s.handleConnect)
		r.Post(PathSMS, s.handleSMS)
	})
	return r
}

func (s *Server) rateLimit() func(http.Handler) http.Handler {
	return httprate.Limit(
		s.cfg.RateLimit,
		s.cfg.RateWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(s.cfg.RateWindow.Seconds())))
			writeError(w, http.StatusTooManyRequests, "rate_limit_exceeded")
		}),
	)
}

// observe logs each request and records its latency by route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := unmatchedRoute
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		elapsed := time.Since(start)
		s.metrics.HTTP(r.Method, route, status, elapsed.Seconds())
		s.log.Info().
			Str(xlog.FieldRequestID, chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", route).
			Int(xlog.FieldHTTPStatus, status).
			Dur(xlog.FieldDuration, elapsed).
			Msg("request")
	})
}
