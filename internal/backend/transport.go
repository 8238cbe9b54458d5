package backend

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"textbuddy/internal/domain"
)

const (
	defaultDialTimeout           = 3 * time.Second
	defaultIdleConnTimeout       = 30 * time.Second
	defaultMaxIdleConnsPerHost   = 2
	maxResponseBytes       int64 = 1 << 20
)

// HeaderRequestID carries a per-request correlation identifier.
const HeaderRequestID = "X-Request-ID"

// NewHTTPClient returns an HTTP client with bounded dial and idle timeouts.
// Per-request deadlines come from the request context.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: 30 * time.Second}).DialContext,
			ForceAttemptHTTP2:   true,
			MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
			IdleConnTimeout:     defaultIdleConnTimeout,
			TLSHandshakeTimeout: defaultDialTimeout,
		},
	}
}

// HTTPTransport implements domain.Transport over net/http.
type HTTPTransport struct {
	HTTP *http.Client
}

// NewHTTPTransport returns a transport using c, or a fresh hardened client
// when c is nil.
func NewHTTPTransport(c *http.Client) *HTTPTransport {
	if c == nil {
		c = NewHTTPClient()
	}
	return &HTTPTransport{HTTP: c}
}

// Send performs req. Transport failures come back with StatusCode 0 and an
// error message that mentions "timeout" when a deadline expired. Responses
// with status >= 400 are unsuccessful but keep their status and body.
func (t *HTTPTransport) Send(ctx context.Context, req domain.Request) domain.Response {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	hreq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return domain.Response{ErrorMessage: err.Error()}
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			hreq.Header.Add(k, v)
		}
	}
	if req.Body != nil && hreq.Header.Get("Content-Type") == "" {
		hreq.Header.Set("Content-Type", "application/json")
	}
	if hreq.Header.Get(HeaderRequestID) == "" {
		hreq.Header.Set(HeaderRequestID, uuid.NewString())
	}

	resp, err := t.HTTP.Do(hreq)
	if err != nil {
		return domain.Response{ErrorMessage: describe(err)}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.Response{StatusCode: resp.StatusCode, ErrorMessage: describe(err)}
	}
	out := domain.Response{
		Success:    resp.StatusCode < 400,
		StatusCode: resp.StatusCode,
		Body:       b,
	}
	if !out.Success {
		out.ErrorMessage = "HTTP " + resp.Status
	}
	return out
}

// describe renders a transport error, making deadline expiry recognizable
// by its text.
func describe(err error) string {
	msg := err.Error()
	var ne net.Error
	timedOut := errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout())
	if timedOut && !strings.Contains(strings.ToLower(msg), "timeout") {
		return "timeout: " + msg
	}
	return msg
}

var _ domain.Transport = (*HTTPTransport)(nil)
