package types

import (
	"net/http"
	"time"
)

// Request is what the SDK hands to its transport.
type Request struct {
	Method  string
	URL     string
	Header  http.Header
	Body    []byte
	Timeout time.Duration
}

// Response is what a transport reports back. Success is false for
// transport failures (StatusCode 0) and for HTTP error statuses.
type Response struct {
	Success      bool
	StatusCode   int
	ErrorMessage string
	Body         []byte
}
