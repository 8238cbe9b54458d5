package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"textbuddy/internal/crypto"
	"textbuddy/internal/domain"
	xlog "textbuddy/internal/log"
)

const (
	// ConnectPath is the handshake endpoint, relative to the base URL.
	ConnectPath = "/connect"

	// DefaultTimeout bounds a handshake when the caller sets none.
	DefaultTimeout = 10 * time.Second

	statusSubscribed = "subscribed"
)

// Response fields of the /connect reply.
const (
	FieldPhoneNumber  = "phoneNumber"
	FieldUserIDStatus = "userIDStatus"
)

// Client performs the /connect handshake over a domain.Transport.
type Client struct {
	transport domain.Transport
	log       zerolog.Logger
}

// NewClient returns a Client sending through t.
func NewClient(t domain.Transport, log zerolog.Logger) *Client {
	return &Client{transport: t, log: log}
}

// Connect posts {gameID, userID} to <BaseURL>/connect, checks the signed
// reply with APIKey and reports the outcome. It never fails outright:
// transport, HTTP, decoding and signature problems are classified in that
// order and the first one found is returned in the result.
func (c *Client) Connect(ctx context.Context, p domain.ConnectParams) domain.ConnectResult {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	payload, err := json.Marshal(domain.ConnectRequest{GameID: p.GameID, UserID: p.UserID})
	if err != nil {
		return domain.ConnectResult{Err: domain.ErrUnknown, Message: err.Error()}
	}

	started := time.Now()
	res := c.transport.Send(ctx, domain.Request{
		Method:  http.MethodPost,
		URL:     strings.TrimRight(p.BaseURL, "/") + ConnectPath,
		Header:  http.Header{"Content-Type": []string{"application/json"}},
		Body:    payload,
		Timeout: timeout,
	})
	out := classify(res, p.APIKey)

	ev := c.log.Debug()
	if !out.Success {
		ev = c.log.Warn()
	}
	ev.Str(xlog.FieldBaseURL, p.BaseURL).
		Str(xlog.FieldGameID, p.GameID.String()).
		Int(xlog.FieldHTTPStatus, out.HTTPStatus).
		Stringer(xlog.FieldErrorKind, out.Err).
		Dur(xlog.FieldDuration, time.Since(started)).
		Msg("connect finished")
	return out
}

func classify(res domain.Response, apiKey string) domain.ConnectResult {
	raw := string(res.Body)
	if !res.Success {
		msg := res.ErrorMessage
		if msg == "" {
			msg = "Request failed"
		}
		return domain.ConnectResult{
			Err:        transportError(res),
			HTTPStatus: res.StatusCode,
			Message:    msg,
			Raw:        raw,
		}
	}

	var body domain.Query
	if err := json.Unmarshal(res.Body, &body); err != nil {
		return domain.ConnectResult{
			Err:        domain.ErrJSONParse,
			HTTPStatus: res.StatusCode,
			Message:    "Invalid JSON: " + err.Error(),
			Raw:        raw,
		}
	}

	if !crypto.Validate(body, apiKey, crypto.DefaultSignatureKey) {
		return domain.ConnectResult{
			Err:        domain.ErrSignatureValidation,
			HTTPStatus: res.StatusCode,
			Message:    "Response signature validation failed",
			Raw:        raw,
		}
	}

	return domain.ConnectResult{
		Success:      true,
		Err:          domain.ErrNone,
		HTTPStatus:   res.StatusCode,
		Raw:          raw,
		PhoneNumber:  domain.PhoneNumber(body[FieldPhoneNumber]),
		IsSubscribed: strings.EqualFold(body[FieldUserIDStatus], statusSubscribed),
	}
}

func transportError(res domain.Response) domain.ErrorKind {
	// No HTTP status means the request never got an answer.
	if res.StatusCode == 0 {
		msg := strings.ToLower(res.ErrorMessage)
		if strings.Contains(msg, "timed out") || strings.Contains(msg, "timeout") {
			return domain.ErrTimeout
		}
		return domain.ErrNetwork
	}
	switch {
	case res.StatusCode >= 500:
		return domain.ErrHTTP5xx
	case res.StatusCode >= 400:
		return domain.ErrHTTP4xx
	default:
		return domain.ErrUnknown
	}
}

var _ domain.ConnectClient = (*Client)(nil)
