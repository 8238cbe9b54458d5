package types

import "time"

// ErrorKind classifies why a /connect handshake failed.
type ErrorKind int

const (
	ErrNone ErrorKind = iota
	ErrNetwork
	ErrTimeout
	ErrHTTP4xx
	ErrHTTP5xx
	ErrJSONParse
	ErrSignatureValidation
	ErrUnknown ErrorKind = 99
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNone:
		return "none"
	case ErrNetwork:
		return "network"
	case ErrTimeout:
		return "timeout"
	case ErrHTTP4xx:
		return "http_4xx"
	case ErrHTTP5xx:
		return "http_5xx"
	case ErrJSONParse:
		return "json_parse"
	case ErrSignatureValidation:
		return "signature_validation"
	default:
		return "unknown"
	}
}

// ConnectResult is the outcome of one handshake attempt.
type ConnectResult struct {
	Success    bool
	Err        ErrorKind
	HTTPStatus int    // 0 when no response arrived
	Message    string // human-readable error, empty on success
	Raw        string // response body, for diagnostics

	PhoneNumber  PhoneNumber
	IsSubscribed bool
}

// ConnectRequest is the /connect request body.
type ConnectRequest struct {
	GameID GameID `json:"gameID"`
	UserID UserID `json:"userID"`
}

// ConnectParams are the inputs to a handshake.
type ConnectParams struct {
	BaseURL string
	GameID  GameID
	UserID  UserID
	APIKey  string
	Timeout time.Duration
}
