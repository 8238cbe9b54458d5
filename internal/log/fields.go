package log

// Canonical field name constants for structured logging.
const (
	FieldComponent = "component"
	FieldEvent     = "event"

	// Identity fields
	FieldGameID    = "game_id"
	FieldUserID    = "user_id"
	FieldRequestID = "request_id"
	FieldKeyFP     = "api_key_fp"

	// State fields
	FieldOldState = "old_state"
	FieldNewState = "new_state"

	// Handshake fields
	FieldErrorKind  = "error_kind"
	FieldHTTPStatus = "http_status"
	FieldBaseURL    = "base_url"
	FieldDuration   = "duration"

	// Deep-link fields
	FieldURL    = "url"
	FieldHost   = "host"
	FieldReason = "reason"
)
