package types

// InitState tracks SDK initialization.
type InitState int

const (
	InitNotStarted InitState = iota
	InitInProgress
	InitComplete
)

func (s InitState) String() string {
	switch s {
	case InitNotStarted:
		return "not_started"
	case InitInProgress:
		return "in_progress"
	case InitComplete:
		return "complete"
	default:
		return "invalid"
	}
}

// SubState tracks the user's subscription.
type SubState int

const (
	SubNone SubState = iota
	SubPending
	SubActive
)

func (s SubState) String() string {
	switch s {
	case SubNone:
		return "none"
	case SubPending:
		return "pending"
	case SubActive:
		return "active"
	default:
		return "invalid"
	}
}

// FailReason says why a deep-link confirmation was rejected.
type FailReason int

const (
	ReasonInvalidStatus FailReason = iota + 1
	ReasonSignupFailed
	ReasonSignatureMismatch
	ReasonInvalidID
)

// Message returns the human-readable text reported to the host.
func (r FailReason) Message() string {
	switch r {
	case ReasonInvalidStatus:
		return "Missing or invalid status"
	case ReasonSignupFailed:
		return "Signup failed"
	case ReasonSignatureMismatch:
		return "Signature validation failed"
	case ReasonInvalidID:
		return "Missing or invalid ID"
	default:
		return "Unknown failure"
	}
}

func (r FailReason) String() string {
	switch r {
	case ReasonInvalidStatus:
		return "invalid_status"
	case ReasonSignupFailed:
		return "signup_failed"
	case ReasonSignatureMismatch:
		return "signature_mismatch"
	case ReasonInvalidID:
		return "invalid_id"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent read of the SDK session state.
type Snapshot struct {
	Init        InitState
	Sub         SubState
	UserID      UserID
	PhoneNumber PhoneNumber
}
