package types

// EventKind discriminates SDK events.
type EventKind int

const (
	EventInitialized EventKind = iota + 1
	EventSubscribed
	EventSubscribeFailed
	EventUnsubscribed
)

func (k EventKind) String() string {
	switch k {
	case EventInitialized:
		return "initialized"
	case EventSubscribed:
		return "subscribed"
	case EventSubscribeFailed:
		return "subscribe_failed"
	case EventUnsubscribed:
		return "unsubscribed"
	default:
		return "unknown"
	}
}

// Event is one state transition reported to the host.
type Event interface {
	Kind() EventKind
}

// Initialized reports the end of a handshake attempt.
type Initialized struct {
	Success bool
	Err     ErrorKind
	Message string
}

// Subscribed reports an accepted deep-link confirmation.
type Subscribed struct {
	UserID UserID
}

// SubscribeFailed reports a rejected deep-link confirmation.
type SubscribeFailed struct {
	Reason FailReason
}

// Unsubscribed reports an opt-out; UserID is the identifier that was cleared.
type Unsubscribed struct {
	UserID UserID
}

func (Initialized) Kind() EventKind     { return EventInitialized }
func (Subscribed) Kind() EventKind      { return EventSubscribed }
func (SubscribeFailed) Kind() EventKind { return EventSubscribeFailed }
func (Unsubscribed) Kind() EventKind    { return EventUnsubscribed }

// Message is the failure text carried by the event.
func (e SubscribeFailed) Message() string { return e.Reason.Message() }
