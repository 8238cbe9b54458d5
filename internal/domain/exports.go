package domain

import (
	interfaces "textbuddy/internal/domain/interfaces"
	types "textbuddy/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	GameID          = types.GameID
	UserID          = types.UserID
	PhoneNumber     = types.PhoneNumber
	Query           = types.Query
	Action          = types.Action
	SignUpIntent    = types.SignUpIntent
	ErrorKind       = types.ErrorKind
	ConnectParams   = types.ConnectParams
	ConnectRequest  = types.ConnectRequest
	ConnectResult   = types.ConnectResult
	Request         = types.Request
	Response        = types.Response
	InitState       = types.InitState
	SubState        = types.SubState
	FailReason      = types.FailReason
	Snapshot        = types.Snapshot
	EventKind       = types.EventKind
	Event           = types.Event
	Initialized     = types.Initialized
	Subscribed      = types.Subscribed
	SubscribeFailed = types.SubscribeFailed
	Unsubscribed    = types.Unsubscribed
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	Transport           = interfaces.Transport
	ConnectClient       = interfaces.ConnectClient
	KVStore             = interfaces.KVStore
	SMSSender           = interfaces.SMSSender
	LinkSource          = interfaces.LinkSource
	EventHandler        = interfaces.EventHandler
	SubscriptionService = interfaces.SubscriptionService
)

const (
	ActionSubscribe   = types.ActionSubscribe
	ActionUnsubscribe = types.ActionUnsubscribe

	ErrNone                = types.ErrNone
	ErrNetwork             = types.ErrNetwork
	ErrTimeout             = types.ErrTimeout
	ErrHTTP4xx             = types.ErrHTTP4xx
	ErrHTTP5xx             = types.ErrHTTP5xx
	ErrJSONParse           = types.ErrJSONParse
	ErrSignatureValidation = types.ErrSignatureValidation
	ErrUnknown             = types.ErrUnknown

	InitNotStarted = types.InitNotStarted
	InitInProgress = types.InitInProgress
	InitComplete   = types.InitComplete

	SubNone    = types.SubNone
	SubPending = types.SubPending
	SubActive  = types.SubActive

	ReasonInvalidStatus     = types.ReasonInvalidStatus
	ReasonSignupFailed      = types.ReasonSignupFailed
	ReasonSignatureMismatch = types.ReasonSignatureMismatch
	ReasonInvalidID         = types.ReasonInvalidID

	EventInitialized     = types.EventInitialized
	EventSubscribed      = types.EventSubscribed
	EventSubscribeFailed = types.EventSubscribeFailed
	EventUnsubscribed    = types.EventUnsubscribed
)

var (
	ErrInvalidIntent  = types.ErrInvalidIntent
	ParseSignUpIntent = types.ParseSignUpIntent
)

// HandlerFunc adapts a plain function to EventHandler.
type HandlerFunc func(ev Event)

// HandleEvent calls f(ev).
func (f HandlerFunc) HandleEvent(ev Event) { f(ev) }
