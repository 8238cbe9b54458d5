package subscription

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"textbuddy/internal/crypto"
	"textbuddy/internal/deeplink"
	"textbuddy/internal/domain"
	xlog "textbuddy/internal/log"
	"textbuddy/internal/metrics"
	"textbuddy/internal/store"
)

// DefaultHostName is the reserved deep-link host (and URL scheme) the SDK
// answers to.
const DefaultHostName = "textbuddy"

// Confirmation query parameters.
const (
	ParamStatus   = "status"
	ParamID       = "id"
	statusSuccess = "success"
)

var (
	// ErrMissingGameID is returned by New when no game ID is configured.
	ErrMissingGameID = errors.New("subscription: game id is required")
	// ErrMissingAPIKey is returned by New when no API key is configured.
	ErrMissingAPIKey = errors.New("subscription: api key is required")
	// ErrMissingDependency is returned by New when a collaborator is nil.
	ErrMissingDependency = errors.New("subscription: missing dependency")
)

// Config is read once at construction and never changes.
type Config struct {
	GameID     domain.GameID
	APIKey     string
	EnableLogs bool

	BaseURL  string
	Timeout  time.Duration
	HostName string // defaults to DefaultHostName
}

// Deps are the external collaborators. Links and Metrics are optional.
type Deps struct {
	Connect domain.ConnectClient
	Store   domain.KVStore
	SMS     domain.SMSSender
	Links   domain.LinkSource
	Metrics *metrics.Recorder
	// Log overrides the logger derived from Config.EnableLogs.
	Log *zerolog.Logger
}

// Service owns the SDK session state: initialization, subscription, the
// cached user ID and the phone number sign-up messages go to.
//
// All transitions happen under one mutex, so a deep link racing the
// handshake sees either the state before or after it, never a mix. Events
// are emitted after the mutex is released, so handlers may call back into
// the Service.
type Service struct {
	cfg     Config
	connect domain.ConnectClient
	store   domain.KVStore
	sms     domain.SMSSender
	links   domain.LinkSource
	metrics *metrics.Recorder
	log     zerolog.Logger

	observers observers
	inflight  sync.WaitGroup

	mu          sync.Mutex
	init        domain.InitState
	sub         domain.SubState
	userID      domain.UserID
	phone       domain.PhoneNumber
	stopLinks   func()
	cancelCalls context.CancelFunc
	closed      bool
}

// New builds a Service in its initial state (NotStarted, None). Nothing is
// read from the store until Initialize.
func New(cfg Config, deps Deps) (*Service, error) {
	if strings.TrimSpace(cfg.GameID.String()) == "" {
		return nil, ErrMissingGameID
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	switch {
	case deps.Connect == nil:
		return nil, errors.Join(ErrMissingDependency, errors.New("connect client"))
	case deps.Store == nil:
		return nil, errors.Join(ErrMissingDependency, errors.New("store"))
	case deps.SMS == nil:
		return nil, errors.Join(ErrMissingDependency, errors.New("sms sender"))
	}
	if cfg.HostName == "" {
		cfg.HostName = DefaultHostName
	}

	logger := xlog.ForSDK("subscription", cfg.EnableLogs)
	if deps.Log != nil {
		logger = *deps.Log
	}
	logger = logger.With().
		Str(xlog.FieldGameID, cfg.GameID.String()).
		Str(xlog.FieldKeyFP, crypto.Fingerprint(cfg.APIKey)).
		Logger()

	return &Service{
		cfg:     cfg,
		connect: deps.Connect,
		store:   deps.Store,
		sms:     deps.SMS,
		links:   deps.Links,
		metrics: deps.Metrics,
		log:     logger,
		init:    domain.InitNotStarted,
		sub:     domain.SubNone,
	}, nil
}

// OnEvent registers h for every future event. The returned func removes it
// and is safe to call any number of times.
func (s *Service) OnEvent(h domain.EventHandler) (unregister func()) {
	return s.observers.add(h)
}

// Initialize starts the handshake if it has not started yet (or rolled back
// after a failure). The outcome arrives as an Initialized event.
func (s *Service) Initialize(ctx context.Context) {
	s.mu.Lock()
	if s.closed || s.init != domain.InitNotStarted {
		s.mu.Unlock()
		return
	}
	s.init = domain.InitInProgress
	s.userID = s.loadUserID()
	ctx, cancel := context.WithCancel(ctx)
	s.cancelCalls = cancel
	params := domain.ConnectParams{
		BaseURL: s.cfg.BaseURL,
		GameID:  s.cfg.GameID,
		UserID:  s.userID,
		APIKey:  s.cfg.APIKey,
		Timeout: s.cfg.Timeout,
	}
	s.inflight.Add(1)
	s.mu.Unlock()

	s.log.Info().Str(xlog.FieldUserID, params.UserID.String()).Msg("initializing")
	go func() {
		defer s.inflight.Done()
		defer cancel()
		res := s.connect.Connect(ctx, params)
		s.finishInitialize(res)
	}()
}

func (s *Service) finishInitialize(res domain.ConnectResult) {
	s.metrics.Connect(res.Err.String())

	var ev domain.Initialized
	s.mu.Lock()
	s.cancelCalls = nil
	if res.Success {
		s.phone = res.PhoneNumber
		switch {
		case res.IsSubscribed && s.userID != "":
			s.setSub(domain.SubActive)
		case res.IsSubscribed:
			s.log.Warn().Msg("backend reports subscribed but no user id is cached")
		default:
			s.setUserID("")
		}
		s.init = domain.InitComplete
		s.listenLocked()
		ev = domain.Initialized{Success: true}
	} else {
		s.init = domain.InitNotStarted
		s.setSub(domain.SubNone)
		ev = domain.Initialized{Err: res.Err, Message: res.Message}
	}
	sub := s.sub
	s.mu.Unlock()

	if res.Success {
		s.log.Info().Stringer(xlog.FieldNewState, sub).Msg("initialized")
	} else {
		s.log.Warn().
			Stringer(xlog.FieldErrorKind, res.Err).
			Int(xlog.FieldHTTPStatus, res.HTTPStatus).
			Str("message", res.Message).
			Msg("initialization failed")
	}
	s.observers.emit(ev)
}

// listenLocked registers for deep links once. Caller holds s.mu.
func (s *Service) listenLocked() {
	if s.links == nil || s.stopLinks != nil || s.closed {
		return
	}
	s.stopLinks = s.links.Listen(s.HandleDeepLink)
}

// Subscribe moves None → Pending and asks the user to send the SUBSCRIBE
// message. It is a no-op in any other state.
func (s *Service) Subscribe(ctx context.Context) {
	s.mu.Lock()
	if s.sub != domain.SubNone {
		s.mu.Unlock()
		return
	}
	s.setSub(domain.SubPending)
	phone := s.phone
	s.mu.Unlock()

	s.dispatch(ctx, domain.ActionSubscribe, phone)
}

// Unsubscribe moves Active → None, sends the UNSUBSCRIBE message and clears
// the cached user ID. It is a no-op in any other state.
func (s *Service) Unsubscribe(ctx context.Context) {
	s.mu.Lock()
	if s.sub != domain.SubActive {
		s.mu.Unlock()
		return
	}
	prev := s.userID
	phone := s.phone
	s.setSub(domain.SubNone)
	s.setUserID("")
	s.mu.Unlock()

	s.dispatch(ctx, domain.ActionUnsubscribe, phone)
	s.observers.emit(domain.Unsubscribed{UserID: prev})
}

func (s *Service) dispatch(ctx context.Context, action domain.Action, phone domain.PhoneNumber) {
	intent := domain.SignUpIntent{Action: action, GameID: s.cfg.GameID}
	if err := s.sms.SendSMS(ctx, phone.String(), intent.String()); err != nil {
		s.metrics.SMS(string(action), "error")
		s.log.Warn().Err(err).Str("action", string(action)).Msg("sms dispatch failed")
		return
	}
	s.metrics.SMS(string(action), "sent")
	s.log.Info().Str("action", string(action)).Msg("sms dispatched")
}

// HandleDeepLink evaluates a confirmation link. Links are ignored unless
// initialization is complete, a subscription is pending and the link is
// addressed to the SDK. A link with no query, or one that repeats a key,
// is also ignored and leaves the opt-in pending.
func (s *Service) HandleDeepLink(url string) {
	link := deeplink.Parse(url)

	s.mu.Lock()
	if s.init != domain.InitComplete || s.sub != domain.SubPending || !s.addressed(link) {
		initState, subState := s.init, s.sub
		s.mu.Unlock()
		s.log.Debug().
			Str(xlog.FieldURL, url).
			Stringer("init", initState).
			Stringer("sub", subState).
			Msg("deep link ignored")
		return
	}

	q, ok := link.Query()
	if !ok {
		s.mu.Unlock()
		s.log.Debug().Str(xlog.FieldURL, url).Msg("deep link without usable query ignored")
		return
	}
	var ev domain.Event
	id, reason := s.checkConfirmation(q)
	if reason != 0 {
		s.setSub(domain.SubNone)
		ev = domain.SubscribeFailed{Reason: reason}
	} else {
		s.setUserID(id)
		s.setSub(domain.SubActive)
		ev = domain.Subscribed{UserID: id}
	}
	s.mu.Unlock()

	if reason != 0 {
		s.metrics.Confirmation(reason.String())
		s.log.Warn().Stringer(xlog.FieldReason, reason).Msg("subscription confirmation rejected")
	} else {
		s.metrics.Confirmation("accepted")
		s.log.Info().Str(xlog.FieldUserID, id.String()).Msg("subscription confirmed")
	}
	s.observers.emit(ev)
}

// CheckPendingDeepLink handles the link the app was launched with, if any.
func (s *Service) CheckPendingDeepLink() {
	if s.links == nil {
		return
	}
	if url, ok := s.links.PendingURL(); ok {
		s.HandleDeepLink(url)
	}
}

// addressed reports whether link targets the SDK: its host is the reserved
// name, or its scheme is the reserved name optionally suffixed "-<anything>".
// The scheme form means textbuddy://confirm and textbuddy://anything both
// match whatever their host; those links still need a valid signature to
// confirm anything.
func (s *Service) addressed(link *deeplink.Link) bool {
	if !link.Valid() {
		return false
	}
	name := s.cfg.HostName
	if host, _ := link.Host(); strings.EqualFold(host, name) {
		return true
	}
	scheme, _ := link.Scheme()
	scheme = strings.ToLower(scheme)
	name = strings.ToLower(name)
	return scheme == name || strings.HasPrefix(scheme, name+"-")
}

// checkConfirmation runs the confirmation checks in order: status present,
// status is success, signature valid, id present.
func (s *Service) checkConfirmation(q domain.Query) (domain.UserID, domain.FailReason) {
	status, ok := q.Lookup(ParamStatus)
	if !ok || strings.TrimSpace(status) == "" {
		return "", domain.ReasonInvalidStatus
	}
	if !strings.EqualFold(status, statusSuccess) {
		return "", domain.ReasonSignupFailed
	}
	if err := crypto.Verify(q, s.cfg.APIKey, crypto.DefaultSignatureKey); err != nil {
		s.log.Debug().Err(err).Msg("confirmation signature rejected")
		return "", domain.ReasonSignatureMismatch
	}
	id, ok := q.Lookup(ParamID)
	if !ok || strings.TrimSpace(id) == "" {
		return "", domain.ReasonInvalidID
	}
	return domain.UserID(id), 0
}

// setSub changes the subscription state. Caller holds s.mu.
func (s *Service) setSub(next domain.SubState) {
	if s.sub == next {
		return
	}
	s.metrics.Transition(s.sub.String(), next.String())
	s.log.Debug().
		Stringer(xlog.FieldOldState, s.sub).
		Stringer(xlog.FieldNewState, next).
		Msg("subscription state")
	s.sub = next
}

// setUserID updates the user ID and mirrors it into the store. Store errors
// are logged; the in-memory value is authoritative for this process.
// Caller holds s.mu.
func (s *Service) setUserID(id domain.UserID) {
	s.userID = id
	if err := s.store.SetString(store.UserIDKey, id.String()); err != nil {
		s.log.Error().Err(err).Msg("persist user id")
	}
}

func (s *Service) loadUserID() domain.UserID {
	v, err := s.store.GetString(store.UserIDKey, "")
	if err != nil {
		s.log.Error().Err(err).Msg("load user id")
	}
	return domain.UserID(v)
}

// Wait blocks until no handshake is in flight.
func (s *Service) Wait() { s.inflight.Wait() }

// Close stops listening for deep links, cancels an in-flight handshake and
// waits for it to finish. Later Initialize calls are ignored.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	stop := s.stopLinks
	s.stopLinks = nil
	cancel := s.cancelCalls
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
	if cancel != nil {
		cancel()
	}
	s.inflight.Wait()
}

// Snapshot returns a consistent copy of the session state.
func (s *Service) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Snapshot{Init: s.init, Sub: s.sub, UserID: s.userID, PhoneNumber: s.phone}
}

func (s *Service) InitState() domain.InitState { return s.Snapshot().Init }
func (s *Service) SubState() domain.SubState   { return s.Snapshot().Sub }
func (s *Service) UserID() domain.UserID       { return s.Snapshot().UserID }
func (s *Service) PhoneNumber() domain.PhoneNumber {
	return s.Snapshot().PhoneNumber
}

func (s *Service) IsInitialized() bool      { return s.InitState() == domain.InitComplete }
func (s *Service) IsSubscribed() bool       { return s.SubState() == domain.SubActive }
func (s *Service) IsSignupInProgress() bool { return s.SubState() == domain.SubPending }

// Compile-time assertion that Service implements domain.SubscriptionService.
var _ domain.SubscriptionService = (*Service)(nil)
