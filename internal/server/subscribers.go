package server

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"textbuddy/internal/domain"
)

// ErrUnknownSubscriber is returned when an opt-out matches no subscription.
var ErrUnknownSubscriber = errors.New("unknown subscriber")

type subscriber struct {
	game   domain.GameID
	active bool
}

type phoneKey struct {
	game  domain.GameID
	phone string
}

// Subscribers is the backend's in-memory subscription registry.
type Subscribers struct {
	mu      sync.RWMutex
	users   map[domain.UserID]subscriber
	byPhone map[phoneKey]domain.UserID
}

// NewSubscribers returns an empty registry.
func NewSubscribers() *Subscribers {
	return &Subscribers{
		users:   make(map[domain.UserID]subscriber),
		byPhone: make(map[phoneKey]domain.UserID),
	}
}

// Subscribe issues a fresh user ID for the sender and game. An earlier ID
// for the same pair is deactivated.
func (s *Subscribers) Subscribe(game domain.GameID, phone string) domain.UserID {
	id := domain.UserID(uuid.NewString())
	k := phoneKey{game: game, phone: phone}

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byPhone[k]; ok {
		s.users[old] = subscriber{game: game}
	}
	s.byPhone[k] = id
	s.users[id] = subscriber{game: game, active: true}
	return id
}

// Unsubscribe deactivates the sender's subscription to game.
func (s *Subscribers) Unsubscribe(game domain.GameID, phone string) (domain.UserID, error) {
	k := phoneKey{game: game, phone: phone}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byPhone[k]
	if !ok || !s.users[id].active {
		return "", ErrUnknownSubscriber
	}
	s.users[id] = subscriber{game: game}
	return id, nil
}

// Active reports whether id is a live subscription to game.
func (s *Subscribers) Active(game domain.GameID, id domain.UserID) bool {
	if id == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.users[id]
	return ok && sub.active && sub.game == game
}
