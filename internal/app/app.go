package app

import (
	"context"
	"fmt"
	"sync"

	"textbuddy/internal/domain"
)

// App is the host-side facade the CLI drives. It records every event the
// service emits so commands can report outcomes after the fact.
type App struct {
	*Wire

	mu         sync.Mutex
	events     []domain.Event
	unregister func()
}

// New attaches an event recorder to w.Service.
func New(w *Wire) *App {
	a := &App{Wire: w}
	a.unregister = w.Service.OnEvent(domain.HandlerFunc(a.record))
	return a
}

func (a *App) record(ev domain.Event) {
	a.mu.Lock()
	a.events = append(a.events, ev)
	a.mu.Unlock()
}

// Events returns the events seen so far, oldest first.
func (a *App) Events() []domain.Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.Event(nil), a.events...)
}

// Last returns the most recent event of kind k.
func (a *App) Last(k domain.EventKind) (domain.Event, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := len(a.events) - 1; i >= 0; i-- {
		if a.events[i].Kind() == k {
			return a.events[i], true
		}
	}
	return nil, false
}

// Start runs the handshake to completion and reports its failure as an
// error.
func (a *App) Start(ctx context.Context) error {
	a.Service.Initialize(ctx)
	a.Service.Wait()

	ev, ok := a.Last(domain.EventInitialized)
	if !ok {
		return fmt.Errorf("connect: no result")
	}
	res := ev.(domain.Initialized)
	if !res.Success {
		return fmt.Errorf("connect failed (%s): %s", res.Err, res.Message)
	}
	return nil
}

// Close detaches the recorder and closes the wiring.
func (a *App) Close() error {
	a.unregister()
	return a.Wire.Close()
}
