package subscription

import (
	"sync"

	"textbuddy/internal/domain"
)

// observers is the registry behind Service.OnEvent.
type observers struct {
	mu      sync.Mutex
	next    int
	entries []observer
}

type observer struct {
	id int
	h  domain.EventHandler
}

func (o *observers) add(h domain.EventHandler) func() {
	o.mu.Lock()
	id := o.next
	o.next++
	o.entries = append(o.entries, observer{id: id, h: h})
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			for i, e := range o.entries {
				if e.id == id {
					o.entries = append(o.entries[:i:i], o.entries[i+1:]...)
					return
				}
			}
		})
	}
}

// emit delivers each event to a snapshot of the registered handlers.
// Callers must not hold the service lock.
func (o *observers) emit(events ...domain.Event) {
	if len(events) == 0 {
		return
	}
	o.mu.Lock()
	hs := make([]domain.EventHandler, len(o.entries))
	for i, e := range o.entries {
		hs[i] = e.h
	}
	o.mu.Unlock()

	for _, ev := range events {
		for _, h := range hs {
			h.HandleEvent(ev)
		}
	}
}
