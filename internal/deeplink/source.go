package deeplink

import (
	"sync"

	"textbuddy/internal/domain"
)

// Relay is a LinkSource fed by the host: the platform glue calls Deliver for
// every activated URL. URLs delivered while nobody listens are kept as the
// pending URL, newest wins.
type Relay struct {
	mu        sync.Mutex
	next      int
	listeners map[int]func(string)
	order     []int
	pending   string
}

// NewRelay returns an empty Relay.
func NewRelay() *Relay {
	return &Relay{listeners: make(map[int]func(string))}
}

// Deliver hands url to every listener, or records it as pending.
func (r *Relay) Deliver(url string) {
	if url == "" {
		return
	}
	r.mu.Lock()
	fns := make([]func(string), 0, len(r.order))
	for _, id := range r.order {
		fns = append(fns, r.listeners[id])
	}
	if len(fns) == 0 {
		r.pending = url
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(url)
	}
}

// SetPending records url as the link the process was launched with.
func (r *Relay) SetPending(url string) {
	r.mu.Lock()
	r.pending = url
	r.mu.Unlock()
}

func (r *Relay) Listen(fn func(string)) (cancel func()) {
	r.mu.Lock()
	id := r.next
	r.next++
	r.listeners[id] = fn
	r.order = append(r.order, id)
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.listeners, id)
			for i, v := range r.order {
				if v == id {
					r.order = append(r.order[:i], r.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (r *Relay) PendingURL() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending, r.pending != ""
}

var _ domain.LinkSource = (*Relay)(nil)
