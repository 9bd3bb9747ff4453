package events

import (
	"sync"
	"time"
)

// Handler consumes events delivered by a Bus.
type Handler func(Event)

// Bus fans events out to subscribed handlers. Emit is synchronous:
// handlers run on the emitting goroutine, so they must be fast and
// must not call back into the bus. A nil *Bus is a valid no-op bus,
// letting callers skip nil checks at every emit site.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewBus creates an event bus with no subscribers.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all subsequent events.
func (b *Bus) Subscribe(h Handler) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Emit stamps the event and delivers it to every subscriber.
func (b *Bus) Emit(e Event) {
	if b == nil {
		return
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	b.mu.RLock()
	handlers := b.handlers
	b.mu.RUnlock()
	for _, h := range handlers {
		h(e)
	}
}
