package rtvi

import (
	"sync"

	"github.com/rusenback/botmon/internal/logger"
)

type subscription struct {
	id      uint64
	handler Handler
}

// Emitter keeps the handler registry of a client. Emit runs handlers in
// registration order and never runs two handlers at the same time, even when
// called from different goroutines.
type Emitter struct {
	mu     sync.RWMutex
	subs   map[Event][]subscription
	nextID uint64

	emitMu sync.Mutex
}

// NewEmitter creates an empty emitter.
func NewEmitter() *Emitter {
	return &Emitter{subs: make(map[Event][]subscription)}
}

// Subscribe registers h for event and returns its release func.
func (e *Emitter) Subscribe(event Event, h Handler) func() {
	e.mu.Lock()
	e.nextID++
	id := e.nextID
	e.subs[event] = append(e.subs[event], subscription{id: id, handler: h})
	e.mu.Unlock()

	logger.Debug("subscription added", "event", string(event), "id", id)

	var once sync.Once
	return func() {
		once.Do(func() { e.remove(event, id) })
	}
}

func (e *Emitter) remove(event Event, id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	subs := e.subs[event]
	for i, s := range subs {
		if s.id == id {
			// copy so a concurrent Emit keeps iterating its own snapshot
			next := make([]subscription, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			if len(next) == 0 {
				delete(e.subs, event)
			} else {
				e.subs[event] = next
			}
			return
		}
	}
}

// Count returns the number of handlers registered for event.
func (e *Emitter) Count(event Event) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.subs[event])
}

// Emit delivers payload to every handler of event. Handlers must not call
// Emit themselves. A handler unsubscribed before Emit starts delivering is
// skipped; one already running when its unsubscribe is called finishes.
func (e *Emitter) Emit(event Event, payload any) {
	e.emitMu.Lock()
	defer e.emitMu.Unlock()

	for _, s := range e.snapshot(event) {
		if !e.active(event, s.id) {
			continue
		}
		call(event, s, payload)
	}
}

func (e *Emitter) snapshot(event Event) []subscription {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.subs[event]
}

// active reports whether id is still subscribed to event
func (e *Emitter) active(event Event, id uint64) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, s := range e.subs[event] {
		if s.id == id {
			return true
		}
	}
	return false
}

func call(event Event, s subscription, payload any) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("handler panic", "event", string(event), "id", s.id, "panic", r)
		}
	}()
	s.handler(payload)
}
