package events

import (
	"sync"
)

// StateEvent publishes values to channel listeners and callback listeners.
// T is the type of the published value, usually an immutable state snapshot.
type StateEvent[T any] struct {
	mu         sync.RWMutex
	channels   map[uint64]chan<- T
	callbacks  map[uint64]func(T)
	nextID     uint64
	replayLast bool
	last       T
	hasLast    bool
}

// NewStateEvent creates a new StateEvent.
// replayLast: if true, the event remembers the last notified value and hands it
// to listeners registered afterwards, so late subscribers start from current state
func NewStateEvent[T any](replayLast bool) *StateEvent[T] {
	return &StateEvent[T]{
		channels:   make(map[uint64]chan<- T),
		callbacks:  make(map[uint64]func(T)),
		replayLast: replayLast,
	}
}

// Listen registers a channel to receive notified values.
// Sends never block: a full channel misses the value.
// Returns a deregistration function that is safe to call more than once.
func (e *StateEvent[T]) Listen(ch chan<- T) func() {
	if ch == nil {
		panic("channel cannot be nil")
	}

	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.channels[id] = ch
	last, replay := e.last, e.replayLast && e.hasLast
	e.mu.Unlock()

	if replay {
		select {
		case ch <- last:
		default:
		}
	}

	return func() {
		e.mu.Lock()
		delete(e.channels, id)
		e.mu.Unlock()
	}
}

// OnNotify registers a callback invoked synchronously from Notify.
// Callbacks run outside the event's lock so they may unregister themselves.
func (e *StateEvent[T]) OnNotify(callback func(T)) func() {
	if callback == nil {
		panic("callback cannot be nil")
	}

	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.callbacks[id] = callback
	last, replay := e.last, e.replayLast && e.hasLast
	e.mu.Unlock()

	if replay {
		callback(last)
	}

	return func() {
		e.mu.Lock()
		delete(e.callbacks, id)
		e.mu.Unlock()
	}
}

// Notify delivers value to every registered listener
func (e *StateEvent[T]) Notify(value T) {
	e.mu.Lock()
	if e.replayLast {
		e.last = value
		e.hasLast = true
	}
	channels := make([]chan<- T, 0, len(e.channels))
	for _, ch := range e.channels {
		channels = append(channels, ch)
	}
	callbacks := make([]func(T), 0, len(e.callbacks))
	for _, cb := range e.callbacks {
		callbacks = append(callbacks, cb)
	}
	e.mu.Unlock()

	for _, ch := range channels {
		select {
		case ch <- value:
		default:
			// listener is behind; it will pick up a later snapshot
		}
	}
	for _, cb := range callbacks {
		cb(value)
	}
}

// Last returns the most recently notified value when replayLast is enabled
func (e *StateEvent[T]) Last() (T, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.last, e.hasLast
}

// ListenerCount returns the number of registered channels and callbacks
func (e *StateEvent[T]) ListenerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.channels) + len(e.callbacks)
}
