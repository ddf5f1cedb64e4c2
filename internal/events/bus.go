// Package events provides a small in-process publish/subscribe bus used to
// relay notifications such as transport errors to listeners.
package events

import "sync"

// Kind names a notification.
type Kind string

// KindError is raised when the underlying transport fails.
const KindError Kind = "error"

// Handler receives the payload of an emitted notification.
type Handler func(payload any)

type sub struct {
	id uint64
	h  Handler
}

// Bus dispatches notifications to the handlers registered for their kind.
// It is safe for concurrent use.
type Bus struct {
	mu   sync.RWMutex
	next uint64
	subs map[Kind][]sub
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Kind][]sub)}
}

// On registers h for kind and returns a function that removes it.
// Calling the returned function more than once is a no-op.
func (b *Bus) On(kind Kind, h Handler) (off func()) {
	b.mu.Lock()
	b.next++
	id := b.next
	b.subs[kind] = append(b.subs[kind], sub{id: id, h: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(kind, id) })
	}
}

func (b *Bus) remove(kind Kind, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[kind]
	for i, s := range list {
		if s.id == id {
			// copy so snapshots taken by in-flight Emit calls stay intact
			next := make([]sub, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			if len(next) == 0 {
				delete(b.subs, kind)
			} else {
				b.subs[kind] = next
			}
			return
		}
	}
}

// Emit calls every handler registered for kind, in registration order, and
// returns how many were called. Handlers run on the caller's goroutine
// outside the bus lock, so they may register or remove handlers.
func (b *Bus) Emit(kind Kind, payload any) int {
	b.mu.RLock()
	list := b.subs[kind]
	b.mu.RUnlock()
	for _, s := range list {
		s.h(payload)
	}
	return len(list)
}

// Listeners reports the number of handlers registered for kind.
func (b *Bus) Listeners(kind Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[kind])
}
