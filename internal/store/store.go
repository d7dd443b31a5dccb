// Package store holds in-memory values that consumers can observe, and the
// write-behind persistence layered on top of them.
package store

import "sync"

type listener struct {
	id uint64
	fn func()
}

// Store holds a single value and notifies subscribers synchronously, in
// registration order, whenever it is replaced.
type Store[T any] struct {
	mu        sync.RWMutex
	value     T
	listeners []listener
	nextID    uint64
}

func New[T any](initial T) *Store[T] {
	return &Store[T]{value: initial}
}

func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.value
}

// Snapshot is Get under the name external-store consumers expect.
func (s *Store[T]) Snapshot() T {
	return s.Get()
}

// Set replaces the value and returns once every listener has run.
// Listeners run outside the lock, so they may call Get or Set themselves.
func (s *Store[T]) Set(v T) {
	s.Update(func(T) (T, bool) { return v, true })
}

// Update replaces the value with fn's result in one critical section, so
// concurrent updates never overwrite each other. When fn reports no change
// the value is kept and no listener runs. fn must not call back into s.
func (s *Store[T]) Update(fn func(T) (T, bool)) bool {
	fns, changed := s.apply(fn)
	notify(fns)

	return changed
}

// apply runs fn under the lock and returns the listeners to call once it is
// released.
func (s *Store[T]) apply(fn func(T) (T, bool)) ([]func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := fn(s.value)
	if !ok {
		return nil, false
	}

	s.value = v

	fns := make([]func(), len(s.listeners))
	for i, l := range s.listeners {
		fns[i] = l.fn
	}

	return fns, true
}

func notify(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}

// Subscribe registers fn and returns a function removing exactly this
// registration. Subscribing the same fn twice yields two registrations.
func (s *Store[T]) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

func (s *Store[T]) unsubscribe(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		if l.id != id {
			kept = append(kept, l)
		}
	}

	s.listeners = kept
}
