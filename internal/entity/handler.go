// Package entity implements id-assigning CRUD over a persistent collection.
// Every mutation replaces the whole slice inside one store update, so
// subscribers never observe a partially updated collection and concurrent
// callers never lose each other's writes.
package entity

import (
	"slices"

	"github.com/MrJamesThe3rd/jobbook/internal/store"
)

// Record is implemented by pointers to entity types.
type Record[T any] interface {
	*T
	GetID() int
	SetID(id int)
}

// Handler is cheap to copy; copies share the underlying store.
type Handler[T any, P Record[T]] struct {
	store *store.Persistent[[]T]
}

func NewHandler[T any, P Record[T]](s *store.Persistent[[]T]) Handler[T, P] {
	return Handler[T, P]{store: s}
}

func idOf[T any, P Record[T]](r T) int {
	return P(&r).GetID()
}

func (h Handler[T, P]) Loaded() bool { return h.store.Loaded() }

// Subscribe registers fn to run after every change to the collection.
func (h Handler[T, P]) Subscribe(fn func()) func() { return h.store.Subscribe(fn) }

// Add assigns the next free id (max existing id + 1) to *r, appends a copy
// and returns the id. The caller's record is modified in place.
func (h Handler[T, P]) Add(r P) int {
	var next int

	h.store.Update(func(cur []T) ([]T, bool) {
		next = 0
		for _, existing := range cur {
			next = max(next, idOf[T, P](existing))
		}

		next++
		r.SetID(next)

		updated := make([]T, len(cur), len(cur)+1)
		copy(updated, cur)

		return append(updated, *r), true
	})

	return next
}

// Remove drops the record with the given id and reports whether one existed.
func (h Handler[T, P]) Remove(id int) bool {
	return h.store.Update(func(cur []T) ([]T, bool) {
		updated := slices.DeleteFunc(slices.Clone(cur), func(r T) bool {
			return idOf[T, P](r) == id
		})

		return updated, len(updated) != len(cur)
	})
}

// RemoveRecord is Remove keyed by r's id.
func (h Handler[T, P]) RemoveRecord(r T) bool {
	return h.Remove(idOf[T, P](r))
}

// Set replaces the record sharing r's id. It reports false and changes
// nothing when no such record exists; callers wanting an upsert fall back
// to Add.
func (h Handler[T, P]) Set(r T) bool {
	id := idOf[T, P](r)

	return h.store.Update(func(cur []T) ([]T, bool) {
		idx := slices.IndexFunc(cur, func(existing T) bool {
			return idOf[T, P](existing) == id
		})
		if idx == -1 {
			return nil, false
		}

		updated := slices.Clone(cur)
		updated[idx] = r

		return updated, true
	})
}

// Modify applies fn to the record with the given id in one store update and
// returns the result. It reports false and changes nothing when the id is
// absent.
func (h Handler[T, P]) Modify(id int, fn func(P)) (T, bool) {
	var result T

	ok := h.store.Update(func(cur []T) ([]T, bool) {
		idx := slices.IndexFunc(cur, func(existing T) bool {
			return idOf[T, P](existing) == id
		})
		if idx == -1 {
			return nil, false
		}

		updated := slices.Clone(cur)
		fn(P(&updated[idx]))
		result = updated[idx]

		return updated, true
	})

	return result, ok
}

// Get returns a copy of the record with the given id.
func (h Handler[T, P]) Get(id int) (T, bool) {
	return h.Find(func(r T) bool { return idOf[T, P](r) == id })
}

// Find returns a copy of the first record matching fn.
func (h Handler[T, P]) Find(fn func(T) bool) (T, bool) {
	for _, r := range h.store.Get() {
		if fn(r) {
			return r, true
		}
	}

	var zero T

	return zero, false
}

// All returns a copy of the collection in insertion order.
func (h Handler[T, P]) All() []T {
	return slices.Clone(h.store.Get())
}

// Filter returns copies of all records matching fn, in insertion order.
func (h Handler[T, P]) Filter(fn func(T) bool) []T {
	var out []T

	for _, r := range h.store.Get() {
		if fn(r) {
			out = append(out, r)
		}
	}

	return out
}
