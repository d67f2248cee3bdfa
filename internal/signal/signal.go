// Package signal provides small observable values for sharing UI-facing
// state between the discussion controller, the speech output and the
// presentation layer.
//
// A [Value] holds a single piece of state. Writers call Set or Update;
// readers call Get or register a listener with Subscribe. Listeners run
// synchronously on the writer's goroutine, after the write lock has been
// released, in registration order.
//
// A [Computed] derives a value from one or more dependencies and caches
// it. The cached result is recomputed only when a dependency's version
// changed since the last computation.
package signal

import (
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Dependency is anything a Computed can depend on.
type Dependency interface {
	// Version increases on every effective write.
	Version() uint64
}

type listener[T any] struct {
	id uint64
	fn func(T)
}

// Value is an observable value.
type Value[T any] struct {
	mu        sync.RWMutex
	v         T
	version   atomic.Uint64
	equal     func(a, b T) bool
	listeners []listener[T]
	nextID    uint64
}

// New creates a Value that notifies on every Set.
func New[T any](initial T) *Value[T] {
	return &Value[T]{v: initial}
}

// NewComparable creates a Value that ignores writes of an equal value.
func NewComparable[T comparable](initial T) *Value[T] {
	return NewWithEqual(initial, func(a, b T) bool { return a == b })
}

// NewWithEqual creates a Value that ignores writes for which equal
// reports true.
func NewWithEqual[T any](initial T, equal func(a, b T) bool) *Value[T] {
	return &Value[T]{v: initial, equal: equal}
}

// Get returns the current value.
func (s *Value[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v
}

// Version returns the write counter.
func (s *Value[T]) Version() uint64 {
	return s.version.Load()
}

// Set stores v and notifies listeners. It reports whether the value
// changed.
func (s *Value[T]) Set(v T) bool {
	return s.Update(func(T) T { return v })
}

// Update replaces the value with fn(current) under the write lock.
func (s *Value[T]) Update(fn func(T) T) bool {
	s.mu.Lock()
	next := fn(s.v)
	if s.equal != nil && s.equal(s.v, next) {
		s.mu.Unlock()
		return false
	}
	s.v = next
	s.version.Add(1)
	ls := make([]listener[T], len(s.listeners))
	copy(ls, s.listeners)
	s.mu.Unlock()

	for _, l := range ls {
		safeCall(l.fn, next)
	}
	return true
}

// CompareAndSet stores next only if the current value equals old.
func (s *Value[T]) CompareAndSet(old, next T, equal func(a, b T) bool) bool {
	swapped := false
	s.Update(func(cur T) T {
		if !equal(cur, old) {
			return cur
		}
		swapped = true
		return next
	})
	return swapped
}

// Subscribe registers fn to run after every effective write. The
// returned function removes the listener; calling it twice is harmless.
func (s *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener[T]{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// ListenerCount returns the number of registered listeners.
func (s *Value[T]) ListenerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners)
}

func safeCall[T any](fn func(T), v T) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("component", "signal").
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("listener panicked")
		}
	}()
	fn(v)
}
