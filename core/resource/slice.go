// Package resource holds the state engine shared by every entity slice:
// an async collection, the pending/fulfilled/rejected transitions around a remote call,
// and the policies merging a successful response into the stored items.
package resource

import (
	"sync"

	"github.com/trezcool/presensi/core"
)

// Entity is implemented by every type kept in a slice.
type Entity interface {
	Key() core.ID
}

// Collection is a read-only snapshot of a slice.
// Loading is true only while an operation is in flight;
// Error is set by a rejection and cleared when the next operation starts.
type Collection[T any] struct {
	Items   []T    `json:"items"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// HasError reports whether the last operation was rejected.
func (c Collection[T]) HasError() bool { return c.Error != "" }

// Slice owns one collection. Its zero value is not usable; see NewSlice.
type Slice[T any] struct {
	name string

	mu       sync.RWMutex
	state    Collection[T]
	onChange []func(name string)

	logger core.Logger
}

func NewSlice[T any](name string, logger core.Logger) *Slice[T] {
	return &Slice[T]{
		name:   name,
		state:  Collection[T]{Items: []T{}},
		logger: logger,
	}
}

func (s *Slice[T]) Name() string { return s.name }

// Snapshot returns a copy of the current state.
func (s *Slice[T]) Snapshot() Collection[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Collection[T]{
		Items:   copyItems(s.state.Items),
		Loading: s.state.Loading,
		Error:   s.state.Error,
	}
}

// Items is a shortcut for Snapshot().Items.
func (s *Slice[T]) Items() []T {
	return s.Snapshot().Items
}

// OnChange registers fn to be called after every state transition.
func (s *Slice[T]) OnChange(fn func(name string)) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// Reset clears the slice back to its initial state.
func (s *Slice[T]) Reset() {
	s.update(func(st *Collection[T]) {
		*st = Collection[T]{Items: []T{}}
	})
}

// update applies fn under the lock, then notifies listeners outside of it.
func (s *Slice[T]) update(fn func(st *Collection[T])) {
	s.mu.Lock()
	fn(&s.state)
	listeners := make([]func(string), len(s.onChange))
	copy(listeners, s.onChange)
	s.mu.Unlock()

	for _, l := range listeners {
		l(s.name)
	}
}

func copyItems[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
