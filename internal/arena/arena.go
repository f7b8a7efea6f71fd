package arena

import (
	"errors"
	"fmt"
)

// ErrStaleHandle is returned when a handle refers to a slot that has been freed
// or reused since the handle was issued.
var ErrStaleHandle = errors.New("stale handle")

// Handle addresses one value stored in an Arena. The zero Handle is never
// issued and never resolves.
type Handle struct {
	Index      uint32
	Generation uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h.Generation == 0
}

// String renders the handle as index@generation.
func (h Handle) String() string {
	return fmt.Sprintf("%d@%d", h.Index, h.Generation)
}

type slot[T any] struct {
	value      T
	generation uint32
	live       bool
}

// Arena stores values of type T in reusable, generation-checked slots.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

// New creates an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Insert stores v in a free slot and returns its handle.
func (a *Arena[T]) Insert(v T) Handle {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.value = v
		s.live = true
		a.live++
		return Handle{Index: idx, Generation: s.generation}
	}

	idx := uint32(len(a.slots))
	a.slots = append(a.slots, slot[T]{value: v, generation: 1, live: true})
	a.live++
	return Handle{Index: idx, Generation: 1}
}

// Get returns the value addressed by h. The boolean is false when h is zero,
// out of range, or stale.
func (a *Arena[T]) Get(h Handle) (T, bool) {
	s, ok := a.lookup(h)
	if !ok {
		var zero T
		return zero, false
	}
	return s.value, true
}

// Valid reports whether h currently resolves to a live value.
func (a *Arena[T]) Valid(h Handle) bool {
	_, ok := a.lookup(h)
	return ok
}

// Remove frees the slot addressed by h and returns the value it held. Every
// handle to the slot, including h, is stale afterwards.
func (a *Arena[T]) Remove(h Handle) (T, error) {
	var zero T
	s, ok := a.lookup(h)
	if !ok {
		return zero, fmt.Errorf("remove %s: %w", h, ErrStaleHandle)
	}

	v := s.value
	s.value = zero
	s.live = false
	s.generation++
	if s.generation == 0 {
		// Generation 0 is reserved for the zero Handle.
		s.generation = 1
	}
	a.free = append(a.free, h.Index)
	a.live--
	return v, nil
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int {
	return a.live
}

// Each calls fn for every live value in slot order until fn returns false.
func (a *Arena[T]) Each(fn func(Handle, T) bool) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.live {
			continue
		}
		if !fn(Handle{Index: uint32(i), Generation: s.generation}, s.value) {
			return
		}
	}
}

func (a *Arena[T]) lookup(h Handle) (*slot[T], bool) {
	if h.IsZero() || int(h.Index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.Index]
	if !s.live || s.generation != h.Generation {
		return nil, false
	}
	return s, true
}
