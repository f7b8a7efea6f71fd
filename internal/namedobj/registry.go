// Package namedobj maps object names to arena handles so that reference
// objects can find their canonical body by name.
package namedobj

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/specialistvlad/framekeeper/internal/arena"
)

var (
	// ErrNameNotFound is returned when no live body is registered under a name.
	ErrNameNotFound = errors.New("name not found")
	// ErrDoubleRegistration is returned when a name is already bound to a
	// different live body.
	ErrDoubleRegistration = errors.New("name already registered")
)

// Liveness reports whether a handle still resolves. *arena.Arena satisfies it.
type Liveness interface {
	Valid(h arena.Handle) bool
}

// Registry is the name index for one arena. It is not safe for concurrent use.
type Registry struct {
	names map[string]arena.Handle
	live  Liveness
}

// New creates a registry whose entries are checked against live.
func New(live Liveness) *Registry {
	return &Registry{
		names: make(map[string]arena.Handle),
		live:  live,
	}
}

// Register binds name to h. Binding the same handle twice is a no-op; binding
// a name that already belongs to another live body fails.
func (r *Registry) Register(name string, h arena.Handle) error {
	if name == "" {
		return fmt.Errorf("register %s: empty name", h)
	}
	if cur, ok := r.names[name]; ok && cur != h && r.live.Valid(cur) {
		return fmt.Errorf("register %q: %w", name, ErrDoubleRegistration)
	}
	r.names[name] = h
	return nil
}

// Rebind binds name to h, replacing any previous binding.
func (r *Registry) Rebind(name string, h arena.Handle) {
	r.names[name] = h
}

// Lookup returns the handle registered under name. Entries whose body has been
// removed from the arena are pruned and reported as not found.
func (r *Registry) Lookup(name string) (arena.Handle, error) {
	h, ok := r.names[name]
	if !ok {
		return arena.Handle{}, fmt.Errorf("lookup %q: %w", name, ErrNameNotFound)
	}
	if !r.live.Valid(h) {
		delete(r.names, name)
		return arena.Handle{}, fmt.Errorf("lookup %q (stale %s): %w", name, h, ErrNameNotFound)
	}
	return h, nil
}

// Unregister removes name if it is still bound to h.
func (r *Registry) Unregister(name string, h arena.Handle) bool {
	if cur, ok := r.names[name]; ok && cur == h {
		delete(r.names, name)
		return true
	}
	return false
}

// EnsureUniqueName returns name unchanged when it is non-empty. Otherwise it
// probes decimal names starting at Len() until one is unused.
func (r *Registry) EnsureUniqueName(name string) string {
	if name != "" {
		return name
	}
	for n := len(r.names); ; n++ {
		candidate := strconv.Itoa(n)
		if !r.taken(candidate) {
			return candidate
		}
	}
}

// Len returns the number of registered names, stale ones included.
func (r *Registry) Len() int {
	return len(r.names)
}

// Names returns the live registered names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.names))
	for name, h := range r.names {
		if r.live.Valid(h) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (r *Registry) taken(name string) bool {
	h, ok := r.names[name]
	if !ok {
		return false
	}
	if !r.live.Valid(h) {
		delete(r.names, name)
		return false
	}
	return true
}
