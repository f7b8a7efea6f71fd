package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/framekeeper/internal/task"
)

// ErrHandlerNotFound is returned when a flow names a handler nobody registered.
var ErrHandlerNotFound = errors.New("handler not found")

// Module is the interface that every handler module implements to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the work functions available to flow files.
type Registry struct {
	Handlers map[string]task.Func
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		Handlers: make(map[string]task.Func),
	}
}

// Register stores fn under name. Registering a name twice is a programming
// error and panics.
func (r *Registry) Register(name string, fn task.Func) {
	if name == "" {
		panic("handler name must not be empty")
	}
	if fn == nil {
		panic(fmt.Sprintf("handler '%s' has a nil function", name))
	}
	if _, exists := r.Handlers[name]; exists {
		panic(fmt.Sprintf("handler with name '%s' already registered", name))
	}
	slog.Debug("Registering task handler.", "name", name)
	r.Handlers[name] = fn
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (task.Func, error) {
	fn, ok := r.Handlers[name]
	if !ok {
		return nil, fmt.Errorf("handler %q: %w", name, ErrHandlerNotFound)
	}
	return fn, nil
}

// Names returns the registered handler names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.Handlers))
	for name := range r.Handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// RegisterModules registers every module in order.
func (r *Registry) RegisterModules(modules ...Module) {
	for _, m := range modules {
		m.Register(r)
	}
}
