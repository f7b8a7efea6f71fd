package task

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Args is the argument list handed to a body's function.
type Args struct {
	// Tasks are the body's child tasks, in declaration order.
	Tasks []*Task
	// Self is the name of the body that owns these arguments.
	Self string
	// Parent is the name of the body that declared this one, if any.
	Parent string
	// Values holds named configuration values from the flow definition.
	Values map[string]cty.Value
}

// At returns the i-th child task.
func (a *Args) At(i int) (*Task, error) {
	if i < 0 || i >= len(a.Tasks) {
		return nil, fmt.Errorf("%s: index %d of %d: %w", a.Self, i, len(a.Tasks), ErrArgIndex)
	}
	return a.Tasks[i], nil
}

// Len returns the number of child tasks.
func (a *Args) Len() int { return len(a.Tasks) }

// Empty reports whether there are no child tasks.
func (a *Args) Empty() bool { return len(a.Tasks) == 0 }

// Int reads the named value as an int, returning def when it is absent or null.
func (a *Args) Int(name string, def int) (int, error) {
	v, ok := a.Values[name]
	if !ok || v.IsNull() {
		return def, nil
	}
	var out int
	if err := gocty.FromCtyValue(v, &out); err != nil {
		return def, fmt.Errorf("%s: value %q: %w", a.Self, name, err)
	}
	return out, nil
}

// String reads the named value as a string, returning def when it is absent or null.
func (a *Args) String(name, def string) (string, error) {
	v, ok := a.Values[name]
	if !ok || v.IsNull() {
		return def, nil
	}
	var out string
	if err := gocty.FromCtyValue(v, &out); err != nil {
		return def, fmt.Errorf("%s: value %q: %w", a.Self, name, err)
	}
	return out, nil
}
