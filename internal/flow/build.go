package flow

import (
	"fmt"

	"github.com/specialistvlad/framekeeper/internal/registry"
	"github.com/specialistvlad/framekeeper/internal/task"
)

// Build turns a definition into a task tree. Nested blocks become body
// children in declaration order, followed by one reference per ref entry.
func Build(def *Definition, reg *registry.Registry) (*task.Task, error) {
	fn, err := reg.Lookup(def.Handler)
	if err != nil {
		return nil, fmt.Errorf("%s: task %q: %w", def.File, def.Name, err)
	}

	children := make([]*task.Task, 0, len(def.Children)+len(def.Refs))
	for _, c := range def.Children {
		child, err := Build(c, reg)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	for _, name := range def.Refs {
		if name == "" {
			return nil, fmt.Errorf("%s: task %q: empty ref: %w", def.File, def.Name, task.ErrInvalidTaskState)
		}
		children = append(children, task.Ref(name))
	}

	t := task.New(def.Name, fn, children...)
	if len(def.Values) > 0 {
		t.WithValues(def.Values)
	}
	return t, nil
}
