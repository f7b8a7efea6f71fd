package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/framekeeper/internal/arena"
	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrInvalidTaskState is returned for a body without a function, a
	// reference without a name, or a task that has been moved from.
	ErrInvalidTaskState = errors.New("invalid task state")
	// ErrArgIndex is returned by Args.At for an out-of-range index.
	ErrArgIndex = errors.New("argument index out of range")
)

// Status tells the queue what to do with a task after it ran.
type Status int

const (
	// Remove drops the task after this run.
	Remove Status = iota
	// Continue reschedules the task, unchanged, for the next tick.
	Continue
)

func (s Status) String() string {
	switch s {
	case Remove:
		return "remove"
	case Continue:
		return "continue"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Kind distinguishes the variants of a Task.
type Kind int

const (
	// KindBody owns a function and its arguments.
	KindBody Kind = iota
	// KindReference resolves to a body by name.
	KindReference
	// KindMoved is left behind in a task whose body was moved elsewhere.
	KindMoved
)

func (k Kind) String() string {
	switch k {
	case KindBody:
		return "body"
	case KindReference:
		return "reference"
	case KindMoved:
		return "moved"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Scheduler is the part of the task queue a work function may use.
type Scheduler interface {
	Add(t *Task) error
	Clone(t *Task) (*Task, error)
	WaitPred(t *Task, pred func() bool) error
	Finish()
}

// Func is the work performed by a body task.
type Func func(ctx context.Context, q Scheduler, args *Args) (Status, error)

// Task is either a body or a reference to one.
type Task struct {
	kind   Kind
	name   string
	fn     Func
	args   Args
	handle arena.Handle
	moved  bool
}

// New creates a body named name. An empty name is replaced with a unique one
// when the body is bound to a queue.
func New(name string, fn Func, children ...*Task) *Task {
	t := &Task{
		kind: KindBody,
		fn:   fn,
		args: Args{Tasks: children},
	}
	t.Stamp(name)
	return t
}

// Anonymous creates a body without a name.
func Anonymous(fn Func, children ...*Task) *Task {
	return New("", fn, children...)
}

// Ref creates a reference to the body registered as name.
func Ref(name string) *Task {
	return &Task{kind: KindReference, name: name}
}

// Name returns the task's name. For references it is the name of the body.
func (t *Task) Name() string { return t.name }

// Kind returns the task's variant.
func (t *Task) Kind() Kind { return t.kind }

// IsReference reports whether t is a reference task.
func (t *Task) IsReference() bool { return t.kind == KindReference }

// Handle returns the arena handle of the body, zero if unbound.
func (t *Task) Handle() arena.Handle { return t.handle }

// Args returns the argument list of a body. References have none.
func (t *Task) Args() *Args { return &t.args }

// Func returns the work function of a body.
func (t *Task) Func() Func { return t.fn }

// WithValues attaches named configuration values to a body's arguments.
func (t *Task) WithValues(values map[string]cty.Value) *Task {
	t.args.Values = values
	return t
}

// SetHandle records the arena slot that holds this body, or the slot a
// reference resolved to.
func (t *Task) SetHandle(h arena.Handle) {
	t.handle = h
}

// Stamp names the task and tells its body children who their parent is.
func (t *Task) Stamp(name string) {
	t.name = name
	if t.kind != KindBody {
		return
	}
	t.args.Self = name
	for _, child := range t.args.Tasks {
		if child != nil && child.kind == KindBody {
			child.args.Parent = name
		}
	}
}

// Empty reports whether t is a body with no function.
func (t *Task) Empty() bool {
	return t.kind == KindBody && t.fn == nil
}

// Valid checks the task's internal consistency. A body must carry both a
// function and a self name, or neither; a reference needs a name.
func (t *Task) Valid() error {
	switch t.kind {
	case KindReference:
		if t.name == "" {
			return fmt.Errorf("reference without a name: %w", ErrInvalidTaskState)
		}
		return nil
	case KindMoved:
		return fmt.Errorf("task %q was moved: %w", t.name, ErrInvalidTaskState)
	}
	hasFunc := t.fn != nil
	hasSelf := t.args.Self != ""
	if hasFunc == hasSelf {
		return nil
	}
	if hasFunc {
		return fmt.Errorf("body has a function but no self name: %w", ErrInvalidTaskState)
	}
	return fmt.Errorf("body %q has no function: %w", t.args.Self, ErrInvalidTaskState)
}

// Call runs the body's function with q and the body's arguments.
func (t *Task) Call(ctx context.Context, q Scheduler) (Status, error) {
	if t.kind != KindBody {
		return Remove, fmt.Errorf("call %s %q: %w", t.kind, t.name, ErrInvalidTaskState)
	}
	if t.fn == nil || t.args.Self == "" {
		return Remove, fmt.Errorf("call %q: body is not runnable: %w", t.name, ErrInvalidTaskState)
	}
	return t.fn(ctx, q, &t.args)
}

// Move transfers the task into a new value. The source is left as a moved
// husk whose name is suffixed with "@moved".
func (t *Task) Move() *Task {
	out := &Task{
		kind:   t.kind,
		name:   t.name,
		fn:     t.fn,
		args:   t.args,
		handle: t.handle,
	}
	t.kind = KindMoved
	t.fn = nil
	t.args = Args{}
	t.handle = arena.Handle{}
	t.name += "@moved"
	t.moved = true
	return out
}

// Binder places an unbound body where references can find it: a unique name,
// an arena slot and a registry entry.
type Binder interface {
	Bind(t *Task) error
}

// Clone is the substitute for copying. A body is bound through b if needed and
// a reference to it is returned; cloning a reference copies its name and handle.
func (t *Task) Clone(b Binder) (*Task, error) {
	if t.kind == KindBody && t.handle.IsZero() {
		if err := b.Bind(t); err != nil {
			return nil, fmt.Errorf("clone %q: %w", t.name, err)
		}
	}
	return t.Reference()
}

// Reference returns a reference to a bound body, or a copy of a reference.
func (t *Task) Reference() (*Task, error) {
	switch t.kind {
	case KindReference:
		return &Task{kind: KindReference, name: t.name, handle: t.handle}, nil
	case KindBody:
		if t.name == "" || t.handle.IsZero() {
			return nil, fmt.Errorf("reference to unbound body: %w", ErrInvalidTaskState)
		}
		return &Task{kind: KindReference, name: t.name, handle: t.handle}, nil
	default:
		return nil, fmt.Errorf("reference to %s task %q: %w", t.kind, t.name, ErrInvalidTaskState)
	}
}

// MarkMoved records that ownership of the body was handed over, so Release
// does not report it.
func (t *Task) MarkMoved() {
	t.moved = true
}

// Moved reports whether ownership of the body was handed over.
func (t *Task) Moved() bool { return t.moved }

// Release is called when an owner drops a body. A body that is dropped while
// never having been moved signals a broken ownership chain; it is logged, not
// treated as fatal.
func (t *Task) Release(logger *slog.Logger) {
	if t.kind != KindBody || t.moved {
		return
	}
	logger.Warn("destruct: task has not moved", "task", t.name)
}
