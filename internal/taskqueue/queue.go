package taskqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/specialistvlad/framekeeper/internal/arena"
	"github.com/specialistvlad/framekeeper/internal/metrics"
	"github.com/specialistvlad/framekeeper/internal/namedobj"
	"github.com/specialistvlad/framekeeper/internal/task"
)

// entry is one scheduled run. owned is true when the queue holds the only
// owning handle to the body, which is discarded when the task is removed.
type entry struct {
	task  *task.Task
	owned bool
}

// suspension is a task parked until its predicate holds.
type suspension struct {
	pred func() bool
	next entry
}

// Option configures a Queue.
type Option func(*Queue)

// WithLogger sets the logger used for queue trace output.
func WithLogger(logger *slog.Logger) Option {
	return func(q *Queue) { q.logger = logger }
}

// WithMetrics makes the queue report to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(q *Queue) { q.metrics = m }
}

// Queue is a double-buffered cooperative task queue.
type Queue struct {
	bodies *arena.Arena[*task.Task]
	names  *namedobj.Registry

	current []entry
	next    []entry
	waiting []suspension
	discard []*task.Task

	finished bool
	tick     uint64

	logger  *slog.Logger
	metrics *metrics.Metrics
}

var (
	_ task.Scheduler = (*Queue)(nil)
	_ task.Binder    = (*Queue)(nil)
)

// New creates an empty queue.
func New(opts ...Option) *Queue {
	bodies := arena.New[*task.Task]()
	q := &Queue{
		bodies: bodies,
		names:  namedobj.New(bodies),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Bind places an unbound body in the arena under a unique name. Binding a
// body that is already live is a no-op.
func (q *Queue) Bind(t *task.Task) error {
	if t == nil || t.Kind() != task.KindBody {
		return fmt.Errorf("bind: not a body: %w", task.ErrInvalidTaskState)
	}
	if q.bodies.Valid(t.Handle()) {
		return nil
	}

	name := q.names.EnsureUniqueName(t.Name())
	h := q.bodies.Insert(t)
	if err := q.names.Register(name, h); err != nil {
		if _, rmErr := q.bodies.Remove(h); rmErr != nil {
			return errors.Join(err, rmErr)
		}
		return err
	}
	t.Stamp(name)
	t.SetHandle(h)
	return nil
}

// Clone returns a reference to t, binding t first if it is an unbound body.
func (q *Queue) Clone(t *task.Task) (*task.Task, error) {
	if t == nil {
		return nil, fmt.Errorf("clone: nil task: %w", task.ErrInvalidTaskState)
	}
	q.logger.Debug("CloneTask", "task", t.Name())
	return t.Clone(q)
}

// Add schedules t for the next tick. An unbound body becomes owned by the
// queue; a body that is already bound has an owner and must be cloned instead.
// A reference to a body that nothing owns yet, such as one bound by Clone,
// takes ownership of it.
func (q *Queue) Add(t *task.Task) error {
	if t == nil {
		return fmt.Errorf("add: nil task: %w", task.ErrInvalidTaskState)
	}
	q.logger.Debug("addTask", "task", t.Name(), "kind", t.Kind())

	switch t.Kind() {
	case task.KindReference:
		if err := t.Valid(); err != nil {
			return fmt.Errorf("add: %w", err)
		}
		q.next = append(q.next, q.claim(t))
		return nil
	case task.KindBody:
		if q.bodies.Valid(t.Handle()) {
			return fmt.Errorf("add %q: body already scheduled, clone it instead: %w", t.Name(), namedobj.ErrDoubleRegistration)
		}
		name := t.Name()
		if err := q.Bind(t); err != nil {
			return fmt.Errorf("add: %w", err)
		}
		if err := t.Valid(); err != nil {
			q.unbind(t, name)
			return fmt.Errorf("add: %w", err)
		}
		t.MarkMoved()
		q.next = append(q.next, entry{task: t, owned: true})
		return nil
	default:
		return fmt.Errorf("add: %w", t.Valid())
	}
}

// Run seeds the queue with a task tree. Every body in the tree is named and
// bound so that children can address each other by name; only the root is
// scheduled. If any body fails to bind, the whole tree is left unbound.
func (q *Queue) Run(root *task.Task) error {
	if root == nil || root.Kind() != task.KindBody {
		return fmt.Errorf("run: root must be a body: %w", task.ErrInvalidTaskState)
	}
	q.logger.Debug("run", "task", root.Name())

	if err := q.bindTree(root); err != nil {
		return fmt.Errorf("run %q: %w", root.Name(), err)
	}
	q.next = append(q.next, entry{task: root, owned: true})
	return nil
}

// WaitPred parks t until pred returns true. The predicate is first checked on
// the next Update and then once per Update until it holds; the reference to t
// is enqueued exactly once. A body that nothing owns yet is owned by the
// continuation and discarded when it finishes.
func (q *Queue) WaitPred(t *task.Task, pred func() bool) error {
	if pred == nil {
		return fmt.Errorf("waitPred: nil predicate: %w", task.ErrInvalidTaskState)
	}
	ref, err := q.Clone(t)
	if err != nil {
		return fmt.Errorf("waitPred: %w", err)
	}
	q.logger.Debug("waitPred", "task", ref.Name())
	q.waiting = append(q.waiting, suspension{pred: pred, next: q.claim(ref)})
	return nil
}

// Finish asks the frame loop to stop.
func (q *Queue) Finish() {
	q.logger.Debug("finish requested", "tick", q.tick)
	q.finished = true
}

// Finished reports whether Finish has been called.
func (q *Queue) Finished() bool {
	return q.finished
}

// Update runs one tick. A resolution or task error stops the tick: the failing
// task is dropped, the tasks that did not get to run are kept for the next
// tick, and the error is returned.
func (q *Queue) Update(ctx context.Context) error {
	start := time.Now()
	q.tick++
	logger := q.logger.With("tick", q.tick)

	q.pollSuspended(logger)
	q.current, q.next = q.next, q.current[:0]

	for i := 0; i < len(q.current); i++ {
		if err := q.runEntry(ctx, logger, q.current[i]); err != nil {
			rest := append([]entry(nil), q.current[i+1:]...)
			q.next = append(rest, q.next...)
			q.current = q.current[:0]
			q.metrics.TaskFailed()
			q.tickDone(start)
			return err
		}
	}
	q.current = q.current[:0]
	q.tickDone(start)
	return nil
}

// Close releases every body still held by the queue.
func (q *Queue) Close() {
	q.bodies.Each(func(_ arena.Handle, body *task.Task) bool {
		body.Release(q.logger)
		return true
	})
	q.current, q.next, q.waiting = nil, nil, nil
}

// Lookup returns the live body registered under name.
func (q *Queue) Lookup(name string) (*task.Task, error) {
	h, err := q.names.Lookup(name)
	if err != nil {
		return nil, err
	}
	body, ok := q.bodies.Get(h)
	if !ok {
		return nil, fmt.Errorf("lookup %q: %w", name, arena.ErrStaleHandle)
	}
	return body, nil
}

// Len returns the number of scheduled tasks, suspended ones excluded.
func (q *Queue) Len() int { return len(q.current) + len(q.next) }

// Suspended returns the number of tasks parked on a predicate.
func (q *Queue) Suspended() int { return len(q.waiting) }

// Idle reports whether nothing is scheduled or suspended.
func (q *Queue) Idle() bool { return q.Len() == 0 && len(q.waiting) == 0 }

// Tick returns the number of updates started so far.
func (q *Queue) Tick() uint64 { return q.tick }

// Pending returns the names of the tasks scheduled for the next tick, in order.
func (q *Queue) Pending() []string {
	out := make([]string, 0, len(q.next))
	for _, e := range q.next {
		out = append(out, e.task.Name())
	}
	return out
}

// Discarded returns the bodies removed so far, oldest first.
func (q *Queue) Discarded() []*task.Task {
	return append([]*task.Task(nil), q.discard...)
}

// Names returns the names of all live bodies.
func (q *Queue) Names() []string {
	return q.names.Names()
}
