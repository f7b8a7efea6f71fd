package taskqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/specialistvlad/framekeeper/internal/arena"
	"github.com/specialistvlad/framekeeper/internal/namedobj"
	"github.com/specialistvlad/framekeeper/internal/task"
)

func (q *Queue) pollSuspended(logger *slog.Logger) {
	if len(q.waiting) == 0 {
		return
	}
	kept := q.waiting[:0]
	for _, s := range q.waiting {
		if !s.pred() {
			kept = append(kept, s)
			continue
		}
		logger.Debug("waitPred satisfied", "task", s.next.task.Name())
		q.next = append(q.next, s.next)
	}
	for i := len(kept); i < len(q.waiting); i++ {
		q.waiting[i] = suspension{}
	}
	q.waiting = kept
}

func (q *Queue) runEntry(ctx context.Context, logger *slog.Logger, e entry) error {
	body, err := q.resolve(e)
	if err != nil {
		return fmt.Errorf("tick %d: resolve %q: %w", q.tick, e.task.Name(), err)
	}
	if body.Empty() {
		return fmt.Errorf("tick %d: task %q has no function: %w", q.tick, body.Name(), task.ErrInvalidTaskState)
	}

	status, err := body.Call(ctx, q)
	if err != nil {
		if e.owned {
			q.discardBody(body)
		}
		return fmt.Errorf("tick %d: task %q: %w", q.tick, body.Name(), err)
	}
	q.metrics.TaskRan(status.String())
	logger.Debug("update: task done", "task", body.Name(), "status", status)

	switch status {
	case task.Remove:
		if e.owned {
			q.discardBody(body)
		}
	case task.Continue:
		q.next = append(q.next, e)
	default:
		return fmt.Errorf("tick %d: task %q returned %s: %w", q.tick, body.Name(), status, task.ErrInvalidTaskState)
	}
	return nil
}

// resolve returns the body an entry stands for. A reference without a handle
// is looked up by name and then pinned to the handle it found; a pinned
// reference whose body is gone fails instead of following the name.
func (q *Queue) resolve(e entry) (*task.Task, error) {
	t := e.task
	switch t.Kind() {
	case task.KindBody:
		if !q.bodies.Valid(t.Handle()) {
			return nil, arena.ErrStaleHandle
		}
		return t, nil
	case task.KindReference:
		h := t.Handle()
		if h.IsZero() {
			var err error
			h, err = q.names.Lookup(t.Name())
			if err != nil {
				return nil, err
			}
			t.SetHandle(h)
		}
		body, ok := q.bodies.Get(h)
		if !ok {
			return nil, fmt.Errorf("%w: %w", namedobj.ErrNameNotFound, arena.ErrStaleHandle)
		}
		return body, nil
	default:
		return nil, t.Valid()
	}
}

func (q *Queue) discardBody(body *task.Task) {
	h := body.Handle()
	if _, err := q.bodies.Remove(h); err != nil {
		q.logger.Warn("discard of unbound body", "task", body.Name(), "error", err)
	}
	q.names.Unregister(body.Name(), h)
	body.MarkMoved()
	q.discard = append(q.discard, body)
}

// claim makes ref the owner of its body when the body is bound but nothing
// owns it yet.
func (q *Queue) claim(ref *task.Task) entry {
	body, ok := q.bodies.Get(ref.Handle())
	if !ok || body.Moved() {
		return entry{task: ref}
	}
	body.MarkMoved()
	return entry{task: ref, owned: true}
}

// unbind undoes Bind and gives t back the name it had before.
func (q *Queue) unbind(t *task.Task, name string) {
	h := t.Handle()
	if _, err := q.bodies.Remove(h); err == nil {
		q.names.Unregister(t.Name(), h)
	}
	t.SetHandle(arena.Handle{})
	t.Stamp(name)
}

type boundBody struct {
	task *task.Task
	name string
}

// bindTree binds every body of the tree rooted at root. Ownership passes to
// the tree only once all of them are bound; on error they are all unbound.
func (q *Queue) bindTree(root *task.Task) error {
	var bound []boundBody
	if err := q.bindWalk(root, &bound); err != nil {
		for i := len(bound) - 1; i >= 0; i-- {
			q.unbind(bound[i].task, bound[i].name)
		}
		return err
	}
	for _, b := range bound {
		b.task.MarkMoved()
	}
	return nil
}

func (q *Queue) bindWalk(t *task.Task, bound *[]boundBody) error {
	if t.Kind() != task.KindBody {
		return nil
	}
	if q.bodies.Valid(t.Handle()) {
		return fmt.Errorf("%q is already bound: %w", t.Name(), namedobj.ErrDoubleRegistration)
	}
	name := t.Name()
	if err := q.Bind(t); err != nil {
		return err
	}
	*bound = append(*bound, boundBody{task: t, name: name})
	if err := t.Valid(); err != nil {
		return err
	}
	for _, child := range t.Args().Tasks {
		if child == nil {
			return fmt.Errorf("%q has a nil argument: %w", t.Name(), task.ErrInvalidTaskState)
		}
		if err := q.bindWalk(child, bound); err != nil {
			return err
		}
	}
	return nil
}

func (q *Queue) tickDone(start time.Time) {
	q.metrics.TickDone(time.Since(start), q.Len(), len(q.waiting), len(q.discard))
}
