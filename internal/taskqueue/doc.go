// Package taskqueue runs cooperative tasks once per frame without threads or
// coroutines.
//
// # Why TaskQueue Exists
//
// A game loop calls Update once per frame. Work that spans many frames, such as
// a title screen waiting for a key, is written as small tasks that either
// finish (task.Remove) or ask to run again next frame (task.Continue). Nothing
// blocks the loop and nothing runs in parallel.
//
// # How It Works
//
// The queue keeps two buffers. Each Update:
//  1. Polls every suspended task's predicate exactly once; a satisfied
//     predicate enqueues its continuation and the suspension is dropped.
//  2. Promotes the "next" buffer to "current".
//  3. Runs every current task once, front to back. Continue puts the task
//     back into "next"; Remove drops it, and a body owned by the queue is
//     moved to the discard list.
//
// Tasks added while a tick is running always land in "next", so a task never
// runs twice within one tick and never runs in the tick it was added. The one
// exception is a WaitPred continuation: it is enqueued during step 1 and so
// runs in the same tick its predicate is first seen to hold.
//
// # Ownership
//
// Bodies live in an arena owned by the queue and are named in a registry over
// that arena. References resolve by name the first time and are then pinned to
// the body's generation-checked handle, so a reference can never silently
// resolve to a different body that later reused the same name.
//
// # Thread-Safety
//
// A Queue is not safe for concurrent use. Everything, including predicates,
// runs on the goroutine that calls Update.
package taskqueue
