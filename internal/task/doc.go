// Package task defines the unit of deferred work run by the task queue.
//
// A Task is a tagged variant. A body owns a work function and an ordered list
// of argument tasks; a reference holds only a name (and, once resolved, an
// arena handle) and stands in for the body it names. Tasks cannot be copied:
// Clone produces a reference and Move transfers a body to a new owner.
package task
