// Package arena provides a generation-checked slot store for values that are
// addressed by handle instead of by pointer or by name.
//
// # Why Arena Exists
//
// Task bodies are looked up by reference tasks long after they were created. A
// plain name -> pointer map lets a reference outlive its body and silently
// resolve to whatever was registered under that name next. The arena closes
// that gap:
//   - **Stable Handles:** A Handle is a slot index plus a generation counter.
//   - **Stale Detection:** Removing a value bumps the slot's generation, so every
//     handle issued before the removal stops resolving.
//   - **Slot Reuse:** Freed slots are recycled, keeping the backing slice compact.
//
// # Thread-Safety
//
// An Arena is not safe for concurrent use. It is owned by a single task queue,
// which runs on the frame-loop goroutine.
package arena
