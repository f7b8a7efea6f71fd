// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the frame loop that drives a task queue,
// decoupled from any specific entrypoint like a CLI or server.
//
// # Lifecycle
//
//   - **NewApp** configures logging, loads the flow, registers handler
//     modules and seeds the queue with the entry task tree.
//   - **Run** updates the queue once per frame until it finishes, goes idle,
//     hits the frame limit or the context is cancelled.
//   - **Close** releases the queue and any remote input or log file.
package app
