// Package registry is the glue between flow files and compiled Go code.
//
// Flow files refer to work functions by string identifiers (e.g.
// handler = "main_menu"). The Registry maps those identifiers to the task.Func
// values that implement them. Modules populate it once at startup and the flow
// builder looks handlers up while turning definitions into task trees.
//
// # Why Registry Exists
//
// Keeping the mapping in one place means a typo in a flow file fails at load
// time with a clear error instead of surfacing as a task that never runs.
package registry
