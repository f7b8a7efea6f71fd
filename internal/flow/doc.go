// Package flow loads task trees from HCL flow files.
//
// A flow file declares nested `task` blocks. Each block names the handler
// that implements it and may carry configuration values and references to
// other tasks by name:
//
//	task "titleLogo" {
//	  handler = "title_logo"
//	  task "main" {
//	    handler = "main_menu"
//	    task "" {
//	      handler = "game_main"
//	      values  = { frames = 3 }
//	    }
//	  }
//	}
//
// Loading happens in two phases. Load parses files into format-agnostic
// Definitions; Build resolves handler names through a registry.Registry and
// produces the task.Task tree that a taskqueue.Queue runs.
package flow
