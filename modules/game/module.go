// Package game registers the handlers of the demo game flow: a title logo,
// a main menu, the game itself, an ending and a settings menu.
package game

import (
	"context"
	"fmt"

	"github.com/specialistvlad/framekeeper/internal/ctxlog"
	"github.com/specialistvlad/framekeeper/internal/registry"
	"github.com/specialistvlad/framekeeper/internal/task"
)

// Handler names used in flow files.
const (
	HandlerTitleLogo   = "title_logo"
	HandlerMainMenu    = "main_menu"
	HandlerGameMain    = "game_main"
	HandlerEnding      = "ending"
	HandlerSettingMenu = "setting_menu"
)

// Main menu entries.
const (
	MenuStart    = 1
	MenuSettings = 2
	MenuQuit     = 3
)

// defaultFrames is how many polls the game main loop takes when the flow
// does not set values.frames.
const defaultFrames = 3

// Module implements the registry.Module interface for this package.
type Module struct {
	// Input feeds the handlers. ScriptedInput is used when nil.
	Input Input
}

// Register registers the demo handlers with the engine.
func (m *Module) Register(r *registry.Registry) {
	in := m.Input
	if in == nil {
		in = &ScriptedInput{}
	}
	h := &handlers{input: in}
	r.Register(HandlerTitleLogo, h.titleLogo)
	r.Register(HandlerMainMenu, h.mainMenu)
	r.Register(HandlerGameMain, h.gameMain)
	r.Register(HandlerEnding, h.ending)
	r.Register(HandlerSettingMenu, h.settingMenu)
}

type handlers struct {
	input Input
}

// titleLogo initialises the screen and shows its first argument once a key
// is pressed.
func (h *handlers) titleLogo(ctx context.Context, q task.Scheduler, args *task.Args) (task.Status, error) {
	next, err := args.At(0)
	if err != nil {
		return task.Remove, err
	}
	ctxlog.FromContext(ctx).Info("initializeScreen", "task", args.Self)
	return task.Remove, q.WaitPred(next, h.input.KeyPressed)
}

// mainMenu polls the menu every frame until an entry is chosen.
func (h *handlers) mainMenu(ctx context.Context, q task.Scheduler, args *task.Args) (task.Status, error) {
	logger := ctxlog.FromContext(ctx)
	choice := h.input.SelectedMenu()
	logger.Info("mainMenu", "selected", choice)

	switch choice {
	case MenuStart, MenuSettings:
		next, err := args.At(choice - 1)
		if err != nil {
			return task.Remove, err
		}
		ref, err := q.Clone(next)
		if err != nil {
			return task.Remove, err
		}
		return task.Remove, q.Add(ref)
	case MenuQuit:
		logger.Info("finish!")
		q.Finish()
		return task.Remove, nil
	default:
		return task.Continue, nil
	}
}

// gameMain runs the game until its loop reports completion, then shows the
// ending.
func (h *handlers) gameMain(ctx context.Context, q task.Scheduler, args *task.Args) (task.Status, error) {
	next, err := args.At(0)
	if err != nil {
		return task.Remove, err
	}
	frames, err := args.Int("frames", defaultFrames)
	if err != nil {
		return task.Remove, err
	}
	if frames < 0 {
		return task.Remove, fmt.Errorf("%s: frames must not be negative, got %d", args.Self, frames)
	}
	ctxlog.FromContext(ctx).Info("gameMain", "frames", frames)

	counter := 0
	loop := func() bool {
		counter++
		return counter > frames
	}
	return task.Remove, q.WaitPred(next, loop)
}

// ending waits for a key and then resumes its first argument.
func (h *handlers) ending(ctx context.Context, q task.Scheduler, args *task.Args) (task.Status, error) {
	next, err := args.At(0)
	if err != nil {
		return task.Remove, err
	}
	ctxlog.FromContext(ctx).Info("ending")
	return task.Remove, q.WaitPred(next, h.input.KeyPressed)
}

// settingMenu waits for a key and then returns to the task that declared it.
func (h *handlers) settingMenu(ctx context.Context, q task.Scheduler, args *task.Args) (task.Status, error) {
	if args.Parent == "" {
		return task.Remove, fmt.Errorf("%s: no parent to return to: %w", args.Self, task.ErrInvalidTaskState)
	}
	ctxlog.FromContext(ctx).Info("settingMenu", "parent", args.Parent)
	return task.Remove, q.WaitPred(task.Ref(args.Parent), h.input.KeyPressed)
}
