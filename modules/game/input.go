package game

// Input is where the demo handlers read player intent. Implementations are
// polled from the frame loop and must not block.
type Input interface {
	// KeyPressed reports whether a key press is available, consuming it.
	KeyPressed() bool
	// SelectedMenu returns the chosen main menu entry, or 0 for none.
	SelectedMenu() int
}

// ScriptedInput is a canned Input: a key is always pressed and each call to
// SelectedMenu picks the next entry, starting at 1.
type ScriptedInput struct {
	menu int
}

// KeyPressed always returns true.
func (s *ScriptedInput) KeyPressed() bool { return true }

// SelectedMenu returns 1, 2, 3, ... on successive calls.
func (s *ScriptedInput) SelectedMenu() int {
	s.menu++
	return s.menu
}
