package socketinput

import (
	"encoding/json"
	"strconv"
	"sync"
)

// maxPendingKeys bounds the number of unread key presses.
const maxPendingKeys = 64

// Buffer collects input events from any goroutine and hands them to the
// frame loop without blocking. It satisfies game.Input.
type Buffer struct {
	mu   sync.Mutex
	keys int
	menu int
}

// PushKey records one key press. Presses beyond maxPendingKeys are dropped.
func (b *Buffer) PushKey() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.keys < maxPendingKeys {
		b.keys++
	}
}

// PushMenu records a menu choice, replacing any unread one.
func (b *Buffer) PushMenu(choice int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.menu = choice
}

// KeyPressed consumes one pending key press.
func (b *Buffer) KeyPressed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.keys == 0 {
		return false
	}
	b.keys--
	return true
}

// SelectedMenu consumes the latest menu choice, or returns 0 if there is none.
func (b *Buffer) SelectedMenu() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	choice := b.menu
	b.menu = 0
	return choice
}

func (b *Buffer) handleKey(...any) {
	b.PushKey()
}

func (b *Buffer) handleMenu(data ...any) bool {
	choice, ok := decodeMenu(data...)
	if ok {
		b.PushMenu(choice)
	}
	return ok
}

// decodeMenu extracts a menu choice from a socket.io event payload. It accepts
// a bare number, a numeric string or an object with a "choice" field.
func decodeMenu(data ...any) (int, bool) {
	if len(data) == 0 {
		return 0, false
	}
	switch v := data[0].(type) {
	case float64:
		return int(v), v == float64(int(v))
	case int:
		return v, true
	case int64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	case map[string]any:
		choice, ok := v["choice"]
		if !ok {
			return 0, false
		}
		return decodeMenu(choice)
	default:
		return 0, false
	}
}
