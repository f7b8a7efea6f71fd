package socketinput

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferKeys(t *testing.T) {
	t.Parallel()
	b := &Buffer{}
	assert.False(t, b.KeyPressed())

	b.PushKey()
	b.handleKey("ignored payload")
	assert.True(t, b.KeyPressed())
	assert.True(t, b.KeyPressed())
	assert.False(t, b.KeyPressed())
}

func TestBufferKeysAreBounded(t *testing.T) {
	t.Parallel()
	b := &Buffer{}
	for i := 0; i < maxPendingKeys*2; i++ {
		b.PushKey()
	}
	n := 0
	for b.KeyPressed() {
		n++
	}
	assert.Equal(t, maxPendingKeys, n)
}

func TestBufferMenuKeepsLatest(t *testing.T) {
	t.Parallel()
	b := &Buffer{}
	assert.Equal(t, 0, b.SelectedMenu())

	b.PushMenu(1)
	b.PushMenu(2)
	assert.Equal(t, 2, b.SelectedMenu())
	assert.Equal(t, 0, b.SelectedMenu(), "a choice is consumed once")
}

func TestBufferConcurrentWriters(t *testing.T) {
	t.Parallel()
	b := &Buffer{}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.PushKey()
			b.PushMenu(3)
		}()
	}
	wg.Wait()

	n := 0
	for b.KeyPressed() {
		n++
	}
	assert.Equal(t, 8, n)
	assert.Equal(t, 3, b.SelectedMenu())
}

func TestDecodeMenu(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		data   []any
		want   int
		wantOK bool
	}{
		{name: "float", data: []any{float64(2)}, want: 2, wantOK: true},
		{name: "fractional float", data: []any{1.5}, want: 1, wantOK: false},
		{name: "int", data: []any{3}, want: 3, wantOK: true},
		{name: "json number", data: []any{json.Number("1")}, want: 1, wantOK: true},
		{name: "string", data: []any{"2"}, want: 2, wantOK: true},
		{name: "bad string", data: []any{"two"}, wantOK: false},
		{name: "object", data: []any{map[string]any{"choice": float64(3)}}, want: 3, wantOK: true},
		{name: "object without choice", data: []any{map[string]any{"x": 1}}, wantOK: false},
		{name: "empty", data: nil, wantOK: false},
		{name: "bool", data: []any{true}, wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := decodeMenu(tc.data...)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestHandleMenuIgnoresMalformed(t *testing.T) {
	t.Parallel()
	b := &Buffer{}
	assert.False(t, b.handleMenu("nope"))
	assert.Equal(t, 0, b.SelectedMenu())
	assert.True(t, b.handleMenu(float64(1)))
	assert.Equal(t, 1, b.SelectedMenu())
}

func TestDialRejectsBadURL(t *testing.T) {
	t.Parallel()
	_, err := Dial(context.Background(), "localhost-without-scheme", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme and host")
}
