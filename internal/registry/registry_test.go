package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/framekeeper/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context, task.Scheduler, *task.Args) (task.Status, error) {
	return task.Remove, nil
}

type fakeModule struct{ names []string }

func (m fakeModule) Register(r *Registry) {
	for _, n := range m.names {
		r.Register(n, noop)
	}
}

func TestRegisterAndLookup(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	r := New()

	// --- Act ---
	r.RegisterModules(fakeModule{names: []string{"b", "a"}}, fakeModule{names: []string{"c"}})

	// --- Assert ---
	assert.Equal(t, []string{"a", "b", "c"}, r.Names())
	fn, err := r.Lookup("a")
	require.NoError(t, err)
	require.NotNil(t, fn)
}

func TestLookupUnknown(t *testing.T) {
	t.Parallel()
	_, err := New().Lookup("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHandlerNotFound))
	assert.Contains(t, err.Error(), "missing")
}

func TestRegisterPanics(t *testing.T) {
	t.Parallel()
	r := New()
	r.Register("dup", noop)

	assert.Panics(t, func() { r.Register("dup", noop) })
	assert.Panics(t, func() { r.Register("", noop) })
	assert.Panics(t, func() { r.Register("nilfn", nil) })
}
