package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.TaskRan("remove")
		m.TaskFailed()
		m.TickDone(time.Millisecond, 1, 2, 3)
	})
	assert.Nil(t, m.Registry())
}

func TestCollectorsRecord(t *testing.T) {
	m := New()

	m.TaskRan("continue")
	m.TaskRan("continue")
	m.TaskRan("remove")
	m.TaskFailed()
	m.TickDone(2*time.Millisecond, 4, 1, 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues("continue")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("remove")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ticks))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.queueDepth))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.suspended))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.discarded))

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "framekeeper_queue_ticks_total")
	assert.Contains(t, names, "framekeeper_queue_tick_duration_seconds")
}
