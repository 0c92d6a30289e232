package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/viz-satellite/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/viz-satellite/internal/infrastructure/monitoring/prometheus"
)

func newRuntimeMonitor(ceiling uint64) Monitor {
	return NewMonitor(ceiling, logging.NewNopLogger(), prometheus.NewNopAppMetrics())
}

func TestRuntimeMonitorUsage(t *testing.T) {
	m := newRuntimeMonitor(0)
	assert.Positive(t, m.UsageBytes())
}

func TestRuntimeMonitorCeiling(t *testing.T) {
	// Zero ceiling disables pressure detection entirely.
	assert.False(t, newRuntimeMonitor(0).OverCeiling())
	// A one-byte ceiling is always exceeded by a live process.
	assert.True(t, newRuntimeMonitor(1).OverCeiling())
}

func TestRuntimeMonitorReclaim(t *testing.T) {
	m := newRuntimeMonitor(0)
	assert.Positive(t, m.Reclaim())
}

func TestFakeMonitorScript(t *testing.T) {
	f := &FakeMonitor{Pressure: []bool{true, false}, Usage: 42}

	assert.True(t, f.OverCeiling())
	assert.False(t, f.OverCeiling())
	// Queue exhausted: defaults to no pressure.
	assert.False(t, f.OverCeiling())

	assert.EqualValues(t, 42, f.Reclaim())
	assert.Equal(t, 1, f.ReclaimCalls)
}
