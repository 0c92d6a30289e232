// Package memory provides heap usage inspection and explicit reclamation for
// the memory-bounded serialization path.
package memory

import (
	"runtime"
	"runtime/debug"

	"github.com/turtacn/viz-satellite/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/viz-satellite/internal/infrastructure/monitoring/prometheus"
)

// Monitor reports heap usage against a configured ceiling and can force a
// reclamation pass.  The resource governor consults it between serializer
// chunks.
type Monitor interface {
	// UsageBytes returns the current heap allocation.
	UsageBytes() uint64
	// OverCeiling reports whether usage exceeds the configured ceiling.
	OverCeiling() bool
	// Reclaim forces a collection pass and returns the usage afterwards.
	Reclaim() uint64
}

type runtimeMonitor struct {
	ceilingBytes uint64
	logger       logging.Logger
	metrics      *prometheus.AppMetrics
}

// NewMonitor creates a Monitor backed by runtime.MemStats.  A zero ceiling
// disables pressure detection; OverCeiling then always reports false.
func NewMonitor(ceilingBytes uint64, logger logging.Logger, metrics *prometheus.AppMetrics) Monitor {
	return &runtimeMonitor{
		ceilingBytes: ceilingBytes,
		logger:       logger.Named("memory"),
		metrics:      metrics,
	}
}

func (m *runtimeMonitor) UsageBytes() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	m.metrics.MemoryHeapBytes.WithLabelValues().Set(float64(stats.HeapAlloc))
	return stats.HeapAlloc
}

func (m *runtimeMonitor) OverCeiling() bool {
	if m.ceilingBytes == 0 {
		return false
	}
	return m.UsageBytes() > m.ceilingBytes
}

func (m *runtimeMonitor) Reclaim() uint64 {
	before := m.UsageBytes()
	runtime.GC()
	debug.FreeOSMemory()
	after := m.UsageBytes()

	m.metrics.MemoryReclaimsTotal.WithLabelValues().Inc()
	m.logger.Debug("memory reclaimed",
		logging.Uint64("before_bytes", before),
		logging.Uint64("after_bytes", after))
	return after
}

// FakeMonitor is a scriptable Monitor for tests.  OverCeiling pops results
// from the Pressure queue (defaulting to false when exhausted) and Reclaim
// counts its invocations.
type FakeMonitor struct {
	Pressure     []bool
	Usage        uint64
	ReclaimCalls int
}

func (f *FakeMonitor) UsageBytes() uint64 { return f.Usage }

func (f *FakeMonitor) OverCeiling() bool {
	if len(f.Pressure) == 0 {
		return false
	}
	next := f.Pressure[0]
	f.Pressure = f.Pressure[1:]
	return next
}

func (f *FakeMonitor) Reclaim() uint64 {
	f.ReclaimCalls++
	return f.Usage
}
