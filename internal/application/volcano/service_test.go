package volcano

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/turtacn/viz-satellite/pkg/errors"
	"github.com/turtacn/viz-satellite/pkg/types/volcano"

	domain "github.com/turtacn/viz-satellite/internal/domain/volcano"
	"github.com/turtacn/viz-satellite/internal/infrastructure/cache"
	"github.com/turtacn/viz-satellite/internal/infrastructure/memory"
	"github.com/turtacn/viz-satellite/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/viz-satellite/internal/infrastructure/monitoring/prometheus"
)

func newTestService(t *testing.T, serializer *domain.Serializer, monitor memory.Monitor) *Service {
	t.Helper()

	logger := logging.NewNopLogger()
	metrics := prometheus.NewNopAppMetrics()

	generator := domain.NewGenerator(MinDatasetSize, MaxDatasetSize)
	datasetCache := cache.NewDatasetCache(
		func(_ context.Context, size int) (volcano.Dataset, error) {
			return generator.Generate(size), nil
		},
		cache.Config{MinSize: MinDatasetSize, MaxSize: MaxDatasetSize, BytesPerRow: 112, WarmConcurrency: 4},
		logger, metrics)

	governor := NewGovernor(serializer, monitor, 6, logger, metrics)
	return NewService(datasetCache, domain.NewSampler(domain.DefaultSeed), governor, logger, metrics)
}

func defaultTestService(t *testing.T) *Service {
	return newTestService(t, domain.NewSerializer(50000, 10000, 200000), &memory.FakeMonitor{})
}

func TestProcessEndToEnd(t *testing.T) {
	s := defaultTestService(t)

	req := NewRequest(testDefaults())
	req.DatasetSize = 1000
	req.MaxPoints = 100
	req.Zoom = 1.0

	resp, err := s.Process(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, resp.Data, 100)
	assert.Equal(t, 1000, resp.TotalRows)
	assert.Equal(t, 1000, resp.PointsBeforeSampling)
	assert.Equal(t, 100, resp.FilteredRows)
	assert.True(t, resp.IsDownsampled)
	assert.False(t, resp.Streaming)

	// Stats describe the full categorized dataset, not the sampled slice.
	assert.Equal(t, 1000, resp.Stats.Up+resp.Stats.Down+resp.Stats.NonSignificant)

	// The most extreme points survive heavy downsampling.
	full := domain.Categorize(domain.NewGenerator(MinDatasetSize, MaxDatasetSize).Generate(1000), req.Thresholds())
	var maxUp, minDown volcano.DataPoint
	for _, p := range full {
		if p.Category == volcano.CategoryUp && p.LogFC > maxUp.LogFC {
			maxUp = p
		}
		if p.Category == volcano.CategoryDown && p.LogFC < minDown.LogFC {
			minDown = p
		}
	}
	assert.Contains(t, resp.Data, maxUp)
	assert.Contains(t, resp.Data, minDown)
}

func TestProcessNoSamplingUnderBudget(t *testing.T) {
	s := defaultTestService(t)

	req := NewRequest(testDefaults())
	req.DatasetSize = 100
	req.MaxPoints = 2000

	resp, err := s.Process(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, resp.Data, 100)
	assert.False(t, resp.IsDownsampled)
	assert.Equal(t, 100, resp.FilteredRows)
}

func TestProcessSearchFilter(t *testing.T) {
	s := defaultTestService(t)

	req := NewRequest(testDefaults())
	req.DatasetSize = 100
	req.SearchTerm = "Creatinine"

	resp, err := s.Process(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Creatinine", resp.Data[0].Gene)
	assert.Equal(t, 100, resp.TotalRows)
	assert.Equal(t, 1, resp.FilteredRows)
}

func TestProcessViewportFilter(t *testing.T) {
	s := defaultTestService(t)

	req := NewRequest(testDefaults())
	req.DatasetSize = 1000
	req.Viewport = volcano.Viewport{
		X: &volcano.AxisRange{Min: 0, Max: 5},
		Y: &volcano.AxisRange{Min: 0, Max: 10},
	}

	resp, err := s.Process(context.Background(), req)
	require.NoError(t, err)

	assert.Less(t, resp.PointsBeforeSampling, resp.TotalRows)
	// The expanded x range reaches -1 at its lower margin.
	for _, p := range resp.Data {
		assert.GreaterOrEqual(t, p.LogFC, -1.0)
	}
}

func TestProcessLODScalesBudget(t *testing.T) {
	s := defaultTestService(t)

	req := NewRequest(testDefaults())
	req.DatasetSize = 10000
	req.MaxPoints = 500
	req.Zoom = 4.0 // 4^1.5 = 8x budget

	resp, err := s.Process(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, resp.Data, 4000)
	assert.True(t, resp.IsDownsampled)
}

func TestProcessValidationFailure(t *testing.T) {
	s := defaultTestService(t)

	req := NewRequest(testDefaults())
	req.PValueThreshold = 5

	_, err := s.Process(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestProcessStreamingEnvelope(t *testing.T) {
	// Stream above 150 rows in chunks of 100.
	s := newTestService(t, domain.NewSerializer(100, 100, 150), &memory.FakeMonitor{})

	req := NewRequest(testDefaults())
	req.DatasetSize = 1000
	req.MaxPoints = 1000
	req.LODEnabled = false

	resp, err := s.Process(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, resp.Streaming)
	assert.Empty(t, resp.Data)
	require.Len(t, resp.Chunks, 10)
	assert.Equal(t, 1000, resp.FilteredRows)
	assert.Equal(t, 0, resp.Chunks[0].StartRow)
	assert.Equal(t, 1000, resp.Chunks[9].EndRow)
}

func TestProcessDegradationMarksDownsampled(t *testing.T) {
	// Chunked path with persistent pressure on the first attempt only.
	monitor := &memory.FakeMonitor{Pressure: []bool{true, true}}
	s := newTestService(t, domain.NewSerializer(100, 100, 100000), monitor)

	req := NewRequest(testDefaults())
	req.DatasetSize = 1000
	req.MaxPoints = 1000
	req.LODEnabled = false

	resp, err := s.Process(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, resp.Data, 500)
	assert.True(t, resp.IsDownsampled)
}

func TestCacheOperationsThroughService(t *testing.T) {
	s := defaultTestService(t)
	ctx := context.Background()

	report := s.Warm(ctx, []int{100, 200})
	assert.Equal(t, []int{100, 200}, report.Succeeded)
	assert.Empty(t, report.Failed)

	st := s.CacheStatus()
	assert.Equal(t, 2, st.Count)

	assert.Equal(t, 2, s.ClearCache())
	assert.Zero(t, s.CacheStatus().Count)
}
