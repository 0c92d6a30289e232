package volcano

import (
	"context"

	"github.com/google/uuid"

	apperrors "github.com/turtacn/viz-satellite/pkg/errors"
	"github.com/turtacn/viz-satellite/pkg/types/volcano"

	domain "github.com/turtacn/viz-satellite/internal/domain/volcano"
	"github.com/turtacn/viz-satellite/internal/infrastructure/cache"
	"github.com/turtacn/viz-satellite/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/viz-satellite/internal/infrastructure/monitoring/prometheus"
)

// Pipeline stage tags attached to processing errors.
const (
	StageCache     = "cache"
	StageSearch    = "search"
	StageCategory  = "categorize"
	StageViewport  = "viewport"
	StageSample    = "sample"
	StageSerialize = "serialize"
)

// Response is the wire envelope for a volcano-data request.  Data carries
// the flat record list; on the streaming path Data is empty and Chunks holds
// the row-range-tagged pieces instead.
type Response struct {
	Data                 volcano.Dataset `json:"data"`
	Stats                volcano.Stats   `json:"stats"`
	TotalRows            int             `json:"total_rows"`
	FilteredRows         int             `json:"filtered_rows"`
	PointsBeforeSampling int             `json:"points_before_sampling"`
	IsDownsampled        bool            `json:"is_downsampled"`
	Streaming            bool            `json:"streaming,omitempty"`
	Chunks               []domain.Chunk  `json:"chunks,omitempty"`
}

// Service orchestrates the pipeline: cache lookup, optional search filter,
// categorization, optional viewport filter, zoom-scaled budget, sampling
// when over budget, and memory-governed serialization.  Every stage operates
// on request-local data; failures surface stage-tagged, never as partial
// results.
type Service struct {
	cache    *cache.DatasetCache
	sampler  *domain.Sampler
	governor *Governor
	logger   logging.Logger
	metrics  *prometheus.AppMetrics
}

// NewService wires the pipeline components together.
func NewService(datasetCache *cache.DatasetCache, sampler *domain.Sampler, governor *Governor, logger logging.Logger, metrics *prometheus.AppMetrics) *Service {
	return &Service{
		cache:    datasetCache,
		sampler:  sampler,
		governor: governor,
		logger:   logger.Named("pipeline"),
		metrics:  metrics,
	}
}

// Process validates req and runs the full pipeline, returning the assembled
// response envelope.
func (s *Service) Process(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := s.logger.With(logging.String("run_id", runID))

	ds, err := s.timed(StageCache, func() (volcano.Dataset, error) {
		return s.cache.Get(ctx, req.DatasetSize)
	})
	if err != nil {
		return s.fail(logger, StageCache, err)
	}
	totalRows := len(ds)

	if term := SanitizeSearchTerm(req.SearchTerm); term != "" {
		ds, _ = s.timed(StageSearch, func() (volcano.Dataset, error) {
			return FilterBySearch(ds, term), nil
		})
	}

	ds, _ = s.timed(StageCategory, func() (volcano.Dataset, error) {
		return domain.Categorize(ds, req.Thresholds()), nil
	})
	stats := ds.Count()

	ds, _ = s.timed(StageViewport, func() (volcano.Dataset, error) {
		return domain.FilterViewport(ds, req.Viewport), nil
	})
	pointsBeforeSampling := len(ds)

	budget := req.MaxPoints
	if req.LODEnabled {
		budget = domain.LODBudget(req.Zoom, req.MaxPoints)
	}

	downsampled := false
	if len(ds) > budget {
		ds, _ = s.timed(StageSample, func() (volcano.Dataset, error) {
			return s.sampler.Sample(ds, budget, req.Zoom), nil
		})
		downsampled = true
	}

	var result *GovernorResult
	_, err = s.timed(StageSerialize, func() (volcano.Dataset, error) {
		var serErr error
		result, serErr = s.governor.Serialize(ds)
		return nil, serErr
	})
	if err != nil {
		return s.fail(logger, StageSerialize, err)
	}

	resp := &Response{
		Stats:                stats,
		TotalRows:            totalRows,
		FilteredRows:         result.Rows(),
		PointsBeforeSampling: pointsBeforeSampling,
		IsDownsampled:        downsampled || result.Degradations > 0,
	}
	if result.Mode == domain.ModeStreamed {
		resp.Streaming = true
		resp.Chunks = result.Chunks
		resp.Data = volcano.Dataset{}
	} else {
		resp.Data = result.Data
	}

	s.metrics.PipelineRunsTotal.WithLabelValues("ok").Inc()
	s.metrics.DatasetPointsReturned.WithLabelValues(string(result.Mode)).Observe(float64(resp.FilteredRows))
	logger.Info("pipeline completed",
		logging.Int("total_rows", totalRows),
		logging.Int("returned_rows", resp.FilteredRows),
		logging.Bool("downsampled", resp.IsDownsampled),
		logging.String("mode", string(result.Mode)))
	return resp, nil
}

// Warm delegates cache warming for the requested sizes.
func (s *Service) Warm(ctx context.Context, sizes []int) cache.WarmReport {
	return s.cache.Warm(ctx, sizes)
}

// ClearCache empties the dataset cache and returns the removed entry count.
func (s *Service) ClearCache() int {
	return s.cache.Clear()
}

// CacheStatus reports the current cache contents.
func (s *Service) CacheStatus() cache.Status {
	return s.cache.Status()
}

func (s *Service) timed(stage string, fn func() (volcano.Dataset, error)) (volcano.Dataset, error) {
	timer := prometheus.NewTimer(s.metrics.PipelineStageDuration.WithLabelValues(stage))
	defer timer.ObserveDuration()
	return fn()
}

func (s *Service) fail(logger logging.Logger, stage string, err error) (*Response, error) {
	s.metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
	logger.Error("pipeline stage failed", logging.String("stage", stage), logging.Err(err))
	return nil, apperrors.Stage(err, stage)
}
