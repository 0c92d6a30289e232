// Package cache provides the process-lifetime dataset cache: a size-keyed
// in-memory store with single-flight population, best-effort warming, atomic
// clearing, and self-healing status inspection.  It is the only shared
// mutable state in the service.
package cache

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/turtacn/viz-satellite/pkg/errors"
	"github.com/turtacn/viz-satellite/pkg/types/volcano"

	"github.com/turtacn/viz-satellite/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/viz-satellite/internal/infrastructure/monitoring/prometheus"
)

// GenerateFunc produces a dataset for a size on cache miss.
type GenerateFunc func(ctx context.Context, size int) (volcano.Dataset, error)

// Config holds cache construction parameters.
type Config struct {
	MinSize         int
	MaxSize         int
	BytesPerRow     int
	WarmConcurrency int
}

// Status is a point-in-time snapshot of the cache contents.
type Status struct {
	Sizes       []int  `json:"cached_sizes"`
	Count       int    `json:"entry_count"`
	MemoryBytes uint64 `json:"memory_bytes_estimate"`
	Removed     int    `json:"removed_corrupt_entries"`
}

// WarmFailure records one size that could not be warmed.
type WarmFailure struct {
	Size   int    `json:"size"`
	Reason string `json:"reason"`
}

// WarmReport summarizes a warm run.  Failures never abort the run; every
// requested size appears in exactly one of the two lists.
type WarmReport struct {
	JobID     string        `json:"job_id"`
	Succeeded []int         `json:"succeeded"`
	Failed    []WarmFailure `json:"failed"`
}

// DatasetCache stores generated datasets keyed by their clamped size.
// Concurrent readers of cached keys proceed without contention on the
// generator; concurrent misses for the same size share one generation via
// single-flight, and misses for distinct sizes generate in parallel.
type DatasetCache struct {
	generate GenerateFunc
	cfg      Config
	logger   logging.Logger
	metrics  *prometheus.AppMetrics

	mu      sync.RWMutex
	entries map[int]volcano.Dataset

	group       singleflight.Group
	generations atomic.Int64
}

// NewDatasetCache creates an empty cache.
func NewDatasetCache(generate GenerateFunc, cfg Config, logger logging.Logger, metrics *prometheus.AppMetrics) *DatasetCache {
	return &DatasetCache{
		generate: generate,
		cfg:      cfg,
		logger:   logger.Named("cache"),
		metrics:  metrics,
		entries:  make(map[int]volcano.Dataset),
	}
}

// clampSize folds a requested size into the configured bounds.
func (c *DatasetCache) clampSize(size int) int {
	if size < c.cfg.MinSize {
		return c.cfg.MinSize
	}
	if size > c.cfg.MaxSize {
		return c.cfg.MaxSize
	}
	return size
}

// Get returns the dataset for size, generating and storing it on first
// request.  A corrupt entry (wrong length for its key) is evicted and
// regenerated transparently.
func (c *DatasetCache) Get(ctx context.Context, size int) (volcano.Dataset, error) {
	size = c.clampSize(size)

	c.mu.RLock()
	ds, ok := c.entries[size]
	c.mu.RUnlock()
	if ok {
		if len(ds) == size {
			c.metrics.CacheHitsTotal.WithLabelValues("get").Inc()
			return ds, nil
		}
		c.logger.Warn("evicting corrupt cache entry",
			logging.Int("size", size), logging.Int("actual_rows", len(ds)))
		c.evict(size)
	}

	c.metrics.CacheMissesTotal.WithLabelValues().Inc()

	v, err, _ := c.group.Do(strconv.Itoa(size), func() (interface{}, error) {
		generated, genErr := c.generate(ctx, size)
		if genErr != nil {
			return nil, apperrors.Wrap(genErr, apperrors.ErrCodeGenerationFailed, "dataset generation failed")
		}
		c.generations.Add(1)
		c.metrics.CacheGenerationsTotal.WithLabelValues().Inc()

		c.mu.Lock()
		c.entries[size] = generated
		c.mu.Unlock()
		c.publishGauges()

		return generated, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(volcano.Dataset), nil
}

// Warm populates the cache for each requested size, continuing past
// individual failures.  Non-positive sizes are rejected; out-of-range sizes
// are clamped like Get.  Work runs with bounded concurrency.
func (c *DatasetCache) Warm(ctx context.Context, sizes []int) WarmReport {
	report := WarmReport{JobID: uuid.NewString()}
	var mu sync.Mutex

	concurrency := c.cfg.WarmConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, size := range sizes {
		size := size
		if size <= 0 {
			mu.Lock()
			report.Failed = append(report.Failed, WarmFailure{Size: size, Reason: "size must be positive"})
			mu.Unlock()
			continue
		}
		g.Go(func() error {
			_, err := c.Get(ctx, size)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed = append(report.Failed, WarmFailure{Size: size, Reason: err.Error()})
			} else {
				c.metrics.CacheHitsTotal.WithLabelValues("warm").Inc()
				report.Succeeded = append(report.Succeeded, size)
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Ints(report.Succeeded)
	sort.Slice(report.Failed, func(i, j int) bool { return report.Failed[i].Size < report.Failed[j].Size })

	c.logger.Info("cache warm completed",
		logging.String("job_id", report.JobID),
		logging.Int("succeeded", len(report.Succeeded)),
		logging.Int("failed", len(report.Failed)))
	return report
}

// Clear atomically removes every entry and returns the removed count.
// Readers never observe a half-cleared map.
func (c *DatasetCache) Clear() int {
	c.mu.Lock()
	removed := len(c.entries)
	c.entries = make(map[int]volcano.Dataset)
	c.mu.Unlock()

	c.publishGauges()
	c.logger.Info("cache cleared", logging.Int("removed", removed))
	return removed
}

// Status reports the cached sizes in ascending order with an approximate
// memory estimate (rows x configured bytes-per-row).  Corrupt entries found
// during the scan are pruned and counted separately.
func (c *DatasetCache) Status() Status {
	c.mu.Lock()
	var st Status
	for size, ds := range c.entries {
		if len(ds) != size {
			delete(c.entries, size)
			st.Removed++
			c.logger.Warn("pruned corrupt cache entry",
				logging.Int("size", size), logging.Int("actual_rows", len(ds)))
			continue
		}
		st.Sizes = append(st.Sizes, size)
		st.MemoryBytes += uint64(len(ds)) * uint64(c.cfg.BytesPerRow)
	}
	c.mu.Unlock()

	sort.Ints(st.Sizes)
	st.Count = len(st.Sizes)
	if st.Sizes == nil {
		st.Sizes = []int{}
	}
	c.publishGauges()
	return st
}

// Generations returns how many datasets have been generated since start.
// Exposed so tests can assert single-flight behavior.
func (c *DatasetCache) Generations() int64 {
	return c.generations.Load()
}

func (c *DatasetCache) evict(size int) {
	c.mu.Lock()
	delete(c.entries, size)
	c.mu.Unlock()
	c.publishGauges()
}

func (c *DatasetCache) publishGauges() {
	c.mu.RLock()
	count := len(c.entries)
	var bytes uint64
	for _, ds := range c.entries {
		bytes += uint64(len(ds)) * uint64(c.cfg.BytesPerRow)
	}
	c.mu.RUnlock()

	c.metrics.CacheEntries.WithLabelValues().Set(float64(count))
	c.metrics.CacheMemoryBytes.WithLabelValues().Set(float64(bytes))
}
