package volcano

import (
	"errors"
	"math/rand"
	"sort"

	apperrors "github.com/turtacn/viz-satellite/pkg/errors"
	"github.com/turtacn/viz-satellite/pkg/types/volcano"

	domain "github.com/turtacn/viz-satellite/internal/domain/volcano"
	"github.com/turtacn/viz-satellite/internal/infrastructure/memory"
	"github.com/turtacn/viz-satellite/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/viz-satellite/internal/infrastructure/monitoring/prometheus"
)

// errOverCeiling aborts a serialization attempt from the between-chunk hook
// when reclamation could not bring usage back under the ceiling.
var errOverCeiling = errors.New("memory usage over ceiling after reclaim")

// Governor wraps the serializer with memory-pressure handling.  Between
// chunks it consults the memory monitor and reclaims if usage is over the
// ceiling; when reclamation is not enough, the working dataset is halved by
// random subsampling and serialization retried, up to a bounded number of
// degradations, instead of failing the request outright.
type Governor struct {
	serializer *domain.Serializer
	monitor    memory.Monitor
	maxHalving int
	seed       int64
	logger     logging.Logger
	metrics    *prometheus.AppMetrics
}

// GovernorResult is a serialization outcome plus how degraded it is.
type GovernorResult struct {
	*domain.SerializeResult
	Degradations int
}

// NewGovernor creates a Governor.
func NewGovernor(serializer *domain.Serializer, monitor memory.Monitor, maxHalvings int, logger logging.Logger, metrics *prometheus.AppMetrics) *Governor {
	return &Governor{
		serializer: serializer,
		monitor:    monitor,
		maxHalving: maxHalvings,
		seed:       domain.DefaultSeed,
		logger:     logger.Named("governor"),
		metrics:    metrics,
	}
}

// Serialize produces wire records for ds, degrading gracefully under memory
// pressure.  It fails only when the dataset has been halved the maximum
// number of times and usage still cannot be brought under the ceiling.
func (g *Governor) Serialize(ds volcano.Dataset) (*GovernorResult, error) {
	working := ds

	for attempt := 0; ; attempt++ {
		res, err := g.serializer.Serialize(working, g.betweenChunks)
		if err == nil {
			return &GovernorResult{SerializeResult: res, Degradations: attempt}, nil
		}
		if !errors.Is(err, errOverCeiling) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeSerialization, "serialization failed")
		}
		if attempt >= g.maxHalving {
			return nil, apperrors.MemoryPressure("memory ceiling still exceeded after maximum degradation")
		}

		working = g.halve(working)
		g.metrics.SerializerDegradationsTotal.WithLabelValues("memory_pressure").Inc()
		g.logger.Warn("degrading payload under memory pressure",
			logging.Int("attempt", attempt+1),
			logging.Int("remaining_rows", len(working)))
	}
}

func (g *Governor) betweenChunks() error {
	if !g.monitor.OverCeiling() {
		return nil
	}
	g.monitor.Reclaim()
	if g.monitor.OverCeiling() {
		return errOverCeiling
	}
	return nil
}

// halve subsamples ds to half its size uniformly without replacement,
// preserving the original row order.
func (g *Governor) halve(ds volcano.Dataset) volcano.Dataset {
	target := len(ds) / 2
	rng := rand.New(rand.NewSource(g.seed))

	indices := rng.Perm(len(ds))[:target]
	sort.Ints(indices)

	out := make(volcano.Dataset, 0, target)
	for _, idx := range indices {
		out = append(out, ds[idx])
	}
	return out
}
