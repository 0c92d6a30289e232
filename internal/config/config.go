// Package config defines all configuration structures for the viz-satellite
// service.  No I/O or parsing logic lives here — only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
}

// CacheConfig holds dataset-cache tunables.
type CacheConfig struct {
	// MinSize and MaxSize bound the dataset sizes the cache will hold;
	// requested sizes are clamped into this range, never rejected.
	MinSize int `mapstructure:"min_size"`
	MaxSize int `mapstructure:"max_size"`

	// BytesPerRow is the per-row constant used for the approximate memory
	// estimate reported by cache status.  An estimate, not exact accounting.
	BytesPerRow int `mapstructure:"bytes_per_row"`

	// WarmConcurrency caps the number of sizes generated in parallel during
	// cache warming.
	WarmConcurrency int `mapstructure:"warm_concurrency"`
}

// PipelineConfig holds request-pipeline defaults and limits.
type PipelineConfig struct {
	DefaultPValueThreshold float64 `mapstructure:"default_p_value_threshold"`
	DefaultLogFCMin        float64 `mapstructure:"default_log_fc_min"`
	DefaultLogFCMax        float64 `mapstructure:"default_log_fc_max"`
	DefaultDatasetSize     int     `mapstructure:"default_dataset_size"`

	// BaseMaxPoints is the point budget at zoom 1 before LOD scaling.
	BaseMaxPoints int `mapstructure:"base_max_points"`
}

// SerializerConfig holds chunking and streaming thresholds for the
// memory-bounded serializer.
type SerializerConfig struct {
	// ChunkThreshold is the row count above which records are produced in
	// fixed-size chunks instead of one allocation.
	ChunkThreshold int `mapstructure:"chunk_threshold"`

	// ChunkSize is the number of rows per chunk on the chunked path.
	ChunkSize int `mapstructure:"chunk_size"`

	// StreamThreshold is the row count above which chunks are wrapped in a
	// streaming envelope of row-range-tagged chunks.
	StreamThreshold int `mapstructure:"stream_threshold"`
}

// MemoryConfig holds memory-monitor parameters.
type MemoryConfig struct {
	// CeilingBytes is the heap usage above which the monitor reports
	// pressure and triggers reclamation between serializer chunks.
	// Zero disables monitoring.
	CeilingBytes uint64 `mapstructure:"ceiling_bytes"`

	// MaxDegradations caps the number of dataset halvings attempted per
	// request before surfacing a memory-pressure error.
	MaxDegradations int `mapstructure:"max_degradations"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// Config is the root configuration for the service.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	Serializer SerializerConfig `mapstructure:"serializer"`
	Memory     MemoryConfig     `mapstructure:"memory"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// Validate checks cross-field constraints after defaults are applied.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1,65535], got %d", c.Server.Port)
	}
	if c.Cache.MinSize <= 0 {
		return fmt.Errorf("cache.min_size must be positive, got %d", c.Cache.MinSize)
	}
	if c.Cache.MaxSize < c.Cache.MinSize {
		return fmt.Errorf("cache.max_size (%d) must be >= cache.min_size (%d)",
			c.Cache.MaxSize, c.Cache.MinSize)
	}
	if c.Cache.BytesPerRow <= 0 {
		return fmt.Errorf("cache.bytes_per_row must be positive, got %d", c.Cache.BytesPerRow)
	}
	if c.Pipeline.DefaultPValueThreshold < 0 || c.Pipeline.DefaultPValueThreshold > 1 {
		return fmt.Errorf("pipeline.default_p_value_threshold must be in [0,1], got %g",
			c.Pipeline.DefaultPValueThreshold)
	}
	if c.Pipeline.DefaultLogFCMin > c.Pipeline.DefaultLogFCMax {
		return fmt.Errorf("pipeline.default_log_fc_min (%g) must be <= default_log_fc_max (%g)",
			c.Pipeline.DefaultLogFCMin, c.Pipeline.DefaultLogFCMax)
	}
	if c.Pipeline.BaseMaxPoints <= 0 {
		return fmt.Errorf("pipeline.base_max_points must be positive, got %d",
			c.Pipeline.BaseMaxPoints)
	}
	if c.Serializer.ChunkSize <= 0 {
		return fmt.Errorf("serializer.chunk_size must be positive, got %d", c.Serializer.ChunkSize)
	}
	if c.Serializer.StreamThreshold < c.Serializer.ChunkThreshold {
		return fmt.Errorf("serializer.stream_threshold (%d) must be >= chunk_threshold (%d)",
			c.Serializer.StreamThreshold, c.Serializer.ChunkThreshold)
	}
	if c.Memory.MaxDegradations < 0 {
		return fmt.Errorf("memory.max_degradations must be >= 0, got %d", c.Memory.MaxDegradations)
	}
	return nil
}
