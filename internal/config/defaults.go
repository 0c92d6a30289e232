package config

import "time"

// Default value constants.
const (
	DefaultServerPort      = 8000
	DefaultRequestTimeout  = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMinDatasetSize = 100
	DefaultMaxDatasetSize = 1_000_000
	DefaultBytesPerRow    = 112
	DefaultWarmConcurrency = 4

	DefaultPValueThreshold = 0.05
	DefaultLogFCMin        = -0.5
	DefaultLogFCMax        = 0.5
	DefaultDatasetSize     = 10_000
	DefaultBaseMaxPoints   = 2_000

	DefaultChunkThreshold  = 50_000
	DefaultChunkSize       = 10_000
	DefaultStreamThreshold = 200_000

	DefaultMemoryCeilingBytes = 1 << 30 // 1 GiB heap
	DefaultMaxDegradations    = 6

	DefaultMetricsNamespace = "vizsat"
)

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields already set by the caller are left unchanged so that explicit
// configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60 * time.Second
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Cache.MinSize == 0 {
		cfg.Cache.MinSize = DefaultMinDatasetSize
	}
	if cfg.Cache.MaxSize == 0 {
		cfg.Cache.MaxSize = DefaultMaxDatasetSize
	}
	if cfg.Cache.BytesPerRow == 0 {
		cfg.Cache.BytesPerRow = DefaultBytesPerRow
	}
	if cfg.Cache.WarmConcurrency == 0 {
		cfg.Cache.WarmConcurrency = DefaultWarmConcurrency
	}

	if cfg.Pipeline.DefaultPValueThreshold == 0 {
		cfg.Pipeline.DefaultPValueThreshold = DefaultPValueThreshold
	}
	if cfg.Pipeline.DefaultLogFCMin == 0 && cfg.Pipeline.DefaultLogFCMax == 0 {
		cfg.Pipeline.DefaultLogFCMin = DefaultLogFCMin
		cfg.Pipeline.DefaultLogFCMax = DefaultLogFCMax
	}
	if cfg.Pipeline.DefaultDatasetSize == 0 {
		cfg.Pipeline.DefaultDatasetSize = DefaultDatasetSize
	}
	if cfg.Pipeline.BaseMaxPoints == 0 {
		cfg.Pipeline.BaseMaxPoints = DefaultBaseMaxPoints
	}

	if cfg.Serializer.ChunkThreshold == 0 {
		cfg.Serializer.ChunkThreshold = DefaultChunkThreshold
	}
	if cfg.Serializer.ChunkSize == 0 {
		cfg.Serializer.ChunkSize = DefaultChunkSize
	}
	if cfg.Serializer.StreamThreshold == 0 {
		cfg.Serializer.StreamThreshold = DefaultStreamThreshold
	}

	if cfg.Memory.CeilingBytes == 0 {
		cfg.Memory.CeilingBytes = DefaultMemoryCeilingBytes
	}
	if cfg.Memory.MaxDegradations == 0 {
		cfg.Memory.MaxDegradations = DefaultMaxDegradations
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// NewDefaultConfig returns a Config populated entirely with defaults.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Metrics.Enabled = true
	return cfg
}
