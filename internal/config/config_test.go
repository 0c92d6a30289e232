package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultMinDatasetSize, cfg.Cache.MinSize)
	assert.Equal(t, DefaultMaxDatasetSize, cfg.Cache.MaxSize)
	assert.Equal(t, DefaultPValueThreshold, cfg.Pipeline.DefaultPValueThreshold)
	assert.Equal(t, DefaultStreamThreshold, cfg.Serializer.StreamThreshold)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9000
	cfg.Cache.BytesPerRow = 64

	ApplyDefaults(cfg)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 64, cfg.Cache.BytesPerRow)
	assert.Equal(t, DefaultChunkSize, cfg.Serializer.ChunkSize)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{
			name:   "port out of range",
			mutate: func(c *Config) { c.Server.Port = 70000 },
			errMsg: "server.port",
		},
		{
			name:   "max size below min size",
			mutate: func(c *Config) { c.Cache.MaxSize = 10 },
			errMsg: "cache.max_size",
		},
		{
			name:   "p-value threshold above one",
			mutate: func(c *Config) { c.Pipeline.DefaultPValueThreshold = 1.5 },
			errMsg: "default_p_value_threshold",
		},
		{
			name:   "inverted fold-change band",
			mutate: func(c *Config) { c.Pipeline.DefaultLogFCMin = 1; c.Pipeline.DefaultLogFCMax = -1 },
			errMsg: "default_log_fc_min",
		},
		{
			name:   "stream threshold below chunk threshold",
			mutate: func(c *Config) { c.Serializer.StreamThreshold = 1 },
			errMsg: "stream_threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 8123
log:
  level: debug
cache:
  max_size: 500000
serializer:
  chunk_size: 5000
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8123, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 500000, cfg.Cache.MaxSize)
	assert.Equal(t, 5000, cfg.Serializer.ChunkSize)
	// Unset fields fall back to defaults.
	assert.Equal(t, DefaultBytesPerRow, cfg.Cache.BytesPerRow)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("VIZSAT_SERVER_PORT", "8222")
	t.Setenv("VIZSAT_LOG_LEVEL", "warn")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8222, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}
