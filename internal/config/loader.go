package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all service settings.
const envPrefix = "VIZSAT"

// Version is the service version, overridable at build time via ldflags.
var Version = "1.0.0"

// settingKeys lists every known configuration key.  Viper only resolves
// environment overrides during Unmarshal for keys it has seen, so each key is
// bound explicitly; nested keys like "server.port" resolve to
// "VIZSAT_SERVER_PORT".
var settingKeys = []string{
	"server.port", "server.read_timeout", "server.write_timeout",
	"server.idle_timeout", "server.request_timeout", "server.shutdown_timeout",
	"server.allowed_origins",
	"log.level", "log.format",
	"cache.min_size", "cache.max_size", "cache.bytes_per_row",
	"cache.warm_concurrency",
	"pipeline.default_p_value_threshold", "pipeline.default_log_fc_min",
	"pipeline.default_log_fc_max", "pipeline.default_dataset_size",
	"pipeline.base_max_points",
	"serializer.chunk_threshold", "serializer.chunk_size",
	"serializer.stream_threshold",
	"memory.ceiling_bytes", "memory.max_degradations",
	"metrics.enabled", "metrics.namespace",
}

// newViper builds a pre-configured Viper instance: YAML file type, VIZSAT_
// env prefix, automatic env binding with every known key registered, and a
// key replacer that maps "." → "_".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range settingKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads the YAML file at configPath, merges any VIZSAT_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from VIZSAT_* environment variables
// with no config file required — the preferred strategy for containerised
// deployments.
func LoadFromEnv() (*Config, error) {
	v := newViper()
	return unmarshalAndFinalize(v)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  Intended for
// hot-reloading non-critical settings such as log level and serializer
// thresholds; callers apply only the safe subset at runtime.
//
// Watch is non-blocking; viper manages the background goroutine.  A change
// that fails to parse or validate is dropped without invoking onChange.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}
