package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/viz-satellite/pkg/types/volcano"

	appvolcano "github.com/turtacn/viz-satellite/internal/application/volcano"
	"github.com/turtacn/viz-satellite/internal/config"
	domain "github.com/turtacn/viz-satellite/internal/domain/volcano"
	"github.com/turtacn/viz-satellite/internal/infrastructure/cache"
	"github.com/turtacn/viz-satellite/internal/infrastructure/memory"
	"github.com/turtacn/viz-satellite/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/viz-satellite/internal/infrastructure/monitoring/prometheus"
	httpiface "github.com/turtacn/viz-satellite/internal/interfaces/http"
	"github.com/turtacn/viz-satellite/internal/interfaces/http/handlers"
	"github.com/turtacn/viz-satellite/internal/interfaces/http/middleware"
)

func newServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts.ConfigPath)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	server, err := buildServer(cfg, logger)
	if err != nil {
		return err
	}

	if configPath != "" {
		config.Watch(configPath, func(updated *config.Config) {
			logger.Info("configuration file changed",
				logging.String("path", configPath),
				logging.String("log_level", updated.Log.Level))
		})
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	return server.Stop(context.Background())
}

// buildServer wires the full dependency graph from configuration.
func buildServer(cfg *config.Config, logger logging.Logger) (*httpiface.Server, error) {
	var collector prometheus.MetricsCollector
	if cfg.Metrics.Enabled {
		var err error
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to build metrics collector: %w", err)
		}
	} else {
		collector = prometheus.NewNopCollector()
	}
	metrics := prometheus.NewAppMetrics(collector)

	generator := domain.NewGenerator(cfg.Cache.MinSize, cfg.Cache.MaxSize)
	datasetCache := cache.NewDatasetCache(
		func(_ context.Context, size int) (volcano.Dataset, error) {
			return generator.Generate(size), nil
		},
		cache.Config{
			MinSize:         cfg.Cache.MinSize,
			MaxSize:         cfg.Cache.MaxSize,
			BytesPerRow:     cfg.Cache.BytesPerRow,
			WarmConcurrency: cfg.Cache.WarmConcurrency,
		},
		logger, metrics)

	serializer := domain.NewSerializer(
		cfg.Serializer.ChunkThreshold,
		cfg.Serializer.ChunkSize,
		cfg.Serializer.StreamThreshold)
	monitor := memory.NewMonitor(cfg.Memory.CeilingBytes, logger, metrics)
	governor := appvolcano.NewGovernor(serializer, monitor, cfg.Memory.MaxDegradations, logger, metrics)

	service := appvolcano.NewService(datasetCache, domain.NewSampler(domain.DefaultSeed), governor, logger, metrics)

	defaults := appvolcano.DefaultParams{
		PValueThreshold: cfg.Pipeline.DefaultPValueThreshold,
		LogFCMin:        cfg.Pipeline.DefaultLogFCMin,
		LogFCMax:        cfg.Pipeline.DefaultLogFCMax,
		DatasetSize:     cfg.Pipeline.DefaultDatasetSize,
		MaxPoints:       cfg.Pipeline.BaseMaxPoints,
	}

	routerCfg := httpiface.RouterConfig{
		VolcanoHandler:    handlers.NewVolcanoHandler(service, defaults, logger),
		CacheHandler:      handlers.NewCacheHandler(service, logger),
		HealthHandler:     handlers.NewHealthHandler(Version),
		CORSMiddleware:    middleware.NewCORSMiddleware(middleware.DefaultCORSConfig(cfg.Server.AllowedOrigins)),
		LoggingMiddleware: middleware.NewLoggingMiddleware(logger, middleware.DefaultLoggingConfig()),
		MetricsMiddleware: middleware.NewMetricsMiddleware(metrics),
		RequestTimeout:    cfg.Server.RequestTimeout,
	}
	if cfg.Metrics.Enabled {
		routerCfg.MetricsCollector = collector
	}

	return httpiface.NewServer(httpiface.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, httpiface.NewRouter(routerCfg), logger), nil
}
