package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ntdung/trendworker/config"
	"ntdung/trendworker/internal/metrics"
	"ntdung/trendworker/internal/scrape"
	"ntdung/trendworker/logger"
	"ntdung/trendworker/services/cache"
	"ntdung/trendworker/services/publisher"
	"ntdung/trendworker/services/store"
	"ntdung/trendworker/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Dur("refresh_interval", cfg.RefreshInterval).
		Bool("allow_synthetic", cfg.AllowSynthetic).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	// Build the acquisition orchestrator over the default platform table
	acquirer, err := scrape.New(scrape.DefaultPlatforms(), services.Cache, cfg.BlockTime)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid platform table")
	}

	log.Info().
		Int("platform_count", len(acquirer.Platforms())).
		Msg("Created acquirer")

	// Expose metrics
	registry := metrics.NewRegistry()
	metricsServer := &http.Server{Addr: cfg.MetricsAddr, Handler: registry.Handler()}
	go func() {
		log.Info().Str("addr", cfg.MetricsAddr).Msg("Serving metrics")
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Metrics server exited")
		}
	}()

	// Create and start worker
	w := worker.NewWorker(
		ctx,
		services.Store,
		acquirer,
		services.Publisher,
		registry,
		cfg.RefreshInterval,
		cfg.PlatformConcurrency,
		cfg.AllowSynthetic,
	)

	workerDone := make(chan struct{})
	go func() {
		log.Info().Msg("Starting refresh worker")
		w.Start()
		close(workerDone)
	}()

	// Wait for shutdown signal or worker exit
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-workerDone
	case <-workerDone:
		log.Info().Msg("Worker exited")
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
	metricsServer.Shutdown(context.Background())
}

// Services holds all the initialized services
type Services struct {
	Store     store.Store
	Cache     cache.CacheService
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	if s.Store != nil {
		s.Store.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	// Initialize datastore
	pg, err := store.NewPostgresStore(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	services.Store = pg

	logger.Info("Connected to Postgres")

	// Initialize cache service
	services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)

	logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)

	// Initialize publisher
	services.Publisher = publisher.NewRedisPublisher(
		ctx,
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamCount,
		cfg.RedisStreamMaxLength,
	)

	logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)

	return services, nil
}
