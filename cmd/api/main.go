// Package main provides the entrypoint for the pool chemistry API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/deepbluepool/poolchem/internal/api"
	"github.com/deepbluepool/poolchem/internal/api/middleware"
	"github.com/deepbluepool/poolchem/internal/chemistry"
	"github.com/deepbluepool/poolchem/internal/config"
	"github.com/deepbluepool/poolchem/internal/export"
	"github.com/deepbluepool/poolchem/internal/featureflags"
	"github.com/deepbluepool/poolchem/internal/history"
	"github.com/deepbluepool/poolchem/internal/safety"
	"github.com/deepbluepool/poolchem/internal/safety/datasheet"
	"github.com/deepbluepool/poolchem/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "poolchem-api"

	// A .env file is a development convenience; deployments configure
	// through the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Str("env", cfg.App.Env).
		Msg("starting pool chemistry API")

	// Initialize OpenTelemetry
	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.App.Env,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		MetricInterval: cfg.Telemetry.MetricInterval,
		Enabled:        cfg.Telemetry.Enabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.Telemetry.Enabled {
		log.Info().
			Str("otlp_endpoint", cfg.Telemetry.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	providerMetrics, err := telemetry.NewProviderMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize provider metrics")
		os.Exit(1)
	}

	// Initialize feature flags service
	ffService := featureflags.NewService(featureflags.ServiceConfig{
		Repository: featureflags.NewInMemoryRepository(),
		Logger:     log,
		CacheTTL:   1 * time.Minute,
	})
	log.Info().Msg("feature flags service initialized")

	// Initialize the remote data sheet provider when configured. Without it
	// the safety service answers from the built-in reference data alone.
	var provider safety.Provider
	if cfg.Safety.DatasheetURL != "" {
		provider = datasheet.NewClient(datasheet.ClientConfig{
			BaseURL: cfg.Safety.DatasheetURL,
			APIKey:  cfg.Safety.DatasheetAPIKey,
			Logger:  log,
		})
		log.Info().
			Str("base_url", cfg.Safety.DatasheetURL).
			Msg("remote data sheet provider initialized")
	} else {
		log.Info().Msg("no data sheet provider configured - using built-in reference data")
	}

	safetyService := safety.NewService(safety.ServiceConfig{
		Provider:        provider,
		FeatureFlags:    ffService,
		Logger:          log,
		Metrics:         providerMetrics,
		CacheTTL:        cfg.Safety.CacheTTL,
		StaleIfErrorTTL: cfg.Safety.StaleIfErrorTTL,
	})
	log.Info().Msg("safety service initialized")

	// Initialize reading history service
	historyService := history.NewService(history.ServiceConfig{
		FeatureFlags: ffService,
		Logger:       log,
	})
	log.Info().Msg("history service initialized")

	// Initialize the evaluation engine
	engine := chemistry.NewEngine(chemistry.EngineConfig{
		Safety: safetyService,
	})
	log.Info().Msg("evaluation engine initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:            Version,
		BuildTime:          BuildTime,
		Logger:             log,
		Metrics:            metrics,
		Engine:             engine,
		SafetyService:      safetyService,
		HistoryService:     historyService,
		ExportService:      export.NewService(),
		FeatureFlagService: ffService,
		ExportLimit:        cfg.History.ExportLimit,
		RequireTLS:         cfg.Server.RequireTLS,
		EvaluateRPM:        cfg.RateLimit.EvaluatePerMinute,
		MutationRPM:        cfg.RateLimit.MutationPerMinute,
		StandardRPM:        cfg.RateLimit.DefaultPerMinute,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
