// Package main provides the background worker for the pool chemistry
// service. It refreshes remote chemical data sheets on an interval so the
// API's safety cache stays warm, and exposes a health endpoint for the
// container platform.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/deepbluepool/poolchem/internal/config"
	"github.com/deepbluepool/poolchem/internal/featureflags"
	"github.com/deepbluepool/poolchem/internal/safety"
	"github.com/deepbluepool/poolchem/internal/safety/datasheet"
	"github.com/deepbluepool/poolchem/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "poolchem-worker"

	_ = godotenv.Load()

	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	log := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting pool chemistry worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The worker only makes sense against a remote data sheet service;
	// without one it stays idle behind the health endpoint.
	var job *worker.RefreshJob
	if cfg.Safety.DatasheetURL != "" {
		provider := datasheet.NewClient(datasheet.ClientConfig{
			BaseURL: cfg.Safety.DatasheetURL,
			APIKey:  cfg.Safety.DatasheetAPIKey,
			Logger:  log,
		})

		safetyService := safety.NewService(safety.ServiceConfig{
			Provider: provider,
			FeatureFlags: featureflags.NewService(featureflags.ServiceConfig{
				Repository: featureflags.NewInMemoryRepository(),
				Logger:     log,
			}),
			Logger:          log,
			CacheTTL:        cfg.Safety.CacheTTL,
			StaleIfErrorTTL: cfg.Safety.StaleIfErrorTTL,
		})

		job = worker.NewRefreshJob(worker.RefreshJobConfig{
			Logger: log,
			Safety: safetyService,
		})

		log.Info().
			Str("base_url", cfg.Safety.DatasheetURL).
			Dur("interval", cfg.Safety.RefreshInterval).
			Msg("data sheet refresh job configured")
	} else {
		log.Warn().Msg("SAFETY_DATASHEET_URL not set - refresh job disabled")
	}

	// Health endpoint for the container platform
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		body := map[string]interface{}{
			"status":  "healthy",
			"version": Version,
		}
		if job != nil {
			body["refresh"] = job.MetricsSnapshot()
		}
		_ = json.NewEncoder(w).Encode(body)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("health server error")
		}
	}()

	if job != nil {
		go func() {
			// Run once at startup, then on the interval.
			job.Run(ctx)

			ticker := time.NewTicker(cfg.Safety.RefreshInterval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					job.Run(ctx)
				}
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
