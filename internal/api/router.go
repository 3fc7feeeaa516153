// Package api provides the HTTP API for the pool chemistry service.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/deepbluepool/poolchem/internal/api/handler"
	"github.com/deepbluepool/poolchem/internal/api/middleware"
	"github.com/deepbluepool/poolchem/internal/chemistry"
	"github.com/deepbluepool/poolchem/internal/export"
	"github.com/deepbluepool/poolchem/internal/featureflags"
	"github.com/deepbluepool/poolchem/internal/history"
	"github.com/deepbluepool/poolchem/internal/safety"
)

// RouterConfig holds configuration for the router. Nil services are replaced
// with in-memory defaults so a minimal config still yields a working API.
type RouterConfig struct {
	Version            string
	BuildTime          string
	Logger             zerolog.Logger
	Metrics            *middleware.Metrics
	Engine             *chemistry.Engine
	SafetyService      *safety.Service
	HistoryService     *history.Service
	ExportService      *export.Service
	FeatureFlagService *featureflags.Service

	// ExportLimit caps export rows; zero means handler.DefaultExportLimit.
	ExportLimit int

	// RequireTLS rejects plain-HTTP requests forwarded by the load balancer.
	RequireTLS bool

	// Requests per minute per tier; zero keeps the built-in tier defaults.
	EvaluateRPM int
	MutationRPM int
	StandardRPM int
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if cfg.FeatureFlagService == nil {
		cfg.FeatureFlagService = featureflags.NewService(featureflags.ServiceConfig{
			Repository: featureflags.NewInMemoryRepository(),
			Logger:     cfg.Logger,
		})
	}
	if cfg.SafetyService == nil {
		cfg.SafetyService = safety.NewService(safety.ServiceConfig{
			FeatureFlags: cfg.FeatureFlagService,
			Logger:       cfg.Logger,
		})
	}
	if cfg.HistoryService == nil {
		cfg.HistoryService = history.NewService(history.ServiceConfig{
			FeatureFlags: cfg.FeatureFlagService,
			Logger:       cfg.Logger,
		})
	}
	if cfg.ExportService == nil {
		cfg.ExportService = export.NewService()
	}
	if cfg.Engine == nil {
		cfg.Engine = chemistry.NewEngine(chemistry.EngineConfig{
			Safety: cfg.SafetyService,
		})
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID) // Generate/propagate request ID first
	r.Use(middleware.Tracing()) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))         // Structured logging
	r.Use(middleware.Recovery(cfg.Logger))       // Panic recovery
	r.Use(chimiddleware.RealIP)                  // Real IP extraction
	r.Use(middleware.SecurityHeaders)            // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS(cfg.RequireTLS)) // TLS enforcement behind the load balancer
	r.Use(middleware.RequireJSON)                // Reject non-JSON request bodies
	r.Use(middleware.ContentTypeJSON)            // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.SafetyService, cfg.HistoryService, cfg.FeatureFlagService)
	chemistryHandler := handler.NewChemistryHandler(cfg.Engine)
	safetyHandler := handler.NewSafetyHandler(cfg.SafetyService)
	readingHandler := handler.NewReadingHandler(cfg.HistoryService, cfg.ExportService, cfg.ExportLimit)
	featureFlagsHandler := handler.NewFeatureFlagsHandler(cfg.FeatureFlagService)

	// Create rate limit middleware for the endpoint tiers
	evaluateLimit := middleware.EvaluationRateLimit
	if cfg.EvaluateRPM > 0 {
		evaluateLimit = middleware.PerMinute(cfg.EvaluateRPM)
	}
	mutationLimit := middleware.MutationRateLimit
	if cfg.MutationRPM > 0 {
		mutationLimit = middleware.PerMinute(cfg.MutationRPM)
	}
	standardLimit := middleware.StandardRateLimit
	if cfg.StandardRPM > 0 {
		standardLimit = middleware.PerMinute(cfg.StandardRPM)
	}

	evaluateRateLimit := middleware.RateLimitByIP(evaluateLimit)
	mutationRateLimit := middleware.RateLimitByIP(mutationLimit)
	standardRateLimit := middleware.RateLimitByIP(standardLimit)

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// Evaluation - the expensive compute path
		r.With(evaluateRateLimit).Post("/evaluations", chemistryHandler.Evaluate)

		// Ideal ranges (read only)
		r.With(standardRateLimit).Get("/ranges", chemistryHandler.Ranges)

		// Chemical safety data sheets
		r.Route("/safety", func(r chi.Router) {
			r.With(standardRateLimit).Get("/chemicals", safetyHandler.ListChemicals)
			r.Route("/chemicals/{chemicalId}", func(r chi.Router) {
				r.With(standardRateLimit).Get("/", safetyHandler.GetChemical)
				r.With(mutationRateLimit).Put("/", safetyHandler.UpsertChemical)
				r.With(mutationRateLimit).Delete("/", safetyHandler.DeleteChemical)
			})
			r.With(standardRateLimit).Get("/compatibility", safetyHandler.CheckCompatibility)
			r.With(mutationRateLimit).Put("/compatibility", safetyHandler.SetCompatibility)
		})

		// Water test readings
		r.Route("/readings", func(r chi.Router) {
			r.With(mutationRateLimit).Post("/", readingHandler.CreateReading)
			r.With(standardRateLimit).Get("/", readingHandler.ListReadings)
			r.With(standardRateLimit).Get("/series", readingHandler.Series)
			r.With(standardRateLimit).Get("/trends/{parameter}", readingHandler.Trend)
			r.With(mutationRateLimit).Get("/export", readingHandler.Export)
			r.Route("/{readingId}", func(r chi.Router) {
				r.With(standardRateLimit).Get("/", readingHandler.GetReading)
				r.With(mutationRateLimit).Delete("/", readingHandler.DeleteReading)
			})
		})

		// Admin endpoints - for internal operations
		r.Route("/admin", func(r chi.Router) {
			r.Use(standardRateLimit)

			// Feature flags management
			r.Route("/flags", func(r chi.Router) {
				r.Get("/", featureFlagsHandler.ListFeatureFlags)
				r.Put("/", featureFlagsHandler.UpsertFeatureFlags)
				r.Post("/invalidate", featureFlagsHandler.InvalidateCache)
			})
		})
	})

	return r
}
