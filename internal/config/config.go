// Package config loads service configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the pool chemistry service.
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Safety    SafetyConfig
	History   HistoryConfig
	RateLimit RateLimitConfig
	Telemetry TelemetryConfig
}

// AppConfig holds service identity settings.
type AppConfig struct {
	Env      string
	LogLevel string
	Version  string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RequireTLS      bool
}

// SafetyConfig holds chemical data sheet lookup configuration. An empty
// DatasheetURL leaves the service on its built-in reference data.
type SafetyConfig struct {
	DatasheetURL    string
	DatasheetAPIKey string
	CacheTTL        time.Duration
	StaleIfErrorTTL time.Duration
	RefreshInterval time.Duration
}

// HistoryConfig holds reading history limits.
type HistoryConfig struct {
	WindowDays  int
	ChartLimit  int
	ExportLimit int
}

// RateLimitConfig holds per-client request budgets, in requests per minute.
type RateLimitConfig struct {
	EvaluatePerMinute int
	MutationPerMinute int
	DefaultPerMinute  int
}

// TelemetryConfig holds OpenTelemetry export configuration.
type TelemetryConfig struct {
	Enabled        bool
	OTLPEndpoint   string
	MetricInterval time.Duration
}

// Load loads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		App: AppConfig{
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
			Version:  getEnv("APP_VERSION", "dev"),
		},
		Server: ServerConfig{
			Port:            getEnv("APP_PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			RequireTLS:      getBoolEnv("REQUIRE_TLS", false),
		},
		Safety: SafetyConfig{
			DatasheetURL:    getEnv("SAFETY_DATASHEET_URL", ""),
			DatasheetAPIKey: getEnv("SAFETY_DATASHEET_API_KEY", ""),
			CacheTTL:        getDurationEnv("SAFETY_CACHE_TTL", 1*time.Hour),
			StaleIfErrorTTL: getDurationEnv("SAFETY_STALE_TTL", 6*time.Hour),
			RefreshInterval: getDurationEnv("SAFETY_REFRESH_INTERVAL", 30*time.Minute),
		},
		History: HistoryConfig{
			WindowDays:  getIntEnv("HISTORY_WINDOW_DAYS", 30),
			ChartLimit:  getIntEnv("HISTORY_CHART_LIMIT", 100),
			ExportLimit: getIntEnv("HISTORY_EXPORT_LIMIT", 1000),
		},
		RateLimit: RateLimitConfig{
			EvaluatePerMinute: getIntEnv("RATE_LIMIT_EVALUATE", 30),
			MutationPerMinute: getIntEnv("RATE_LIMIT_MUTATION", 10),
			DefaultPerMinute:  getIntEnv("RATE_LIMIT_DEFAULT", 100),
		},
		Telemetry: TelemetryConfig{
			Enabled:        getBoolEnv("OTEL_ENABLED", false),
			OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			MetricInterval: getDurationEnv("OTEL_METRIC_INTERVAL", 15*time.Second),
		},
	}
}

// getEnv returns environment variable value or default if not set
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv returns integer environment variable value or default if not set
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getDurationEnv returns duration environment variable value or default if not set
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getBoolEnv returns boolean environment variable value or default if not set
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
