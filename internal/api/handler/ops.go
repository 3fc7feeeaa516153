package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/deepbluepool/poolchem/internal/api/models"
	"github.com/deepbluepool/poolchem/internal/api/response"
	"github.com/deepbluepool/poolchem/internal/featureflags"
	"github.com/deepbluepool/poolchem/internal/history"
	"github.com/deepbluepool/poolchem/internal/safety"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	safety    *safety.Service
	history   *history.Service
	flags     *featureflags.Service
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, safetyService *safety.Service, historyService *history.Service, flagService *featureflags.Service) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		safety:    safetyService,
		history:   historyService,
		flags:     flagService,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatusOK
	code := http.StatusOK

	// The safety store seeds at startup; an empty one means it never loaded
	if h.safety != nil && h.safety.Store().Count() == 0 {
		status = models.HealthStatusFail
		code = http.StatusServiceUnavailable
	}

	health := models.Health{
		Status: status,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, code, health)
}

// SystemStatus handles GET /v1/ops/status - subsystem and provider status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())
	ctx := r.Context()

	status := models.SystemStatus{
		Status: models.HealthStatusOK,
		Time:   now,
	}

	if h.safety != nil {
		storeStatus := models.HealthStatusOK
		if h.safety.Store().Count() == 0 {
			storeStatus = models.HealthStatusFail
			status.Status = models.HealthStatusDegraded
		}
		status.Subsystems = append(status.Subsystems, models.SubsystemStatus{
			Name:   "safety-store",
			Status: storeStatus,
		})

		stats := h.safety.CacheStats()
		if stats.Provider != "local" {
			status.Providers = append(status.Providers, models.ProviderStatus{
				Provider: stats.Provider,
				Status:   models.HealthStatusOK,
			})
		}
	}

	if h.history != nil {
		historyStatus := models.HealthStatusOK
		if _, err := h.history.Count(ctx); err != nil {
			historyStatus = models.HealthStatusFail
			status.Status = models.HealthStatusDegraded
		}
		status.Subsystems = append(status.Subsystems, models.SubsystemStatus{
			Name:   "reading-history",
			Status: historyStatus,
		})
	}

	if h.flags != nil {
		status.Subsystems = append(status.Subsystems, models.SubsystemStatus{
			Name:   "feature-flags",
			Status: models.HealthStatusOK,
		})

		// Every enabled operational toggle degrades some behavior
		for key, flag := range h.flags.GetAllFlags(ctx) {
			if flag.BoolValue(false) {
				status.ActiveDegradationFlags = append(status.ActiveDegradationFlags, key)
			}
		}
		sort.Strings(status.ActiveDegradationFlags)
	}

	response.JSON(w, r, http.StatusOK, status)
}
