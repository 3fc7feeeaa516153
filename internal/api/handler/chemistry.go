// Package handler provides HTTP handlers for the pool chemistry API.
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/deepbluepool/poolchem/internal/api/models"
	"github.com/deepbluepool/poolchem/internal/api/response"
	"github.com/deepbluepool/poolchem/internal/chemistry"
)

// ChemistryHandler handles evaluation and ideal range endpoints.
type ChemistryHandler struct {
	engine *chemistry.Engine
}

// NewChemistryHandler creates a new ChemistryHandler.
func NewChemistryHandler(engine *chemistry.Engine) *ChemistryHandler {
	return &ChemistryHandler{engine: engine}
}

// Evaluate handles POST /v1/evaluations - run a full chemical evaluation.
func (h *ChemistryHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var input models.EvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	// Normalize legacy pool type spellings; unrecognized values surface as
	// validation errors from the engine.
	poolType := chemistry.PoolType(input.PoolType)
	if parsed, err := chemistry.ParsePoolType(input.PoolType); err == nil {
		poolType = parsed
	}

	profile := chemistry.PoolProfile{
		Type:          poolType,
		VolumeGallons: input.VolumeGallons,
	}

	result, err := h.engine.Evaluate(r.Context(), profile, input.Reading)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.EvaluationResponse{
		EngineResult:  result,
		PoolType:      poolType,
		VolumeGallons: input.VolumeGallons,
		EvaluatedAt:   models.Timestamp(time.Now()),
	})
}

// Ranges handles GET /v1/ranges - the ideal band per parameter.
func (h *ChemistryHandler) Ranges(w http.ResponseWriter, r *http.Request) {
	cfg := h.engine.Config()

	ranges := make(map[chemistry.Parameter]chemistry.IdealRange, len(cfg.Ranges))
	for p, band := range cfg.Ranges {
		ranges[p] = band
	}

	response.JSON(w, r, http.StatusOK, models.RangesResponse{Ranges: ranges})
}
