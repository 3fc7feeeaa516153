package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deepbluepool/poolchem/internal/api/models"
	"github.com/deepbluepool/poolchem/internal/api/response"
	"github.com/deepbluepool/poolchem/internal/safety"
)

// SafetyHandler handles chemical safety data sheet endpoints.
type SafetyHandler struct {
	service *safety.Service
}

// NewSafetyHandler creates a new SafetyHandler.
func NewSafetyHandler(service *safety.Service) *SafetyHandler {
	return &SafetyHandler{service: service}
}

// ListChemicals handles GET /v1/safety/chemicals - list all chemicals.
func (h *SafetyHandler) ListChemicals(w http.ResponseWriter, r *http.Request) {
	chemicals := h.service.ListChemicals()
	response.JSON(w, r, http.StatusOK, models.ChemicalList{
		Items: chemicals,
		Total: len(chemicals),
	})
}

// GetChemical handles GET /v1/safety/chemicals/{chemicalId} - one data sheet.
func (h *SafetyHandler) GetChemical(w http.ResponseWriter, r *http.Request) {
	chemicalID := chi.URLParam(r, "chemicalId")
	if chemicalID == "" {
		response.BadRequest(w, r, "chemicalId is required", nil)
		return
	}

	chemical, err := h.service.GetChemical(r.Context(), chemicalID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, chemical)
}

// UpsertChemical handles PUT /v1/safety/chemicals/{chemicalId} - create or
// replace a data sheet. The path ID wins over any ID in the body.
func (h *SafetyHandler) UpsertChemical(w http.ResponseWriter, r *http.Request) {
	chemicalID := chi.URLParam(r, "chemicalId")
	if chemicalID == "" {
		response.BadRequest(w, r, "chemicalId is required", nil)
		return
	}

	var input safety.Chemical
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	input.ID = chemicalID

	if err := h.service.UpsertChemical(r.Context(), input); err != nil {
		writeError(w, r, err)
		return
	}

	chemical, err := h.service.GetChemical(r.Context(), chemicalID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, chemical)
}

// DeleteChemical handles DELETE /v1/safety/chemicals/{chemicalId}.
func (h *SafetyHandler) DeleteChemical(w http.ResponseWriter, r *http.Request) {
	chemicalID := chi.URLParam(r, "chemicalId")
	if chemicalID == "" {
		response.BadRequest(w, r, "chemicalId is required", nil)
		return
	}

	if err := h.service.DeleteChemical(r.Context(), chemicalID); err != nil {
		writeError(w, r, err)
		return
	}

	response.NoContent(w, r)
}

// CheckCompatibility handles GET /v1/safety/compatibility?a=&b= - whether two
// chemicals may be stored or dosed together. Unknown chemicals read as
// incompatible.
func (h *SafetyHandler) CheckCompatibility(w http.ResponseWriter, r *http.Request) {
	a := r.URL.Query().Get("a")
	b := r.URL.Query().Get("b")
	if a == "" || b == "" {
		response.BadRequest(w, r, "query parameters a and b are required", nil)
		return
	}

	response.JSON(w, r, http.StatusOK, models.CompatibilityResult{
		ChemicalA:  a,
		ChemicalB:  b,
		Compatible: h.service.CheckCompatibility(a, b),
	})
}

// SetCompatibility handles PUT /v1/safety/compatibility - record whether two
// chemicals are compatible.
func (h *SafetyHandler) SetCompatibility(w http.ResponseWriter, r *http.Request) {
	var input models.CompatibilityUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if input.ChemicalA == "" || input.ChemicalB == "" {
		response.BadRequest(w, r, "chemical_a and chemical_b are required", nil)
		return
	}

	if err := h.service.SetCompatibility(r.Context(), input.ChemicalA, input.ChemicalB, input.Compatible); err != nil {
		writeError(w, r, err)
		return
	}

	response.NoContent(w, r)
}
