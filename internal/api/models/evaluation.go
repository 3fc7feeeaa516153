package models

import (
	"github.com/deepbluepool/poolchem/internal/chemistry"
)

// EvaluationRequest is the body of POST /v1/evaluations.
type EvaluationRequest struct {
	PoolType      string                     `json:"pool_type"`
	VolumeGallons float64                    `json:"volume_gallons"`
	Reading       chemistry.WaterTestReading `json:"reading"`
}

// EvaluationResponse wraps an engine result with the evaluated profile.
// The embedded result keeps the adjustment plan, recommendations, warnings
// and instructions at the top level of the JSON body.
type EvaluationResponse struct {
	*chemistry.EngineResult

	PoolType      chemistry.PoolType `json:"pool_type"`
	VolumeGallons float64            `json:"volume_gallons"`
	EvaluatedAt   Timestamp          `json:"evaluated_at"`
}

// RangesResponse is the body of GET /v1/ranges.
type RangesResponse struct {
	Ranges map[chemistry.Parameter]chemistry.IdealRange `json:"ideal_ranges"`
}
