package models

import (
	"github.com/deepbluepool/poolchem/internal/safety"
)

// ChemicalList is the body of GET /v1/safety/chemicals.
type ChemicalList struct {
	Items []safety.Chemical `json:"items"`
	Total int               `json:"total"`
}

// CompatibilityResult is the body of GET /v1/safety/compatibility.
type CompatibilityResult struct {
	ChemicalA  string `json:"chemical_a"`
	ChemicalB  string `json:"chemical_b"`
	Compatible bool   `json:"compatible"`
}

// CompatibilityUpdateRequest is the body of PUT /v1/safety/compatibility.
type CompatibilityUpdateRequest struct {
	ChemicalA  string `json:"chemical_a"`
	ChemicalB  string `json:"chemical_b"`
	Compatible bool   `json:"compatible"`
}
