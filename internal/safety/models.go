// Package safety maintains chemical safety data sheets for pool chemicals:
// hazard ratings, handling precautions, storage and emergency guidance, and a
// pairwise compatibility matrix. The balancing engine consults it for
// precaution text and the API exposes it for reference lookups.
package safety

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrChemicalNotFound indicates the chemical id has no data sheet.
	ErrChemicalNotFound = errors.New("chemical not found")

	// ErrInvalidChemical indicates a data sheet missing required fields.
	ErrInvalidChemical = errors.New("invalid chemical data")

	// ErrProviderUnavailable indicates the remote data sheet service failed
	// and no fallback data exists.
	ErrProviderUnavailable = errors.New("safety data provider unavailable")

	// ErrReadOnly indicates mutations are suspended by the read-only flag.
	ErrReadOnly = errors.New("safety database is read-only")
)

// Hazard rating bounds on the 1 (minimal) to 4 (severe) scale.
const (
	HazardRatingMin = 1
	HazardRatingMax = 4
)

// Chemical is one safety data sheet.
type Chemical struct {
	// ID is the lowercase identifier dosage rules reference,
	// e.g. "sodium_bicarbonate".
	ID string `json:"id"`

	// Name is the product name shown to users.
	Name string `json:"name"`

	// Formula is the chemical formula, e.g. "NaHCO₃".
	Formula string `json:"chemical_formula,omitempty"`

	// HazardRating grades handling risk from 1 (minimal) to 4 (severe).
	HazardRating int `json:"hazard_rating"`

	// Precautions are the handling rules, most important first.
	Precautions []string `json:"safety_precautions"`

	// Storage describes how to store the chemical.
	Storage string `json:"storage_guidelines,omitempty"`

	// Emergency describes first response to exposure or fire.
	Emergency string `json:"emergency_procedures,omitempty"`
}

// Validate checks the required data sheet fields.
func (c *Chemical) Validate() error {
	var missing []string
	if strings.TrimSpace(c.ID) == "" {
		missing = append(missing, "id")
	}
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "name")
	}
	if len(c.Precautions) == 0 {
		missing = append(missing, "safety_precautions")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidChemical, strings.Join(missing, ", "))
	}
	if c.HazardRating < HazardRatingMin || c.HazardRating > HazardRatingMax {
		return fmt.Errorf("%w: hazard_rating must be between %d and %d",
			ErrInvalidChemical, HazardRatingMin, HazardRatingMax)
	}
	return nil
}

// normalizeID lowercases a chemical identifier; lookups and storage are
// case-insensitive.
func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
