// Package chemistry implements the pool water balancing engine: saturation
// index, capped dosage planning, recommendations, warnings and the ordered,
// safety-annotated treatment sequence for a single water test reading.
package chemistry

import (
	"errors"
	"fmt"
	"strings"
)

// Engine errors.
var (
	// ErrInvalidProfile indicates a pool profile with a non-positive volume
	// or an unrecognized pool type.
	ErrInvalidProfile = errors.New("invalid pool profile")

	// ErrInvalidReading indicates a water test reading carrying negative values.
	ErrInvalidReading = errors.New("invalid water test reading")

	// ErrUnknownParameter indicates a range lookup for a parameter the
	// configuration does not define.
	ErrUnknownParameter = errors.New("unknown chemistry parameter")
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError reports invalid caller input with per-field detail.
// It unwraps to ErrInvalidProfile or ErrInvalidReading so callers can use
// errors.Is against the sentinels.
type ValidationError struct {
	Kind   error
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return e.Kind.Error()
	}
	fields := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		fields = append(fields, fe.Field)
	}
	return e.Kind.Error() + ": " + strings.Join(fields, ", ")
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// PoolType identifies the pool construction material.
type PoolType string

// Recognized pool types.
const (
	PoolTypeConcrete   PoolType = "concrete_gunite"
	PoolTypeVinyl      PoolType = "vinyl"
	PoolTypeFiberglass PoolType = "fiberglass"
	PoolTypeOther      PoolType = "other"
)

// Valid reports whether t is one of the recognized pool types.
func (t PoolType) Valid() bool {
	switch t {
	case PoolTypeConcrete, PoolTypeVinyl, PoolTypeFiberglass, PoolTypeOther:
		return true
	}
	return false
}

// ParsePoolType normalizes a pool type label. It accepts the canonical
// constants as well as the legacy display spellings ("Concrete/Gunite").
func ParsePoolType(s string) (PoolType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(PoolTypeConcrete), "concrete/gunite", "concrete", "gunite":
		return PoolTypeConcrete, nil
	case string(PoolTypeVinyl):
		return PoolTypeVinyl, nil
	case string(PoolTypeFiberglass):
		return PoolTypeFiberglass, nil
	case string(PoolTypeOther):
		return PoolTypeOther, nil
	}
	return "", fmt.Errorf("%w: unrecognized pool type %q", ErrInvalidProfile, s)
}

// PoolProfile describes the pool a reading was taken from. Immutable for the
// duration of an evaluation call.
type PoolProfile struct {
	Type          PoolType `json:"pool_type"`
	VolumeGallons float64  `json:"volume_gallons"`
}

// Validate rejects profiles the engine must not compute against.
func (p PoolProfile) Validate() error {
	var fields []FieldError
	if !p.Type.Valid() {
		fields = append(fields, FieldError{
			Field:   "pool_type",
			Code:    "invalid_enum",
			Message: fmt.Sprintf("unrecognized pool type %q", string(p.Type)),
		})
	}
	if p.VolumeGallons <= 0 {
		fields = append(fields, FieldError{
			Field:   "volume_gallons",
			Code:    "out_of_range",
			Message: "volume_gallons must be positive",
		})
	}
	if len(fields) > 0 {
		return &ValidationError{Kind: ErrInvalidProfile, Errors: fields}
	}
	return nil
}

// DefaultCyanuricAcid is assumed when a reading omits a stabilizer measurement.
const DefaultCyanuricAcid = 30.0

// WaterTestReading holds measured water chemistry values. CyanuricAcid may be
// nil, in which case the engine assumes DefaultCyanuricAcid ppm; an explicit
// zero is treated as a real measurement. TotalChlorine, Bromine and Salt pass
// through unused by the core formulas.
type WaterTestReading struct {
	PH              float64  `json:"ph"`
	FreeChlorine    float64  `json:"free_chlorine"`
	TotalAlkalinity float64  `json:"alkalinity"`
	CalciumHardness float64  `json:"calcium_hardness"`
	CyanuricAcid    *float64 `json:"cyanuric_acid,omitempty"`
	TemperatureF    float64  `json:"temperature"`
	TotalChlorine   *float64 `json:"total_chlorine,omitempty"`
	Bromine         *float64 `json:"bromine,omitempty"`
	Salt            *float64 `json:"salt,omitempty"`
}

// EffectiveCyanuricAcid returns the measured stabilizer level, or the default
// when the reading omits it.
func (r WaterTestReading) EffectiveCyanuricAcid() float64 {
	if r.CyanuricAcid == nil {
		return DefaultCyanuricAcid
	}
	return *r.CyanuricAcid
}

// Validate rejects readings with negative values, naming each offending field.
func (r WaterTestReading) Validate() error {
	var fields []FieldError
	check := func(name string, v float64) {
		if v < 0 {
			fields = append(fields, FieldError{
				Field:   name,
				Code:    "out_of_range",
				Message: name + " must be non-negative",
			})
		}
	}
	check("ph", r.PH)
	check("free_chlorine", r.FreeChlorine)
	check("alkalinity", r.TotalAlkalinity)
	check("calcium_hardness", r.CalciumHardness)
	if r.CyanuricAcid != nil {
		check("cyanuric_acid", *r.CyanuricAcid)
	}
	check("temperature", r.TemperatureF)
	if r.TotalChlorine != nil {
		check("total_chlorine", *r.TotalChlorine)
	}
	if r.Bromine != nil {
		check("bromine", *r.Bromine)
	}
	if r.Salt != nil {
		check("salt", *r.Salt)
	}
	if len(fields) > 0 {
		return &ValidationError{Kind: ErrInvalidReading, Errors: fields}
	}
	return nil
}

// Treatment identifies one dosage rule and the chemical addition it produces.
type Treatment string

// Treatments the dosage calculator can emit. The sequencer owns the
// application order; these constants are listed in that order.
const (
	TreatmentAlkalinityIncreaser Treatment = "alkalinity_increaser"
	TreatmentPHDecreaser         Treatment = "ph_decreaser"
	TreatmentPHIncreaser         Treatment = "ph_increaser"
	TreatmentCalciumIncreaser    Treatment = "calcium_increaser"
	TreatmentCyanuricAcid        Treatment = "cyanuric_acid"
	TreatmentChlorine            Treatment = "chlorine"
)

// AdjustmentPlan maps each required treatment to a dose in ounces. Zero-dose
// treatments are omitted; every present dose is positive and capped by its
// rule's scaled maximum.
type AdjustmentPlan map[Treatment]float64

// Has reports whether the plan contains a dose for t.
func (p AdjustmentPlan) Has(t Treatment) bool {
	_, ok := p[t]
	return ok
}

// InstructionStep is one numbered entry in the application sequence.
type InstructionStep struct {
	Number       int      `json:"step"`
	Chemical     string   `json:"chemical"`
	Amount       string   `json:"amount"`
	Instructions []string `json:"instructions"`
}

// Recommendations holds exactly one guidance sentence per tracked parameter.
type Recommendations struct {
	PH           string `json:"pH"`
	Chlorine     string `json:"chlorine"`
	Alkalinity   string `json:"alkalinity"`
	Calcium      string `json:"calcium"`
	CyanuricAcid string `json:"cyanuric_acid"`
	Temperature  string `json:"temperature"`
	WaterBalance string `json:"water_balance"`
}

// BalanceStatus interprets the balance index.
type BalanceStatus string

// Balance index interpretations.
const (
	BalanceCorrosive    BalanceStatus = "corrosive"
	BalanceBalanced     BalanceStatus = "balanced"
	BalanceScaleForming BalanceStatus = "scale_forming"
)

// QualityStatus buckets the overall water quality score.
type QualityStatus string

// Quality score buckets.
const (
	QualityPoor QualityStatus = "poor"
	QualityFair QualityStatus = "fair"
	QualityGood QualityStatus = "good"
)

// EngineResult aggregates everything derived from one reading. It has no
// identity beyond the call that produced it and is never partially populated:
// evaluation either returns a complete result or an error.
type EngineResult struct {
	Plan            AdjustmentPlan         `json:"adjustments"`
	BalanceIndex    float64                `json:"water_balance"`
	BalanceStatus   BalanceStatus          `json:"balance_status"`
	Recommendations Recommendations        `json:"recommendations"`
	Warnings        []string               `json:"warnings"`
	Precautions     map[Treatment][]string `json:"precautions"`
	Steps           []InstructionStep      `json:"instructions"`
	QualityScore    float64                `json:"quality_score"`
	QualityStatus   QualityStatus          `json:"quality_status"`
}
