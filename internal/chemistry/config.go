package chemistry

import "fmt"

// Parameter names a measured quantity tracked by the ideal-range table.
type Parameter string

// Parameters with ideal ranges.
const (
	ParamPH              Parameter = "pH"
	ParamFreeChlorine    Parameter = "free_chlorine"
	ParamTotalChlorine   Parameter = "total_chlorine"
	ParamAlkalinity      Parameter = "alkalinity"
	ParamCalciumHardness Parameter = "calcium_hardness"
	ParamCyanuricAcid    Parameter = "cyanuric_acid"
	ParamTemperature     Parameter = "temperature"
)

// IdealRange is the acceptance band for one parameter.
type IdealRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v falls inside the band, bounds inclusive.
func (r IdealRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// DosageRule converts a deviation from ideal into ounces of one chemical.
type DosageRule struct {
	// ChemicalID keys the safety collaborator's data sheet for this treatment.
	ChemicalID string `json:"chemical_id"`

	// RatePer10kGal is ounces per base unit of deviation per 10,000 gallons.
	// The base unit is 0.2 pH for the pH rules, 10 ppm for alkalinity,
	// calcium and stabilizer, and 1 ppm for chlorine.
	RatePer10kGal float64 `json:"rate"`

	// MaxDosePer10kGal caps a single treatment, per 10,000 gallons.
	MaxDosePer10kGal float64 `json:"max_dose"`
}

// Config is the engine's rule set: ideal ranges and dosage rules. Construct
// once (usually via DefaultConfig), hand it to NewEngine and treat it as
// immutable afterwards; the engine keeps its own copy, so distinct rule sets
// can coexist in one process.
type Config struct {
	Ranges map[Parameter]IdealRange
	Rules  map[Treatment]DosageRule
}

// DefaultConfig returns a fresh copy of the standard residential pool rule set.
func DefaultConfig() *Config {
	return &Config{
		Ranges: map[Parameter]IdealRange{
			ParamPH:              {Min: 7.2, Max: 7.8},
			ParamFreeChlorine:    {Min: 1.0, Max: 3.0},
			ParamTotalChlorine:   {Min: 1.0, Max: 3.0},
			ParamAlkalinity:      {Min: 80, Max: 120},
			ParamCalciumHardness: {Min: 200, Max: 400},
			ParamCyanuricAcid:    {Min: 30, Max: 50},
			ParamTemperature:     {Min: 75, Max: 85},
		},
		Rules: map[Treatment]DosageRule{
			TreatmentPHIncreaser:         {ChemicalID: "sodium_bicarbonate", RatePer10kGal: 1.5, MaxDosePer10kGal: 4.0},
			TreatmentPHDecreaser:         {ChemicalID: "muriatic_acid", RatePer10kGal: 1.0, MaxDosePer10kGal: 3.0},
			TreatmentAlkalinityIncreaser: {ChemicalID: "sodium_bicarbonate", RatePer10kGal: 1.5, MaxDosePer10kGal: 8.0},
			TreatmentCalciumIncreaser:    {ChemicalID: "calcium_chloride", RatePer10kGal: 1.25, MaxDosePer10kGal: 6.0},
			TreatmentChlorine:            {ChemicalID: "chlorine", RatePer10kGal: 1.0, MaxDosePer10kGal: 4.0},
			TreatmentCyanuricAcid:        {ChemicalID: "cyanuric_acid", RatePer10kGal: 1.3, MaxDosePer10kGal: 5.0},
		},
	}
}

// IdealRangeFor returns the acceptance band for a parameter. A miss is a
// configuration mismatch and always a hard failure, never a silent default.
func (c *Config) IdealRangeFor(p Parameter) (IdealRange, error) {
	r, ok := c.Ranges[p]
	if !ok {
		return IdealRange{}, fmt.Errorf("%w: %q", ErrUnknownParameter, string(p))
	}
	return r, nil
}

// RuleFor returns the dosage rule for a treatment.
func (c *Config) RuleFor(t Treatment) (DosageRule, bool) {
	r, ok := c.Rules[t]
	return r, ok
}

// clone deep-copies the config so an engine is isolated from later mutation
// of the caller's maps.
func (c *Config) clone() *Config {
	out := &Config{
		Ranges: make(map[Parameter]IdealRange, len(c.Ranges)),
		Rules:  make(map[Treatment]DosageRule, len(c.Rules)),
	}
	for k, v := range c.Ranges {
		out.Ranges[k] = v
	}
	for k, v := range c.Rules {
		out.Rules[k] = v
	}
	return out
}
