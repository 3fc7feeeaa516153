package chemistry

import "math"

// Quality score bands and deduction weights. The quality model tracks a
// sanitizer band of 2.0-4.0 ppm, wider than the dosing band.
var qualityBands = struct {
	ph       IdealRange
	chlorine IdealRange
	alk      IdealRange
}{
	ph:       IdealRange{Min: 7.2, Max: 7.8},
	chlorine: IdealRange{Min: 2.0, Max: 4.0},
	alk:      IdealRange{Min: 80, Max: 120},
}

// Quality status cutoffs.
const (
	qualityPoorBelow = 60.0
	qualityFairBelow = 80.0
)

// QualityScore rates overall water quality on a 0-100 scale from pH, free
// chlorine and alkalinity. The score starts at 100 and deducts per out-of-band
// distance: pH costs 20 points per unit from the nearer bound; low chlorine
// costs up to 25 and high chlorine up to 15 points proportional to the
// relative excursion; alkalinity costs up to 15 low and 10 high. The result
// is clamped to [0, 100] and rounded to one decimal.
func QualityScore(reading WaterTestReading) (float64, QualityStatus) {
	score := 100.0

	if !qualityBands.ph.Contains(reading.PH) {
		low := math.Abs(reading.PH - qualityBands.ph.Min)
		high := math.Abs(reading.PH - qualityBands.ph.Max)
		score -= 20 * math.Min(low, high)
	}

	if cl := reading.FreeChlorine; cl < qualityBands.chlorine.Min {
		score -= 25 * (qualityBands.chlorine.Min - cl) / qualityBands.chlorine.Min
	} else if cl > qualityBands.chlorine.Max {
		score -= 15 * (cl - qualityBands.chlorine.Max) / qualityBands.chlorine.Max
	}

	if alk := reading.TotalAlkalinity; alk < qualityBands.alk.Min {
		score -= 15 * (qualityBands.alk.Min - alk) / qualityBands.alk.Min
	} else if alk > qualityBands.alk.Max {
		score -= 10 * (alk - qualityBands.alk.Max) / qualityBands.alk.Max
	}

	score = math.Max(0, math.Min(100, score))
	score = math.Round(score*10) / 10

	switch {
	case score < qualityPoorBelow:
		return score, QualityPoor
	case score < qualityFairBelow:
		return score, QualityFair
	default:
		return score, QualityGood
	}
}
