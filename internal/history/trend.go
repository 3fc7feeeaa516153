package history

import (
	"context"
	"math"

	"github.com/deepbluepool/poolchem/internal/chemistry"
)

// TrendDirection classifies the movement of a parameter over a window.
type TrendDirection string

// Trend directions. A window with fewer than two usable readings cannot be
// classified.
const (
	TrendIncreasing       TrendDirection = "increasing"
	TrendDecreasing       TrendDirection = "decreasing"
	TrendStable           TrendDirection = "stable"
	TrendInsufficientData TrendDirection = "insufficient_data"
)

// Percent change beyond which a parameter counts as moving.
const trendChangeThresholdPct = 5.0

// TrendAnalysis is the result of analyzing one parameter's history.
type TrendAnalysis struct {
	Parameter     chemistry.Parameter
	Trend         TrendDirection
	PercentChange float64

	// Volatility is the population standard deviation over the window.
	Volatility float64

	CurrentValue float64
	Samples      int

	// Message is set when the window holds too little data to classify.
	Message string

	Recommendation string
}

// Trend analyzes one parameter's movement over the window: direction from the
// percent change between the oldest and newest usable reading, volatility
// from the spread, and a recommendation from where the current value sits
// against the ideal band. Returns ErrTrendDisabled while the trend flag is
// enabled.
func (s *Service) Trend(ctx context.Context, parameter chemistry.Parameter, days int, customer string) (*TrendAnalysis, error) {
	if s.isTrendDisabled(ctx) {
		return nil, ErrTrendDisabled
	}

	band, err := s.chem.IdealRangeFor(parameter)
	if err != nil {
		return nil, err
	}

	if days <= 0 {
		days = DefaultWindowDays
	}

	readings, err := s.repo.List(ctx, ListOptions{Customer: customer, Days: days})
	if err != nil {
		return nil, err
	}
	chronological(readings)

	values := make([]float64, 0, len(readings))
	for _, r := range readings {
		if v, ok := parameterValue(r.Chemistry, parameter); ok {
			values = append(values, v)
		}
	}

	if len(values) < 2 {
		return &TrendAnalysis{
			Parameter:      parameter,
			Trend:          TrendInsufficientData,
			Samples:        len(values),
			Message:        "Insufficient data for trend analysis",
			Recommendation: "Continue regular testing to build trend data",
		}, nil
	}

	first, last := values[0], values[len(values)-1]

	var percentChange float64
	if first > 0 {
		percentChange = (last - first) / first * 100
	}

	var direction TrendDirection
	switch {
	case percentChange > trendChangeThresholdPct:
		direction = TrendIncreasing
	case percentChange < -trendChangeThresholdPct:
		direction = TrendDecreasing
	default:
		direction = TrendStable
	}

	volatility := populationStddev(values)

	analysis := &TrendAnalysis{
		Parameter:      parameter,
		Trend:          direction,
		PercentChange:  percentChange,
		Volatility:     volatility,
		CurrentValue:   last,
		Samples:        len(values),
		Recommendation: trendRecommendation(parameter, last, direction, volatility, band),
	}

	s.logger.Debug().
		Str("parameter", string(parameter)).
		Int("samples", len(values)).
		Str("trend", string(direction)).
		Msg("trend analysis computed")

	return analysis, nil
}

// trendRecommendation crosses the current value's position against the ideal
// band with the trend direction. Inside the band the concern shifts to
// volatility: swings wider than half the band width warrant more frequent
// testing.
func trendRecommendation(p chemistry.Parameter, current float64, direction TrendDirection, volatility float64, band chemistry.IdealRange) string {
	name := parameterDisplayName(p)

	switch {
	case current < band.Min:
		switch direction {
		case TrendDecreasing:
			return name + " is below ideal range and decreasing. Immediate adjustment recommended."
		case TrendStable:
			return name + " is stable but below ideal range. Adjustment recommended."
		default:
			return name + " is below ideal range but increasing. Monitor closely."
		}
	case current > band.Max:
		switch direction {
		case TrendIncreasing:
			return name + " is above ideal range and increasing. Immediate adjustment recommended."
		case TrendStable:
			return name + " is stable but above ideal range. Adjustment recommended."
		default:
			return name + " is above ideal range but decreasing. Monitor closely."
		}
	default:
		if volatility > (band.Max-band.Min)/2 {
			return name + " is within ideal range but showing high volatility. Check more frequently."
		}
		return name + " is within ideal range with stable trend. Maintain current regimen."
	}
}

// parameterValue extracts one parameter from a reading. Optional measurements
// count only when explicitly recorded.
func parameterValue(r chemistry.WaterTestReading, p chemistry.Parameter) (float64, bool) {
	switch p {
	case chemistry.ParamPH:
		return r.PH, true
	case chemistry.ParamFreeChlorine:
		return r.FreeChlorine, true
	case chemistry.ParamTotalChlorine:
		if r.TotalChlorine == nil {
			return 0, false
		}
		return *r.TotalChlorine, true
	case chemistry.ParamAlkalinity:
		return r.TotalAlkalinity, true
	case chemistry.ParamCalciumHardness:
		return r.CalciumHardness, true
	case chemistry.ParamCyanuricAcid:
		if r.CyanuricAcid == nil {
			return 0, false
		}
		return *r.CyanuricAcid, true
	case chemistry.ParamTemperature:
		return r.TemperatureF, true
	default:
		return 0, false
	}
}

func parameterDisplayName(p chemistry.Parameter) string {
	switch p {
	case chemistry.ParamPH:
		return "pH"
	case chemistry.ParamFreeChlorine:
		return "Free Chlorine"
	case chemistry.ParamTotalChlorine:
		return "Total Chlorine"
	case chemistry.ParamAlkalinity:
		return "Alkalinity"
	case chemistry.ParamCalciumHardness:
		return "Calcium Hardness"
	case chemistry.ParamCyanuricAcid:
		return "Cyanuric Acid"
	case chemistry.ParamTemperature:
		return "Temperature"
	default:
		return string(p)
	}
}

// populationStddev returns the population standard deviation; fewer than two
// values yield zero.
func populationStddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))

	return math.Sqrt(variance)
}
