package chemistry

import "math"

// Balance index interpretation thresholds. Fixed constants, not configurable
// per pool.
const (
	balanceCorrosiveBelow    = -0.5
	balanceScaleFormingAbove = 0.5
)

// BalanceIndex computes the saturation index
//
//	pH - 7.5 + temperatureFactor + calciumFactor - alkalinityFactor
//
// rounded to two decimals. Each factor is a step function over closed bands;
// values beyond the outermost band saturate at that band's factor, so the
// function is total over any finite input.
func BalanceIndex(ph, alkalinity, calcium, temperatureF float64) float64 {
	idx := ph - 7.5 + temperatureFactor(temperatureF) + calciumFactor(calcium) - alkalinityFactor(alkalinity)
	return round2(idx)
}

// BalanceStatusFor interprets an index value: below -0.5 corrosive, above
// +0.5 scale-forming, otherwise balanced.
func BalanceStatusFor(index float64) BalanceStatus {
	switch {
	case index < balanceCorrosiveBelow:
		return BalanceCorrosive
	case index > balanceScaleFormingAbove:
		return BalanceScaleForming
	default:
		return BalanceBalanced
	}
}

func temperatureFactor(f float64) float64 {
	switch {
	case f <= 32:
		return 0.0
	case f <= 37:
		return 0.1
	case f <= 46:
		return 0.2
	case f <= 53:
		return 0.3
	case f <= 60:
		return 0.4
	case f <= 66:
		return 0.5
	case f <= 76:
		return 0.6
	case f <= 84:
		return 0.7
	case f <= 94:
		return 0.8
	case f <= 105:
		return 0.9
	default:
		return 1.0
	}
}

func calciumFactor(ppm float64) float64 {
	switch {
	case ppm <= 25:
		return 0.0
	case ppm <= 50:
		return 0.3
	case ppm <= 75:
		return 0.5
	case ppm <= 100:
		return 0.6
	case ppm <= 150:
		return 0.7
	case ppm <= 200:
		return 0.8
	case ppm <= 300:
		return 0.9
	case ppm <= 400:
		return 1.0
	case ppm <= 800:
		return 1.1
	default:
		return 1.2
	}
}

func alkalinityFactor(ppm float64) float64 {
	switch {
	case ppm <= 25:
		return 0.7
	case ppm <= 50:
		return 1.4
	case ppm <= 75:
		return 1.7
	case ppm <= 100:
		return 1.9
	case ppm <= 150:
		return 2.0
	case ppm <= 200:
		return 2.2
	case ppm <= 300:
		return 2.5
	default:
		return 2.7
	}
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
