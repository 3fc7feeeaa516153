package chemistry

import (
	"fmt"
	"strconv"
)

// formatNum renders a value the way guidance sentences embed numbers:
// shortest decimal form, no trailing zeros, no exponent.
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBand(r IdealRange) string {
	return formatNum(r.Min) + "-" + formatNum(r.Max)
}

// buildRecommendations produces exactly one sentence per tracked parameter,
// embedding the measured value and the ideal band bounds. It depends only on
// the range table and the reading, never on the dosage plan.
func (e *Engine) buildRecommendations(reading WaterTestReading, balanceIndex float64) (Recommendations, error) {
	var rec Recommendations

	phRange, err := e.cfg.IdealRangeFor(ParamPH)
	if err != nil {
		return rec, err
	}
	switch {
	case reading.PH < phRange.Min:
		rec.PH = fmt.Sprintf("pH is too low (%s). Add pH increaser to raise pH to %s.",
			formatNum(reading.PH), formatBand(phRange))
	case reading.PH > phRange.Max:
		rec.PH = fmt.Sprintf("pH is too high (%s). Add pH decreaser to lower pH to %s.",
			formatNum(reading.PH), formatBand(phRange))
	default:
		rec.PH = fmt.Sprintf("pH is in the ideal range (%s).", formatNum(reading.PH))
	}

	clRange, err := e.cfg.IdealRangeFor(ParamFreeChlorine)
	if err != nil {
		return rec, err
	}
	switch {
	case reading.FreeChlorine < clRange.Min:
		rec.Chlorine = fmt.Sprintf("Chlorine is too low (%s ppm). Add chlorine to raise level to %s ppm.",
			formatNum(reading.FreeChlorine), formatBand(clRange))
	case reading.FreeChlorine > clRange.Max:
		rec.Chlorine = fmt.Sprintf("Chlorine is too high (%s ppm). Stop adding chlorine and wait for levels to decrease to %s ppm.",
			formatNum(reading.FreeChlorine), formatBand(clRange))
	default:
		rec.Chlorine = fmt.Sprintf("Chlorine is in the ideal range (%s ppm).", formatNum(reading.FreeChlorine))
	}

	alkRange, err := e.cfg.IdealRangeFor(ParamAlkalinity)
	if err != nil {
		return rec, err
	}
	switch {
	case reading.TotalAlkalinity < alkRange.Min:
		rec.Alkalinity = fmt.Sprintf("Alkalinity is too low (%s ppm). Add alkalinity increaser to raise level to %s ppm.",
			formatNum(reading.TotalAlkalinity), formatBand(alkRange))
	case reading.TotalAlkalinity > alkRange.Max:
		rec.Alkalinity = fmt.Sprintf("Alkalinity is too high (%s ppm). Add pH decreaser to lower alkalinity to %s ppm.",
			formatNum(reading.TotalAlkalinity), formatBand(alkRange))
	default:
		rec.Alkalinity = fmt.Sprintf("Alkalinity is in the ideal range (%s ppm).", formatNum(reading.TotalAlkalinity))
	}

	calRange, err := e.cfg.IdealRangeFor(ParamCalciumHardness)
	if err != nil {
		return rec, err
	}
	switch {
	case reading.CalciumHardness < calRange.Min:
		rec.Calcium = fmt.Sprintf("Calcium hardness is too low (%s ppm). Add calcium hardness increaser to raise level to %s ppm.",
			formatNum(reading.CalciumHardness), formatBand(calRange))
	case reading.CalciumHardness > calRange.Max:
		rec.Calcium = fmt.Sprintf("Calcium hardness is too high (%s ppm). Dilute with fresh water to lower calcium to %s ppm.",
			formatNum(reading.CalciumHardness), formatBand(calRange))
	default:
		rec.Calcium = fmt.Sprintf("Calcium hardness is in the ideal range (%s ppm).", formatNum(reading.CalciumHardness))
	}

	cyaRange, err := e.cfg.IdealRangeFor(ParamCyanuricAcid)
	if err != nil {
		return rec, err
	}
	cya := reading.EffectiveCyanuricAcid()
	switch {
	case cya < cyaRange.Min:
		rec.CyanuricAcid = fmt.Sprintf("Cyanuric acid is too low (%s ppm). Add cyanuric acid to raise level to %s ppm.",
			formatNum(cya), formatBand(cyaRange))
	case cya > cyaRange.Max:
		rec.CyanuricAcid = fmt.Sprintf("Cyanuric acid is too high (%s ppm). Dilute with fresh water to lower cyanuric acid to %s ppm.",
			formatNum(cya), formatBand(cyaRange))
	default:
		rec.CyanuricAcid = fmt.Sprintf("Cyanuric acid is in the ideal range (%s ppm).", formatNum(cya))
	}

	tempRange, err := e.cfg.IdealRangeFor(ParamTemperature)
	if err != nil {
		return rec, err
	}
	switch {
	case reading.TemperatureF < tempRange.Min:
		rec.Temperature = fmt.Sprintf("Water temperature is low (%s°F). Consider heating the pool for comfort.",
			formatNum(reading.TemperatureF))
	case reading.TemperatureF > tempRange.Max:
		rec.Temperature = fmt.Sprintf("Water temperature is high (%s°F). Monitor chlorine levels more frequently as higher temperatures increase chlorine consumption.",
			formatNum(reading.TemperatureF))
	default:
		rec.Temperature = fmt.Sprintf("Water temperature is in the ideal range (%s°F).",
			formatNum(reading.TemperatureF))
	}

	switch BalanceStatusFor(balanceIndex) {
	case BalanceCorrosive:
		rec.WaterBalance = fmt.Sprintf("Water is corrosive (LSI: %s). Adjust pH and alkalinity to balance water.",
			formatNum(balanceIndex))
	case BalanceScaleForming:
		rec.WaterBalance = fmt.Sprintf("Water is scale-forming (LSI: %s). Adjust pH and alkalinity to balance water.",
			formatNum(balanceIndex))
	default:
		rec.WaterBalance = fmt.Sprintf("Water is balanced (LSI: %s).", formatNum(balanceIndex))
	}

	return rec, nil
}
