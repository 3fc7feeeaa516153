package chemistry

// Danger thresholds, wider than the ideal bands. A breach emits one fixed
// warning string. Checked in declaration order.
const (
	dangerPHLow          = 6.8
	dangerPHHigh         = 8.0
	dangerChlorineLow    = 0.5
	dangerChlorineHigh   = 5.0
	dangerAlkalinityLow  = 60.0
	dangerAlkalinityHigh = 180.0
	dangerCalciumLow     = 150.0
	dangerCalciumHigh    = 500.0
	dangerCyanuricHigh   = 100.0
	dangerBalanceLow     = -1.0
	dangerBalanceHigh    = 1.0

	// Large-dose thresholds are absolute ounces, independent of pool volume.
	largeDosePHDecreaser = 4.0
	largeDoseChlorine    = 5.0
)

// buildWarnings flags extreme readings and dosage-plan interaction hazards.
// Emission order is check order; the checks are independent, so no
// deduplication is needed.
func buildWarnings(reading WaterTestReading, balanceIndex float64, plan AdjustmentPlan) []string {
	var warnings []string

	if reading.PH < dangerPHLow {
		warnings = append(warnings, "WARNING: Very low pH can cause eye and skin irritation, corrosion of pool equipment, and damage to pool surfaces.")
	} else if reading.PH > dangerPHHigh {
		warnings = append(warnings, "WARNING: Very high pH can cause cloudy water, reduced chlorine effectiveness, and scale formation.")
	}

	if reading.FreeChlorine < dangerChlorineLow {
		warnings = append(warnings, "WARNING: Very low chlorine levels can lead to algae growth and unsafe swimming conditions.")
	} else if reading.FreeChlorine > dangerChlorineHigh {
		warnings = append(warnings, "WARNING: Very high chlorine levels can cause eye and skin irritation, bleaching of swimwear, and damage to pool equipment.")
	}

	if reading.TotalAlkalinity < dangerAlkalinityLow {
		warnings = append(warnings, "WARNING: Very low alkalinity can cause pH bounce, corrosion, and staining.")
	} else if reading.TotalAlkalinity > dangerAlkalinityHigh {
		warnings = append(warnings, "WARNING: Very high alkalinity can cause cloudy water, scale formation, and difficulty adjusting pH.")
	}

	if reading.CalciumHardness < dangerCalciumLow {
		warnings = append(warnings, "WARNING: Very low calcium hardness can cause etching of plaster and corrosion of metal components.")
	} else if reading.CalciumHardness > dangerCalciumHigh {
		warnings = append(warnings, "WARNING: Very high calcium hardness can cause scale formation, cloudy water, and clogged filters.")
	}

	if reading.EffectiveCyanuricAcid() > dangerCyanuricHigh {
		warnings = append(warnings, "WARNING: Very high cyanuric acid levels can reduce chlorine effectiveness and may require partial or complete water replacement.")
	}

	if balanceIndex < dangerBalanceLow {
		warnings = append(warnings, "WARNING: Highly corrosive water can damage pool surfaces and equipment. Address immediately.")
	} else if balanceIndex > dangerBalanceHigh {
		warnings = append(warnings, "WARNING: Highly scale-forming water can cause deposits and damage to equipment. Address immediately.")
	}

	if plan.Has(TreatmentPHIncreaser) && plan.Has(TreatmentAlkalinityIncreaser) {
		warnings = append(warnings, "NOTE: Both pH increaser and alkalinity increaser are recommended. Add alkalinity increaser first, then wait 24 hours before adding pH increaser.")
	}

	if dose, ok := plan[TreatmentPHDecreaser]; ok && dose > largeDosePHDecreaser {
		warnings = append(warnings, "WARNING: Large amount of pH decreaser recommended. Add in multiple smaller doses over several days to avoid over-correction.")
	}

	if dose, ok := plan[TreatmentChlorine]; ok && dose > largeDoseChlorine {
		warnings = append(warnings, "WARNING: Large amount of chlorine recommended. Add in multiple smaller doses and retest frequently to avoid over-chlorination.")
	}

	return warnings
}
