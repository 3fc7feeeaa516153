package chemistry

// Base units of deviation for the dosage rule families.
const (
	phBaseUnit  = 0.2 // pH adjusters dose per 0.2 pH units
	ppmBaseUnit = 10  // alkalinity, calcium and stabilizer dose per 10 ppm
)

// computePlan converts deviations from the ideal bands into capped, rounded
// doses. pH routes to exactly one of its two rules; elevated chlorine,
// alkalinity, calcium and stabilizer produce no chemical here (those excesses
// are handled by recommendations alone).
func (e *Engine) computePlan(profile PoolProfile, reading WaterTestReading) (AdjustmentPlan, error) {
	plan := make(AdjustmentPlan)
	scale := profile.VolumeGallons / 10000

	phRange, err := e.cfg.IdealRangeFor(ParamPH)
	if err != nil {
		return nil, err
	}
	if reading.PH < phRange.Min {
		e.addDose(plan, TreatmentPHIncreaser, (phRange.Min-reading.PH)/phBaseUnit, scale)
	} else if reading.PH > phRange.Max {
		e.addDose(plan, TreatmentPHDecreaser, (reading.PH-phRange.Max)/phBaseUnit, scale)
	}

	alkRange, err := e.cfg.IdealRangeFor(ParamAlkalinity)
	if err != nil {
		return nil, err
	}
	if reading.TotalAlkalinity < alkRange.Min {
		e.addDose(plan, TreatmentAlkalinityIncreaser, (alkRange.Min-reading.TotalAlkalinity)/ppmBaseUnit, scale)
	}

	calRange, err := e.cfg.IdealRangeFor(ParamCalciumHardness)
	if err != nil {
		return nil, err
	}
	if reading.CalciumHardness < calRange.Min {
		e.addDose(plan, TreatmentCalciumIncreaser, (calRange.Min-reading.CalciumHardness)/ppmBaseUnit, scale)
	}

	clRange, err := e.cfg.IdealRangeFor(ParamFreeChlorine)
	if err != nil {
		return nil, err
	}
	if reading.FreeChlorine < clRange.Min {
		e.addDose(plan, TreatmentChlorine, clRange.Min-reading.FreeChlorine, scale)
	}

	cyaRange, err := e.cfg.IdealRangeFor(ParamCyanuricAcid)
	if err != nil {
		return nil, err
	}
	if cya := reading.EffectiveCyanuricAcid(); cya < cyaRange.Min {
		e.addDose(plan, TreatmentCyanuricAcid, (cyaRange.Min-cya)/ppmBaseUnit, scale)
	}

	return plan, nil
}

// addDose applies the treatment's rate to baseUnits of deviation, caps the
// result at the rule's scaled maximum, rounds to two decimals and records it
// when non-zero.
func (e *Engine) addDose(plan AdjustmentPlan, t Treatment, baseUnits, scale float64) {
	rule, ok := e.cfg.RuleFor(t)
	if !ok {
		return
	}
	dose := baseUnits * rule.RatePer10kGal * scale
	if maxDose := rule.MaxDosePer10kGal * scale; dose > maxDose {
		dose = maxDose
	}
	dose = round2(dose)
	if dose > 0 {
		plan[t] = dose
	}
}
