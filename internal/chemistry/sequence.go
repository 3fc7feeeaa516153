package chemistry

// treatmentOrder is the fixed application order: alkalinity first, then pH
// down, pH up, hardness, stabilizer, and sanitizer last.
var treatmentOrder = [...]Treatment{
	TreatmentAlkalinityIncreaser,
	TreatmentPHDecreaser,
	TreatmentPHIncreaser,
	TreatmentCalciumIncreaser,
	TreatmentCyanuricAcid,
	TreatmentChlorine,
}

// displayNames maps treatments to the product names used in instruction steps.
var displayNames = map[Treatment]string{
	TreatmentAlkalinityIncreaser: "Alkalinity Increaser",
	TreatmentPHDecreaser:         "pH Decreaser",
	TreatmentPHIncreaser:         "pH Increaser",
	TreatmentCalciumIncreaser:    "Calcium Increaser",
	TreatmentCyanuricAcid:        "Cyanuric Acid",
	TreatmentChlorine:            "Chlorine",
}

// DisplayName returns the product name for a treatment, falling back to the
// raw key for treatments outside the fixed table.
func (t Treatment) DisplayName() string {
	if name, ok := displayNames[t]; ok {
		return name
	}
	return string(t)
}

// buildSteps emits one numbered step per dosed treatment, in the fixed order,
// each with its procedural script and any pool-material advisory, followed by
// a closing step. An empty plan yields an empty list, which is a valid
// terminal state.
func buildSteps(plan AdjustmentPlan, poolType PoolType) []InstructionStep {
	var steps []InstructionStep
	num := 1
	for _, t := range treatmentOrder {
		amount, ok := plan[t]
		if !ok || amount <= 0 {
			continue
		}
		step := InstructionStep{
			Number:       num,
			Chemical:     t.DisplayName(),
			Amount:       formatNum(amount) + " oz",
			Instructions: scriptFor(t, amount),
		}
		switch poolType {
		case PoolTypeVinyl:
			step.Instructions = append(step.Instructions, "Note: For vinyl pools, always pre-dissolve chemicals to avoid damage to the liner")
		case PoolTypeFiberglass:
			step.Instructions = append(step.Instructions, "Note: For fiberglass pools, maintain proper water balance to prevent damage to the gel coat")
		}
		steps = append(steps, step)
		num++
	}
	if len(steps) > 0 {
		steps = append(steps, InstructionStep{
			Number:   num,
			Chemical: "Final Steps",
			Amount:   "",
			Instructions: []string{
				"Run the circulation pump for at least 8 hours after adding all chemicals",
				"Retest the water after 24 hours to verify chemical levels",
				"Adjust chemicals as needed based on new test results",
				"Keep a log of all chemical additions and test results",
			},
		})
	}
	return steps
}

// scriptFor returns the fixed procedural script for one treatment. The
// sanitizer script covers liquid, granular and tablet product forms in fixed
// lines rather than branching per form.
func scriptFor(t Treatment, amount float64) []string {
	amt := formatNum(amount)
	switch t {
	case TreatmentAlkalinityIncreaser:
		return []string{
			"Pre-dissolve " + amt + " oz of alkalinity increaser in a bucket of water",
			"Broadcast the solution around the perimeter of the pool",
			"Run the circulation pump for at least 4 hours",
			"Wait 24 hours before adding other chemicals or retesting",
		}
	case TreatmentPHDecreaser:
		return []string{
			"Dilute " + amt + " oz of pH decreaser in a bucket of water (always add acid to water, never water to acid)",
			"Slowly pour the solution around the perimeter of the pool, avoiding the walls and steps",
			"Run the circulation pump for at least 2 hours",
			"Wait 4-6 hours before retesting or adding other chemicals",
		}
	case TreatmentPHIncreaser:
		return []string{
			"Pre-dissolve " + amt + " oz of pH increaser in a bucket of water",
			"Broadcast the solution around the perimeter of the pool",
			"Run the circulation pump for at least 2 hours",
			"Wait 4-6 hours before retesting or adding other chemicals",
		}
	case TreatmentCalciumIncreaser:
		return []string{
			"Pre-dissolve " + amt + " oz of calcium increaser in a bucket of water",
			"Broadcast the solution around the perimeter of the pool",
			"Run the circulation pump for at least 4 hours",
			"Wait 24 hours before retesting",
		}
	case TreatmentCyanuricAcid:
		return []string{
			"Pre-dissolve " + amt + " oz of cyanuric acid in a bucket of water",
			"Slowly pour the solution around the perimeter of the pool",
			"Run the circulation pump for at least 8 hours",
			"Wait 24-48 hours before retesting",
		}
	case TreatmentChlorine:
		return []string{
			"Add " + amt + " oz of chlorine according to product instructions",
			"For liquid chlorine: Dilute with water and pour around the perimeter of the pool",
			"For granular chlorine: Pre-dissolve in water and broadcast around the pool",
			"For tablets: Add to skimmer basket or chlorinator",
			"Run the circulation pump for at least 2 hours",
			"Wait 4-6 hours before swimming",
		}
	}
	return nil
}
