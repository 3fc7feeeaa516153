package chemistry

import "context"

// SafetyProvider supplies handling precautions for pool chemicals. The engine
// consults it once per dosed treatment and tolerates any failure.
type SafetyProvider interface {
	ChemicalPrecautions(ctx context.Context, chemicalID string) ([]string, error)
}

// GenericPrecautions returns the list substituted whenever the safety
// collaborator is unavailable, times out, or has no entry for a chemical.
func GenericPrecautions() []string {
	return []string{
		"Wear appropriate protective equipment",
		"Follow manufacturer's instructions",
		"Keep out of reach of children",
		"Store in a cool, dry place",
	}
}

// annotate attaches a precaution list to every treatment in the plan. Lookup
// failures degrade to GenericPrecautions and never fail the evaluation; this
// is the engine's only self-healing path.
func (e *Engine) annotate(ctx context.Context, plan AdjustmentPlan) map[Treatment][]string {
	out := make(map[Treatment][]string, len(plan))
	for t := range plan {
		out[t] = e.precautionsFor(ctx, t)
	}
	return out
}

func (e *Engine) precautionsFor(ctx context.Context, t Treatment) []string {
	rule, ok := e.cfg.RuleFor(t)
	if !ok || e.safety == nil {
		return GenericPrecautions()
	}
	ctx, cancel := context.WithTimeout(ctx, e.safetyTimeout)
	defer cancel()
	precautions, err := e.safety.ChemicalPrecautions(ctx, rule.ChemicalID)
	if err != nil || len(precautions) == 0 {
		return GenericPrecautions()
	}
	return precautions
}
