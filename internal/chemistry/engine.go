package chemistry

import (
	"context"
	"time"
)

// DefaultSafetyTimeout bounds a single safety collaborator lookup.
const DefaultSafetyTimeout = 3 * time.Second

// EngineConfig holds construction options for an Engine. Zero fields take
// defaults.
type EngineConfig struct {
	// Config is the rule set. Defaults to DefaultConfig().
	Config *Config

	// Safety supplies chemical precautions. When nil every treatment is
	// annotated with GenericPrecautions.
	Safety SafetyProvider

	// SafetyTimeout bounds each collaborator lookup.
	// Defaults to DefaultSafetyTimeout.
	SafetyTimeout time.Duration
}

// Engine evaluates water test readings. It is stateless and side-effect-free:
// every evaluation is a pure function of its inputs plus the engine's own
// immutable rule set, so a single Engine is safe for concurrent use.
type Engine struct {
	cfg           *Config
	safety        SafetyProvider
	safetyTimeout time.Duration
}

// NewEngine creates an engine. The supplied Config is copied; later mutation
// of the caller's maps does not affect the engine.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Config == nil {
		cfg.Config = DefaultConfig()
	}
	if cfg.SafetyTimeout <= 0 {
		cfg.SafetyTimeout = DefaultSafetyTimeout
	}
	return &Engine{
		cfg:           cfg.Config.clone(),
		safety:        cfg.Safety,
		safetyTimeout: cfg.SafetyTimeout,
	}
}

// Config returns the engine's rule set. Callers must not mutate it.
func (e *Engine) Config() *Config { return e.cfg }

// Evaluate runs the full pipeline for one reading: balance index, dosage
// plan, recommendations, warnings, instruction sequence and safety
// annotations. Input validation failures and range-table misses return an
// error before any partial result is produced.
func (e *Engine) Evaluate(ctx context.Context, profile PoolProfile, reading WaterTestReading) (*EngineResult, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if err := reading.Validate(); err != nil {
		return nil, err
	}

	index := BalanceIndex(reading.PH, reading.TotalAlkalinity, reading.CalciumHardness, reading.TemperatureF)

	plan, err := e.computePlan(profile, reading)
	if err != nil {
		return nil, err
	}

	recommendations, err := e.buildRecommendations(reading, index)
	if err != nil {
		return nil, err
	}

	warnings := buildWarnings(reading, index, plan)
	steps := buildSteps(plan, profile.Type)
	precautions := e.annotate(ctx, plan)
	score, status := QualityScore(reading)

	return &EngineResult{
		Plan:            plan,
		BalanceIndex:    index,
		BalanceStatus:   BalanceStatusFor(index),
		Recommendations: recommendations,
		Warnings:        warnings,
		Precautions:     precautions,
		Steps:           steps,
		QualityScore:    score,
		QualityStatus:   status,
	}, nil
}
