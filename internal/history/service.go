package history

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deepbluepool/poolchem/internal/chemistry"
	"github.com/deepbluepool/poolchem/internal/featureflags"
)

// ServiceConfig holds configuration for the history service.
type ServiceConfig struct {
	// Repository stores the readings. If nil, an in-memory repository is
	// used.
	Repository Repository

	// Chemistry is the rule set consulted for ideal ranges. If nil, the
	// default residential rule set is used.
	Chemistry *chemistry.Config

	// FeatureFlags is the feature flag service (optional). The read-only
	// flag suspends mutations; the trend flag suspends trend analysis.
	FeatureFlags *featureflags.Service

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service records water tests and answers history queries: listings, chart
// series and per-parameter trend analysis.
type Service struct {
	repo         Repository
	chem         *chemistry.Config
	featureFlags *featureflags.Service
	logger       zerolog.Logger
}

// NewService creates a new history service.
func NewService(cfg ServiceConfig) *Service {
	repo := cfg.Repository
	if repo == nil {
		repo = NewInMemoryRepository()
	}

	chem := cfg.Chemistry
	if chem == nil {
		chem = chemistry.DefaultConfig()
	}

	return &Service{
		repo:         repo,
		chem:         chem,
		featureFlags: cfg.FeatureFlags,
		logger:       cfg.Logger,
	}
}

// Record validates and stores a water test reading. RecordedAt defaults to
// now and Source to "manual". Returns ErrReadOnly while the read-only flag is
// enabled.
func (s *Service) Record(ctx context.Context, input RecordInput) (*Reading, error) {
	if s.isReadOnly(ctx) {
		return nil, ErrReadOnly
	}

	if err := input.Chemistry.Validate(); err != nil {
		return nil, err
	}

	recordedAt := input.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	source := strings.TrimSpace(input.Source)
	if source == "" {
		source = SourceManual
	}

	reading := &Reading{
		ID:            "rdg_" + uuid.New().String()[:22],
		PoolID:        input.PoolID,
		Customer:      input.Customer,
		RecordedAt:    recordedAt,
		VolumeGallons: input.VolumeGallons,
		Source:        source,
		Chemistry:     input.Chemistry,
	}

	if err := s.repo.Create(ctx, reading); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("reading_id", reading.ID).
		Str("source", source).
		Msg("water test reading recorded")

	return reading, nil
}

// Get retrieves a reading by ID.
func (s *Service) Get(ctx context.Context, id string) (*Reading, error) {
	return s.repo.Get(ctx, id)
}

// List retrieves readings newest first.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*Reading, error) {
	return s.repo.List(ctx, opts)
}

// Delete removes a reading. Returns ErrReadOnly while the read-only flag is
// enabled.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.isReadOnly(ctx) {
		return ErrReadOnly
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("reading_id", id).Msg("water test reading deleted")
	return nil
}

// Count returns the number of stored readings.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Series returns chart-ready history for the window: dates and the core
// parameter values, oldest first, plus the ideal bands.
func (s *Service) Series(ctx context.Context, days int, customer string) (*Series, error) {
	if days <= 0 {
		days = DefaultWindowDays
	}

	readings, err := s.repo.List(ctx, ListOptions{Customer: customer, Days: days})
	if err != nil {
		return nil, err
	}
	chronological(readings)

	series := &Series{
		Dates:        make([]string, 0, len(readings)),
		PH:           make([]float64, 0, len(readings)),
		FreeChlorine: make([]float64, 0, len(readings)),
		Alkalinity:   make([]float64, 0, len(readings)),
		Calcium:      make([]float64, 0, len(readings)),
		IdealRanges:  make(map[chemistry.Parameter]chemistry.IdealRange, len(s.chem.Ranges)),
	}
	for _, r := range readings {
		series.Dates = append(series.Dates, r.RecordedAt.Format("2006-01-02"))
		series.PH = append(series.PH, r.Chemistry.PH)
		series.FreeChlorine = append(series.FreeChlorine, r.Chemistry.FreeChlorine)
		series.Alkalinity = append(series.Alkalinity, r.Chemistry.TotalAlkalinity)
		series.Calcium = append(series.Calcium, r.Chemistry.CalciumHardness)
	}
	for p, band := range s.chem.Ranges {
		series.IdealRanges[p] = band
	}

	return series, nil
}

func (s *Service) isReadOnly(ctx context.Context) bool {
	if s.featureFlags == nil {
		return false
	}
	return s.featureFlags.IsReadOnlyMode(ctx)
}

func (s *Service) isTrendDisabled(ctx context.Context) bool {
	if s.featureFlags == nil {
		return false
	}
	return s.featureFlags.IsTrendAnalysisDisabled(ctx)
}

// chronological sorts readings oldest first, in place.
func chronological(readings []*Reading) {
	sort.Slice(readings, func(i, j int) bool {
		return readings[i].RecordedAt.Before(readings[j].RecordedAt)
	})
}
