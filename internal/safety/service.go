package safety

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/deepbluepool/poolchem/internal/featureflags"
	"github.com/deepbluepool/poolchem/internal/telemetry"
)

// Provider is a remote source of chemical safety data sheets.
type Provider interface {
	// GetChemical fetches the data sheet for a chemical id.
	GetChemical(ctx context.Context, chemicalID string) (*Chemical, error)

	// Name returns the provider name for logging and health reporting.
	Name() string
}

// ServiceConfig holds configuration for the safety service.
type ServiceConfig struct {
	// Store is the local safety database. If nil, a seeded store is used.
	Store *Store

	// Provider is an optional remote data sheet service. When unset, the
	// service answers from the local store alone.
	Provider Provider

	// FeatureFlags is the feature flag service (optional). The cached-only
	// flag suspends remote fetches; the read-only flag suspends mutations.
	FeatureFlags *featureflags.Service

	// Logger for service operations.
	Logger zerolog.Logger

	// Metrics records provider call durations and cache hit rates (optional).
	Metrics *telemetry.ProviderMetrics

	// CacheTTL is how long remote data sheets stay fresh (default: 1 hour).
	// Data sheets change rarely, so a long cache is appropriate.
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving stale sheets on provider errors
	// (default: 6 hours).
	StaleIfErrorTTL time.Duration
}

// Service provides chemical safety data with caching and graceful fallback.
// Remote answers are cached with a TTL; on provider failure it serves stale
// cache entries, then the local store, before reporting an error.
type Service struct {
	store           *Store
	provider        Provider
	featureFlags    *featureflags.Service
	logger          zerolog.Logger
	metrics         *telemetry.ProviderMetrics
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration

	mu              sync.RWMutex
	cache           map[string]*cachedSheet
	lastCleanup     time.Time
	cleanupInterval time.Duration
}

type cachedSheet struct {
	data      *Chemical
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new safety service.
func NewService(cfg ServiceConfig) *Service {
	store := cfg.Store
	if store == nil {
		store = NewStore()
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 1 * time.Hour
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 6 * time.Hour
	}

	return &Service{
		store:           store,
		provider:        cfg.Provider,
		featureFlags:    cfg.FeatureFlags,
		logger:          cfg.Logger,
		metrics:         cfg.Metrics,
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleIfErrorTTL,
		cache:           make(map[string]*cachedSheet),
		cleanupInterval: 30 * time.Minute,
	}
}

// GetChemical returns the data sheet for a chemical id, preferring fresh
// remote data over the local store.
func (s *Service) GetChemical(ctx context.Context, id string) (*Chemical, error) {
	id = normalizeID(id)

	s.mu.RLock()
	if cached, ok := s.cache[id]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		s.recordCacheHit()
		return cached.data, nil
	}
	s.mu.RUnlock()

	if s.provider == nil || s.isCachedOnly(ctx) {
		return s.fromStore(id)
	}

	return s.fetchSheet(ctx, id)
}

// ChemicalPrecautions returns the handling precautions for a chemical id.
// This is the lookup the balancing engine performs while annotating a plan.
func (s *Service) ChemicalPrecautions(ctx context.Context, chemicalID string) ([]string, error) {
	c, err := s.GetChemical(ctx, chemicalID)
	if err != nil {
		return nil, err
	}
	return c.Precautions, nil
}

// HazardRating returns the hazard rating for a chemical id.
func (s *Service) HazardRating(ctx context.Context, id string) (int, error) {
	c, err := s.GetChemical(ctx, id)
	if err != nil {
		return 0, err
	}
	return c.HazardRating, nil
}

// ListChemicals returns every data sheet in the local store, ordered by id.
// The remote provider exposes per-chemical lookups only, so listings always
// come from the store.
func (s *Service) ListChemicals() []Chemical {
	return s.store.List()
}

// CheckCompatibility reports whether two chemicals can be stored or handled
// together. Unknown ids are never reported compatible.
func (s *Service) CheckCompatibility(a, b string) bool {
	return s.store.Compatible(a, b)
}

// CompatibleWith returns the ids recorded as compatible with a chemical.
func (s *Service) CompatibleWith(id string) []string {
	return s.store.CompatibleWith(id)
}

// IncompatibleWith returns the ids recorded as incompatible with a chemical.
func (s *Service) IncompatibleWith(id string) []string {
	return s.store.IncompatibleWith(id)
}

// UpsertChemical adds or replaces a data sheet in the local store.
// Returns ErrReadOnly while the read-only flag is enabled.
func (s *Service) UpsertChemical(ctx context.Context, c Chemical) error {
	if s.isReadOnly(ctx) {
		return ErrReadOnly
	}
	if err := s.store.Upsert(c); err != nil {
		return err
	}
	s.invalidate(c.ID)
	s.logger.Info().Str("chemical_id", normalizeID(c.ID)).Msg("chemical data sheet upserted")
	return nil
}

// DeleteChemical removes a data sheet and its compatibility entries.
// Returns ErrReadOnly while the read-only flag is enabled.
func (s *Service) DeleteChemical(ctx context.Context, id string) error {
	if s.isReadOnly(ctx) {
		return ErrReadOnly
	}
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.invalidate(id)
	s.logger.Info().Str("chemical_id", normalizeID(id)).Msg("chemical data sheet deleted")
	return nil
}

// SetCompatibility records whether two chemicals are compatible, in both
// directions. Returns ErrReadOnly while the read-only flag is enabled.
func (s *Service) SetCompatibility(ctx context.Context, a, b string, compatible bool) error {
	if s.isReadOnly(ctx) {
		return ErrReadOnly
	}
	if err := s.store.SetCompatibility(a, b, compatible); err != nil {
		return err
	}
	s.logger.Info().
		Str("chemical_a", normalizeID(a)).
		Str("chemical_b", normalizeID(b)).
		Bool("compatible", compatible).
		Msg("chemical compatibility updated")
	return nil
}

// Store exposes the local safety database.
func (s *Service) Store() *Store {
	return s.store
}

func (s *Service) isCachedOnly(ctx context.Context) bool {
	if s.featureFlags == nil {
		return false
	}
	return s.featureFlags.IsCachedOnlySafety(ctx)
}

func (s *Service) isReadOnly(ctx context.Context) bool {
	if s.featureFlags == nil {
		return false
	}
	return s.featureFlags.IsReadOnlyMode(ctx)
}

func (s *Service) recordCacheHit() {
	if s.metrics != nil {
		s.metrics.RecordCacheHit(s.providerName(), "get_chemical")
	}
}

func (s *Service) recordCacheMiss() {
	if s.metrics != nil {
		s.metrics.RecordCacheMiss(s.providerName(), "get_chemical")
	}
}

func (s *Service) recordRequest(operation string, duration time.Duration, err error) {
	if s.metrics != nil {
		s.metrics.RecordRequest(s.providerName(), operation, duration, err)
	}
}

// fromStore answers from the local database alone.
func (s *Service) fromStore(id string) (*Chemical, error) {
	c, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// fetchSheet fetches a data sheet from the provider and updates the cache.
// On failure it serves a stale cache entry, then the local store.
func (s *Service) fetchSheet(ctx context.Context, id string) (*Chemical, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache
	if cached, ok := s.cache[id]; ok && time.Now().Before(cached.expiresAt) {
		s.recordCacheHit()
		return cached.data, nil
	}
	s.recordCacheMiss()

	s.logger.Debug().
		Str("chemical_id", id).
		Str("provider", s.provider.Name()).
		Msg("fetching chemical data sheet from provider")

	start := time.Now()
	data, err := s.provider.GetChemical(ctx, id)
	s.recordRequest("get_chemical", time.Since(start), err)
	if err != nil {
		s.logger.Error().Err(err).
			Str("chemical_id", id).
			Msg("failed to fetch chemical data sheet")

		if cached, ok := s.cache[id]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Time("fetched_at", cached.fetchedAt).
					Msg("serving stale chemical data sheet due to provider error")
				return cached.data, nil
			}
		}

		if c, storeErr := s.store.Get(id); storeErr == nil {
			s.logger.Warn().
				Str("chemical_id", id).
				Msg("serving local data sheet due to provider error")
			return &c, nil
		}

		if errors.Is(err, ErrChemicalNotFound) {
			return nil, err
		}
		return nil, ErrProviderUnavailable
	}

	now := time.Now()
	s.cache[id] = &cachedSheet{
		data:      data,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	s.cleanupIfNeeded()

	return data, nil
}

// cleanupIfNeeded removes long-expired entries if the cleanup interval has
// passed. Callers hold the write lock.
func (s *Service) cleanupIfNeeded() {
	now := time.Now()
	if now.Sub(s.lastCleanup) < s.cleanupInterval {
		return
	}

	s.lastCleanup = now
	expired := 0

	for key, cached := range s.cache {
		if now.After(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			delete(s.cache, key)
			expired++
		}
	}

	if expired > 0 {
		s.logger.Debug().
			Int("expired_entries", expired).
			Msg("cleaned up expired data sheet cache entries")
	}
}

func (s *Service) invalidate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, normalizeID(id))
}

// InvalidateCache clears all cached data sheets.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedSheet)
}

// RefreshChemical re-fetches a data sheet from the remote provider,
// replacing any cached copy regardless of freshness. The background refresh
// job uses it to keep sheets inside the stale-if-error window.
func (s *Service) RefreshChemical(ctx context.Context, id string) error {
	if s.provider == nil || s.isCachedOnly(ctx) {
		return ErrProviderUnavailable
	}

	id = normalizeID(id)

	start := time.Now()
	data, err := s.provider.GetChemical(ctx, id)
	s.recordRequest("refresh", time.Since(start), err)
	if err != nil {
		if errors.Is(err, ErrChemicalNotFound) {
			return err
		}
		return ErrProviderUnavailable
	}

	now := time.Now()
	s.mu.Lock()
	s.cache[id] = &cachedSheet{
		data:      data,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}
	s.mu.Unlock()

	return nil
}

// CacheStats contains cache statistics.
type CacheStats struct {
	Entries      int
	FreshEntries int
	Provider     string
	StoredSheets int
}

// CacheStats returns cache statistics.
func (s *Service) CacheStats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	fresh := 0
	for _, c := range s.cache {
		if now.Before(c.expiresAt) {
			fresh++
		}
	}

	return CacheStats{
		Entries:      len(s.cache),
		FreshEntries: fresh,
		Provider:     s.providerName(),
		StoredSheets: s.store.Count(),
	}
}

func (s *Service) providerName() string {
	if s.provider == nil {
		return "local"
	}
	return s.provider.Name()
}
