package safety_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepbluepool/poolchem/internal/featureflags"
	"github.com/deepbluepool/poolchem/internal/safety"
)

type mockProvider struct {
	mu        sync.Mutex
	sheets    map[string]*safety.Chemical
	err       error
	callCount int
}

func (m *mockProvider) GetChemical(ctx context.Context, chemicalID string) (*safety.Chemical, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.sheets[chemicalID]
	if !ok {
		return nil, safety.ErrChemicalNotFound
	}
	return c, nil
}

func (m *mockProvider) Name() string {
	return "mock"
}

func (m *mockProvider) setError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockProvider) getCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

func remoteChlorine() *safety.Chemical {
	return &safety.Chemical{
		ID:           "chlorine",
		Name:         "Chlorine (remote sheet)",
		Formula:      "Cl₂",
		HazardRating: 3,
		Precautions:  []string{"Remote handling precaution"},
	}
}

// flagService builds a feature flag service with one flag enabled.
func flagService(t *testing.T, key string) *featureflags.Service {
	t.Helper()
	svc := featureflags.NewService(featureflags.ServiceConfig{
		Repository: featureflags.NewInMemoryRepository(),
		Logger:     zerolog.Nop(),
		CacheTTL:   time.Minute,
	})
	require.NoError(t, svc.SetFlag(context.Background(), &featureflags.Flag{Key: key, Value: true}))
	return svc
}

func TestServiceGetChemicalCachesProviderData(t *testing.T) {
	provider := &mockProvider{sheets: map[string]*safety.Chemical{"chlorine": remoteChlorine()}}
	service := safety.NewService(safety.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
		CacheTTL: 1 * time.Minute,
	})

	ctx := context.Background()

	first, err := service.GetChemical(ctx, "chlorine")
	require.NoError(t, err)
	assert.Equal(t, "Chlorine (remote sheet)", first.Name)
	assert.Equal(t, 1, provider.getCallCount())

	// Second lookup is served from cache
	second, err := service.GetChemical(ctx, "chlorine")
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, 1, provider.getCallCount())
}

func TestServiceServesStaleOnProviderError(t *testing.T) {
	provider := &mockProvider{sheets: map[string]*safety.Chemical{"chlorine": remoteChlorine()}}
	service := safety.NewService(safety.ServiceConfig{
		Provider:        provider,
		Logger:          zerolog.Nop(),
		CacheTTL:        50 * time.Millisecond,
		StaleIfErrorTTL: 1 * time.Hour,
	})

	ctx := context.Background()

	_, err := service.GetChemical(ctx, "chlorine")
	require.NoError(t, err)

	// Let the fresh window lapse, then break the provider
	time.Sleep(80 * time.Millisecond)
	provider.setError(errors.New("connection refused"))

	sheet, err := service.GetChemical(ctx, "chlorine")
	require.NoError(t, err)
	assert.Equal(t, "Chlorine (remote sheet)", sheet.Name, "stale remote sheet beats the local store")
	assert.Equal(t, 2, provider.getCallCount())
}

func TestServiceFallsBackToStoreOnProviderError(t *testing.T) {
	provider := &mockProvider{}
	provider.setError(errors.New("connection refused"))
	service := safety.NewService(safety.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	ctx := context.Background()

	// Nothing cached yet, so the seeded store answers
	sheet, err := service.GetChemical(ctx, "chlorine")
	require.NoError(t, err)
	assert.Equal(t, "Chlorine", sheet.Name)

	// Unknown everywhere surfaces the provider failure
	_, err = service.GetChemical(ctx, "unobtainium")
	assert.ErrorIs(t, err, safety.ErrProviderUnavailable)
}

func TestServiceProviderNotFound(t *testing.T) {
	// Provider answers but has no sheet for the id; neither does the store.
	provider := &mockProvider{sheets: map[string]*safety.Chemical{}}
	service := safety.NewService(safety.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	_, err := service.GetChemical(context.Background(), "unobtainium")
	assert.ErrorIs(t, err, safety.ErrChemicalNotFound)
}

func TestServiceNilProviderServesStore(t *testing.T) {
	service := safety.NewService(safety.ServiceConfig{
		Logger: zerolog.Nop(),
	})

	ctx := context.Background()

	sheet, err := service.GetChemical(ctx, "sodium_bicarbonate")
	require.NoError(t, err)
	assert.Equal(t, "Sodium Bicarbonate (Baking Soda)", sheet.Name)

	_, err = service.GetChemical(ctx, "unobtainium")
	assert.ErrorIs(t, err, safety.ErrChemicalNotFound)

	// A nil store defaults to the seeded database
	assert.Len(t, service.ListChemicals(), 5)
	assert.Equal(t, "local", service.CacheStats().Provider)
}

func TestServiceCachedOnlyFlagSuspendsProvider(t *testing.T) {
	provider := &mockProvider{sheets: map[string]*safety.Chemical{"chlorine": remoteChlorine()}}
	service := safety.NewService(safety.ServiceConfig{
		Provider:     provider,
		FeatureFlags: flagService(t, featureflags.FlagCachedOnlySafety),
		Logger:       zerolog.Nop(),
	})

	sheet, err := service.GetChemical(context.Background(), "chlorine")
	require.NoError(t, err)
	assert.Equal(t, "Chlorine", sheet.Name, "store answers while the flag is on")
	assert.Equal(t, 0, provider.getCallCount())
}

func TestServiceReadOnlyFlagSuspendsMutations(t *testing.T) {
	service := safety.NewService(safety.ServiceConfig{
		FeatureFlags: flagService(t, featureflags.FlagReadOnlyMode),
		Logger:       zerolog.Nop(),
	})

	ctx := context.Background()

	err := service.UpsertChemical(ctx, safety.Chemical{
		ID:           "bromine",
		Name:         "Bromine",
		HazardRating: 3,
		Precautions:  []string{"Wear gloves"},
	})
	assert.ErrorIs(t, err, safety.ErrReadOnly)

	assert.ErrorIs(t, service.DeleteChemical(ctx, "chlorine"), safety.ErrReadOnly)
	assert.ErrorIs(t, service.SetCompatibility(ctx, "chlorine", "muriatic_acid", true), safety.ErrReadOnly)

	// Reads are unaffected and the store is untouched
	sheet, err := service.GetChemical(ctx, "chlorine")
	require.NoError(t, err)
	assert.Equal(t, "Chlorine", sheet.Name)
	assert.Len(t, service.ListChemicals(), 5)
}

func TestServiceMutations(t *testing.T) {
	service := safety.NewService(safety.ServiceConfig{
		Logger: zerolog.Nop(),
	})

	ctx := context.Background()

	require.NoError(t, service.UpsertChemical(ctx, safety.Chemical{
		ID:           "bromine",
		Name:         "Bromine",
		HazardRating: 3,
		Precautions:  []string{"Wear gloves"},
	}))
	assert.Len(t, service.ListChemicals(), 6)

	require.NoError(t, service.SetCompatibility(ctx, "bromine", "muriatic_acid", false))
	assert.False(t, service.CheckCompatibility("bromine", "muriatic_acid"))
	assert.Contains(t, service.IncompatibleWith("muriatic_acid"), "bromine")

	require.NoError(t, service.DeleteChemical(ctx, "bromine"))
	assert.Len(t, service.ListChemicals(), 5)
	assert.NotContains(t, service.IncompatibleWith("muriatic_acid"), "bromine")

	// Validation errors pass through
	err := service.UpsertChemical(ctx, safety.Chemical{ID: "bromine"})
	assert.ErrorIs(t, err, safety.ErrInvalidChemical)

	assert.ErrorIs(t, service.DeleteChemical(ctx, "unobtainium"), safety.ErrChemicalNotFound)
}

func TestServiceUpsertInvalidatesCache(t *testing.T) {
	provider := &mockProvider{sheets: map[string]*safety.Chemical{"chlorine": remoteChlorine()}}
	service := safety.NewService(safety.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
		CacheTTL: 1 * time.Hour,
	})

	ctx := context.Background()

	_, err := service.GetChemical(ctx, "chlorine")
	require.NoError(t, err)
	_, err = service.GetChemical(ctx, "chlorine")
	require.NoError(t, err)
	assert.Equal(t, 1, provider.getCallCount())

	require.NoError(t, service.UpsertChemical(ctx, safety.Chemical{
		ID:           "chlorine",
		Name:         "Chlorine (revised)",
		HazardRating: 3,
		Precautions:  []string{"Wear protective gloves and eye protection"},
	}))

	// The cached remote sheet was dropped, so the next lookup refetches
	_, err = service.GetChemical(ctx, "chlorine")
	require.NoError(t, err)
	assert.Equal(t, 2, provider.getCallCount())
}

func TestServiceChemicalPrecautions(t *testing.T) {
	service := safety.NewService(safety.ServiceConfig{
		Logger: zerolog.Nop(),
	})

	ctx := context.Background()

	precautions, err := service.ChemicalPrecautions(ctx, "muriatic_acid")
	require.NoError(t, err)
	require.NotEmpty(t, precautions)
	assert.Equal(t, "Always add acid to water, never water to acid", precautions[0])

	_, err = service.ChemicalPrecautions(ctx, "unobtainium")
	assert.ErrorIs(t, err, safety.ErrChemicalNotFound)
}

func TestServiceHazardRating(t *testing.T) {
	service := safety.NewService(safety.ServiceConfig{
		Logger: zerolog.Nop(),
	})

	ctx := context.Background()

	rating, err := service.HazardRating(ctx, "chlorine")
	require.NoError(t, err)
	assert.Equal(t, 3, rating)

	rating, err = service.HazardRating(ctx, "cyanuric_acid")
	require.NoError(t, err)
	assert.Equal(t, 1, rating)

	_, err = service.HazardRating(ctx, "unobtainium")
	assert.ErrorIs(t, err, safety.ErrChemicalNotFound)
}

func TestServiceRefreshChemical(t *testing.T) {
	provider := &mockProvider{sheets: map[string]*safety.Chemical{"chlorine": remoteChlorine()}}
	service := safety.NewService(safety.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
		CacheTTL: 1 * time.Hour,
	})

	ctx := context.Background()

	require.NoError(t, service.RefreshChemical(ctx, "chlorine"))
	assert.Equal(t, 1, provider.getCallCount())

	// A refresh bypasses the fresh cache and fetches again
	require.NoError(t, service.RefreshChemical(ctx, "chlorine"))
	assert.Equal(t, 2, provider.getCallCount())

	// The refreshed sheet now serves reads without another fetch
	sheet, err := service.GetChemical(ctx, "chlorine")
	require.NoError(t, err)
	assert.Equal(t, "Chlorine (remote sheet)", sheet.Name)
	assert.Equal(t, 2, provider.getCallCount())

	assert.ErrorIs(t, service.RefreshChemical(ctx, "unobtainium"), safety.ErrChemicalNotFound)

	provider.setError(errors.New("connection refused"))
	assert.ErrorIs(t, service.RefreshChemical(ctx, "chlorine"), safety.ErrProviderUnavailable)
}

func TestServiceRefreshChemicalUnavailable(t *testing.T) {
	t.Run("no provider", func(t *testing.T) {
		service := safety.NewService(safety.ServiceConfig{Logger: zerolog.Nop()})
		err := service.RefreshChemical(context.Background(), "chlorine")
		assert.ErrorIs(t, err, safety.ErrProviderUnavailable)
	})

	t.Run("cached-only flag", func(t *testing.T) {
		provider := &mockProvider{sheets: map[string]*safety.Chemical{"chlorine": remoteChlorine()}}
		service := safety.NewService(safety.ServiceConfig{
			Provider:     provider,
			FeatureFlags: flagService(t, featureflags.FlagCachedOnlySafety),
			Logger:       zerolog.Nop(),
		})

		err := service.RefreshChemical(context.Background(), "chlorine")
		assert.ErrorIs(t, err, safety.ErrProviderUnavailable)
		assert.Equal(t, 0, provider.getCallCount())
	})
}

func TestServiceCacheStats(t *testing.T) {
	provider := &mockProvider{sheets: map[string]*safety.Chemical{"chlorine": remoteChlorine()}}
	service := safety.NewService(safety.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
		CacheTTL: 1 * time.Minute,
	})

	stats := service.CacheStats()
	assert.Equal(t, 0, stats.Entries)
	assert.Equal(t, 0, stats.FreshEntries)
	assert.Equal(t, "mock", stats.Provider)
	assert.Equal(t, 5, stats.StoredSheets)

	_, err := service.GetChemical(context.Background(), "chlorine")
	require.NoError(t, err)

	stats = service.CacheStats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, 1, stats.FreshEntries)

	service.InvalidateCache()
	assert.Equal(t, 0, service.CacheStats().Entries)
}
