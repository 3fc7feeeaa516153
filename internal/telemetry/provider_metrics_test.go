package telemetry_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepbluepool/poolchem/internal/telemetry"
)

func TestNewProviderMetrics(t *testing.T) {
	pm, err := telemetry.NewProviderMetrics()
	require.NoError(t, err)
	assert.NotNil(t, pm)
}

func TestProviderMetrics_RecordRequest(t *testing.T) {
	pm, err := telemetry.NewProviderMetrics()
	require.NoError(t, err)

	// Should not panic, with or without an error outcome
	pm.RecordRequest("datasheet", "get_chemical", 120*time.Millisecond, nil)
	pm.RecordRequest("datasheet", "get_chemical", 2*time.Second, errors.New("connection refused"))
}

func TestProviderMetrics_RecordCacheHit(t *testing.T) {
	pm, err := telemetry.NewProviderMetrics()
	require.NoError(t, err)

	// Should not panic
	pm.RecordCacheHit("datasheet", "get_chemical")
}

func TestProviderMetrics_RecordCacheMiss(t *testing.T) {
	pm, err := telemetry.NewProviderMetrics()
	require.NoError(t, err)

	// Should not panic
	pm.RecordCacheMiss("datasheet", "get_chemical")
}
