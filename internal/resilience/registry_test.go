package resilience_test

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepbluepool/poolchem/internal/resilience"
)

func TestRegistry_RegisterAndHealth(t *testing.T) {
	registry := resilience.NewRegistry()
	client := resilience.NewClient(resilience.DefaultClientConfig("safety-datasheet"))

	registry.Register("safety-datasheet", client)

	health := registry.Health("safety-datasheet")
	require.NotNil(t, health)
	assert.Equal(t, "safety-datasheet", health.Name)
	assert.Equal(t, gobreaker.StateClosed, health.CircuitState)
	assert.True(t, health.IsHealthy())
	assert.Nil(t, health.LastSuccessAt)
	assert.Nil(t, health.LastFailureAt)
}

func TestRegistry_UnknownCollaborator(t *testing.T) {
	registry := resilience.NewRegistry()
	assert.Nil(t, registry.Health("nonexistent"))
}

func TestRegistry_RecordOutcomes(t *testing.T) {
	registry := resilience.NewRegistry()
	client := resilience.NewClient(resilience.DefaultClientConfig("safety-datasheet"))
	registry.Register("safety-datasheet", client)

	registry.RecordSuccess("safety-datasheet")
	health := registry.Health("safety-datasheet")
	require.NotNil(t, health)
	assert.NotNil(t, health.LastSuccessAt)

	registry.RecordFailure("safety-datasheet", errors.New("connection refused"))
	health = registry.Health("safety-datasheet")
	require.NotNil(t, health)
	assert.NotNil(t, health.LastFailureAt)
	assert.Equal(t, "connection refused", health.LastError)
}

func TestRegistry_AllHealthAndNames(t *testing.T) {
	registry := resilience.NewRegistry()
	registry.Register("a", resilience.NewClient(resilience.DefaultClientConfig("a")))
	registry.Register("b", resilience.NewClient(resilience.DefaultClientConfig("b")))

	assert.Equal(t, 2, registry.Count())
	assert.Len(t, registry.AllHealth(), 2)
	assert.ElementsMatch(t, []string{"a", "b"}, registry.Names())

	registry.Unregister("a")
	assert.Equal(t, 1, registry.Count())
	assert.Nil(t, registry.Health("a"))
}
