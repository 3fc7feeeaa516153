package safety_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepbluepool/poolchem/internal/safety"
)

func TestNewStoreSeeded(t *testing.T) {
	store := safety.NewStore()

	assert.Equal(t, 5, store.Count())

	chlorine, err := store.Get("chlorine")
	require.NoError(t, err)
	assert.Equal(t, "Chlorine", chlorine.Name)
	assert.Equal(t, "Cl₂", chlorine.Formula)
	assert.Equal(t, 3, chlorine.HazardRating)
	assert.Len(t, chlorine.Precautions, 3)
	assert.Contains(t, chlorine.Precautions, "Keep away from acids to prevent chlorine gas formation")

	acid, err := store.Get("muriatic_acid")
	require.NoError(t, err)
	assert.Equal(t, "Muriatic Acid (Hydrochloric Acid)", acid.Name)
	assert.Equal(t, "Always add acid to water, never water to acid", acid.Precautions[0])

	bicarb, err := store.Get("sodium_bicarbonate")
	require.NoError(t, err)
	assert.Equal(t, 1, bicarb.HazardRating)

	// Lookups are case-insensitive
	upper, err := store.Get("CHLORINE")
	require.NoError(t, err)
	assert.Equal(t, "chlorine", upper.ID)

	_, err = store.Get("unobtainium")
	assert.ErrorIs(t, err, safety.ErrChemicalNotFound)

	list := store.List()
	require.Len(t, list, 5)
	ids := make([]string, len(list))
	for i, c := range list {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{
		"calcium_hypochlorite",
		"chlorine",
		"cyanuric_acid",
		"muriatic_acid",
		"sodium_bicarbonate",
	}, ids)
}

func TestStoreCompatibility(t *testing.T) {
	store := safety.NewStore()

	// The three seeded incompatible pairs, in both directions
	incompatible := [][2]string{
		{"chlorine", "muriatic_acid"},
		{"muriatic_acid", "sodium_bicarbonate"},
		{"muriatic_acid", "calcium_hypochlorite"},
	}
	for _, pair := range incompatible {
		assert.False(t, store.Compatible(pair[0], pair[1]), "%s with %s", pair[0], pair[1])
		assert.False(t, store.Compatible(pair[1], pair[0]), "%s with %s", pair[1], pair[0])
	}

	// Everything else is compatible
	assert.True(t, store.Compatible("chlorine", "sodium_bicarbonate"))
	assert.True(t, store.Compatible("chlorine", "calcium_hypochlorite"))
	assert.True(t, store.Compatible("cyanuric_acid", "muriatic_acid"))

	// A chemical is compatible with itself
	assert.True(t, store.Compatible("chlorine", "chlorine"))

	// Unknown ids are never compatible
	assert.False(t, store.Compatible("chlorine", "unobtainium"))
	assert.False(t, store.Compatible("unobtainium", "chlorine"))
	assert.False(t, store.Compatible("unobtainium", "unobtainium"))

	// Case-insensitive
	assert.False(t, store.Compatible("Chlorine", "MURIATIC_ACID"))
	assert.True(t, store.Compatible("Chlorine", "Cyanuric_Acid"))
}

func TestStoreMatrixRows(t *testing.T) {
	store := safety.NewStore()

	assert.Equal(t, []string{
		"calcium_hypochlorite",
		"chlorine",
		"sodium_bicarbonate",
	}, store.IncompatibleWith("muriatic_acid"))

	assert.Equal(t, []string{"cyanuric_acid"}, store.CompatibleWith("muriatic_acid"))

	assert.Equal(t, []string{"muriatic_acid"}, store.IncompatibleWith("sodium_bicarbonate"))

	assert.Equal(t, []string{
		"calcium_hypochlorite",
		"cyanuric_acid",
		"sodium_bicarbonate",
	}, store.CompatibleWith("chlorine"))

	assert.Empty(t, store.CompatibleWith("unobtainium"))
	assert.Empty(t, store.IncompatibleWith("unobtainium"))
}

func TestStoreUpsert(t *testing.T) {
	store := safety.NewStore()

	err := store.Upsert(safety.Chemical{
		ID:           " Calcium_Chloride ",
		Name:         "Calcium Chloride",
		Formula:      "CaCl₂",
		HazardRating: 2,
		Precautions: []string{
			"Wear gloves when handling",
			"Dissolve fully before adding to water",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, store.Count())

	c, err := store.Get("calcium_chloride")
	require.NoError(t, err)
	assert.Equal(t, "calcium_chloride", c.ID)
	assert.Equal(t, "Calcium Chloride", c.Name)

	// New chemicals are self-compatible but start unpaired
	assert.True(t, store.Compatible("calcium_chloride", "calcium_chloride"))
	assert.False(t, store.Compatible("calcium_chloride", "chlorine"))

	require.NoError(t, store.SetCompatibility("calcium_chloride", "chlorine", true))
	assert.True(t, store.Compatible("calcium_chloride", "chlorine"))
	assert.True(t, store.Compatible("chlorine", "calcium_chloride"))

	// Replacing an existing sheet keeps the id stable
	require.NoError(t, store.Upsert(safety.Chemical{
		ID:           "calcium_chloride",
		Name:         "Calcium Chloride Flakes",
		HazardRating: 2,
		Precautions:  []string{"Wear gloves when handling"},
	}))
	c, err = store.Get("calcium_chloride")
	require.NoError(t, err)
	assert.Equal(t, "Calcium Chloride Flakes", c.Name)
	assert.Equal(t, 6, store.Count())
}

func TestStoreUpsertValidation(t *testing.T) {
	store := safety.NewStore()

	tests := []struct {
		name     string
		chemical safety.Chemical
		wantMsg  string
	}{
		{
			name: "missing name",
			chemical: safety.Chemical{
				ID:           "bromine",
				HazardRating: 3,
				Precautions:  []string{"Wear gloves"},
			},
			wantMsg: "name",
		},
		{
			name: "missing precautions",
			chemical: safety.Chemical{
				ID:           "bromine",
				Name:         "Bromine",
				HazardRating: 3,
			},
			wantMsg: "safety_precautions",
		},
		{
			name: "blank id",
			chemical: safety.Chemical{
				ID:           "   ",
				Name:         "Bromine",
				HazardRating: 3,
				Precautions:  []string{"Wear gloves"},
			},
			wantMsg: "id",
		},
		{
			name: "hazard rating out of range",
			chemical: safety.Chemical{
				ID:           "bromine",
				Name:         "Bromine",
				HazardRating: 5,
				Precautions:  []string{"Wear gloves"},
			},
			wantMsg: "hazard_rating",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Upsert(tt.chemical)
			require.Error(t, err)
			assert.ErrorIs(t, err, safety.ErrInvalidChemical)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	assert.Equal(t, 5, store.Count())
}

func TestStoreDelete(t *testing.T) {
	store := safety.NewStore()

	require.NoError(t, store.Delete("muriatic_acid"))
	assert.Equal(t, 4, store.Count())

	_, err := store.Get("muriatic_acid")
	assert.ErrorIs(t, err, safety.ErrChemicalNotFound)

	// Every reference to the deleted chemical is scrubbed from the matrix
	assert.Empty(t, store.IncompatibleWith("chlorine"))
	assert.Empty(t, store.IncompatibleWith("sodium_bicarbonate"))
	assert.False(t, store.Compatible("chlorine", "muriatic_acid"))
	assert.NotContains(t, store.CompatibleWith("cyanuric_acid"), "muriatic_acid")

	err = store.Delete("muriatic_acid")
	assert.ErrorIs(t, err, safety.ErrChemicalNotFound)
}

func TestStoreSetCompatibilityUnknownChemical(t *testing.T) {
	store := safety.NewStore()

	err := store.SetCompatibility("chlorine", "unobtainium", true)
	assert.ErrorIs(t, err, safety.ErrChemicalNotFound)

	err = store.SetCompatibility("unobtainium", "chlorine", true)
	assert.ErrorIs(t, err, safety.ErrChemicalNotFound)

	// Flipping a seeded pair works in both directions
	require.NoError(t, store.SetCompatibility("chlorine", "muriatic_acid", true))
	assert.True(t, store.Compatible("chlorine", "muriatic_acid"))
	assert.True(t, store.Compatible("muriatic_acid", "chlorine"))

	require.NoError(t, store.SetCompatibility("chlorine", "muriatic_acid", false))
	assert.False(t, store.Compatible("muriatic_acid", "chlorine"))
}

func TestStoreSnapshotRoundtrip(t *testing.T) {
	store := safety.NewStore()
	require.NoError(t, store.Upsert(safety.Chemical{
		ID:           "calcium_chloride",
		Name:         "Calcium Chloride",
		HazardRating: 2,
		Precautions:  []string{"Wear gloves when handling"},
	}))
	require.NoError(t, store.SetCompatibility("calcium_chloride", "muriatic_acid", false))

	data, err := store.Snapshot()
	require.NoError(t, err)

	raw := string(data)
	assert.Contains(t, raw, `"chemicals"`)
	assert.Contains(t, raw, `"compatibility"`)
	assert.Contains(t, raw, `"muriatic_acid": 0`)
	assert.True(t, strings.Contains(raw, "\n    \""), "snapshot should be indented")

	restored, err := safety.NewStoreFromSnapshot(data)
	require.NoError(t, err)

	assert.Equal(t, store.Count(), restored.Count())

	c, err := restored.Get("calcium_chloride")
	require.NoError(t, err)
	assert.Equal(t, "Calcium Chloride", c.Name)
	assert.Equal(t, 2, c.HazardRating)

	assert.False(t, restored.Compatible("chlorine", "muriatic_acid"))
	assert.False(t, restored.Compatible("calcium_chloride", "muriatic_acid"))
	assert.True(t, restored.Compatible("chlorine", "sodium_bicarbonate"))
	assert.Equal(t, store.IncompatibleWith("muriatic_acid"), restored.IncompatibleWith("muriatic_acid"))
}

func TestNewStoreFromSnapshotEmpty(t *testing.T) {
	store, err := safety.NewStoreFromSnapshot([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, 0, store.Count())

	_, err = store.Get("chlorine")
	assert.ErrorIs(t, err, safety.ErrChemicalNotFound)

	_, err = safety.NewStoreFromSnapshot([]byte(`{not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing safety snapshot")
}

func TestStoreGetReturnsCopy(t *testing.T) {
	store := safety.NewStore()

	c, err := store.Get("chlorine")
	require.NoError(t, err)
	c.Name = "mutated"
	c.Precautions[0] = "mutated"

	again, err := store.Get("chlorine")
	require.NoError(t, err)
	assert.Equal(t, "Chlorine", again.Name)
	assert.Equal(t, "Wear protective gloves and eye protection", again.Precautions[0])
}

func TestStoreHazardRatingAndPrecautions(t *testing.T) {
	store := safety.NewStore()

	rating, err := store.HazardRating("calcium_hypochlorite")
	require.NoError(t, err)
	assert.Equal(t, 3, rating)

	precautions, err := store.Precautions("cyanuric_acid")
	require.NoError(t, err)
	assert.Equal(t, []string{"Avoid dust formation", "Use with adequate ventilation"}, precautions)

	_, err = store.HazardRating("unobtainium")
	assert.ErrorIs(t, err, safety.ErrChemicalNotFound)

	_, err = store.Precautions("unobtainium")
	assert.ErrorIs(t, err, safety.ErrChemicalNotFound)
}

func TestDefaultChemicalsValid(t *testing.T) {
	defaults := safety.DefaultChemicals()
	require.Len(t, defaults, 5)
	for _, c := range defaults {
		assert.NoError(t, c.Validate(), c.ID)
	}
}
