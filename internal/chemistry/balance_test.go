package chemistry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deepbluepool/poolchem/internal/chemistry"
)

func TestBalanceIndex(t *testing.T) {
	tests := []struct {
		name         string
		ph           float64
		alkalinity   float64
		calcium      float64
		temperatureF float64
		want         float64
	}{
		{
			name: "typical summer pool",
			ph:   7.5, alkalinity: 100, calcium: 300, temperatureF: 80,
			want: -0.3,
		},
		{
			name: "slightly acidic",
			ph:   7.0, alkalinity: 100, calcium: 250, temperatureF: 78,
			want: -0.8,
		},
		{
			name: "hard hot water",
			ph:   8.2, alkalinity: 120, calcium: 450, temperatureF: 90,
			want: 0.6,
		},
		{
			name: "freezing water drops the temperature factor to zero",
			ph:   7.5, alkalinity: 100, calcium: 300, temperatureF: 32,
			want: -1.0,
		},
		{
			name: "temperature factor saturates above the top band",
			ph:   7.5, alkalinity: 100, calcium: 300, temperatureF: 110,
			want: 0.0,
		},
		{
			name: "soft shallow water",
			ph:   7.2, alkalinity: 20, calcium: 20, temperatureF: 60,
			want: -0.6,
		},
		{
			name: "calcium factor saturates above the top band",
			ph:   7.5, alkalinity: 100, calcium: 900, temperatureF: 80,
			want: 0.0,
		},
		{
			name: "alkalinity factor saturates above the top band",
			ph:   7.8, alkalinity: 350, calcium: 400, temperatureF: 84,
			want: -0.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chemistry.BalanceIndex(tt.ph, tt.alkalinity, tt.calcium, tt.temperatureF)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestBalanceIndexTemperatureBands(t *testing.T) {
	// With pH 7.5, alkalinity 100 and calcium 300 fixed, the index is the
	// temperature factor minus one. Crossing a band boundary moves it by 0.1.
	index := func(f float64) float64 {
		return chemistry.BalanceIndex(7.5, 100, 300, f)
	}

	tests := []struct {
		temperatureF float64
		want         float64
	}{
		{32, -1.0},
		{33, -0.9},
		{37, -0.9},
		{38, -0.8},
		{76, -0.4},
		{77, -0.3},
		{84, -0.3},
		{85, -0.2},
		{105, -0.1},
		{106, 0.0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, index(tt.temperatureF), 0.001, "temperature %g", tt.temperatureF)
	}
}

func TestBalanceIndexMonotoneInPH(t *testing.T) {
	prev := chemistry.BalanceIndex(6.0, 100, 300, 80)
	for i := 1; i <= 30; i++ {
		ph := 6.0 + float64(i)/10
		got := chemistry.BalanceIndex(ph, 100, 300, 80)
		assert.GreaterOrEqual(t, got, prev, "index decreased at pH %g", ph)
		prev = got
	}
}

func TestBalanceStatusFor(t *testing.T) {
	tests := []struct {
		index float64
		want  chemistry.BalanceStatus
	}{
		{-1.3, chemistry.BalanceCorrosive},
		{-0.51, chemistry.BalanceCorrosive},
		{-0.5, chemistry.BalanceBalanced},
		{0, chemistry.BalanceBalanced},
		{0.5, chemistry.BalanceBalanced},
		{0.51, chemistry.BalanceScaleForming},
		{1.3, chemistry.BalanceScaleForming},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, chemistry.BalanceStatusFor(tt.index), "index %g", tt.index)
	}
}
