package chemistry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deepbluepool/poolchem/internal/chemistry"
)

func TestQualityScore(t *testing.T) {
	tests := []struct {
		name       string
		ph         float64
		chlorine   float64
		alkalinity float64
		wantScore  float64
		wantStatus chemistry.QualityStatus
	}{
		{
			name: "everything ideal",
			ph:   7.5, chlorine: 2.5, alkalinity: 100,
			wantScore: 100, wantStatus: chemistry.QualityGood,
		},
		{
			name: "slightly low pH",
			ph:   7.0, chlorine: 3.0, alkalinity: 100,
			wantScore: 96, wantStatus: chemistry.QualityGood,
		},
		{
			name: "very low pH",
			ph:   6.0, chlorine: 3.0, alkalinity: 100,
			wantScore: 76, wantStatus: chemistry.QualityFair,
		},
		{
			name: "low chlorine",
			ph:   7.5, chlorine: 1.0, alkalinity: 100,
			wantScore: 87.5, wantStatus: chemistry.QualityGood,
		},
		{
			name: "no chlorine",
			ph:   7.5, chlorine: 0, alkalinity: 100,
			wantScore: 75, wantStatus: chemistry.QualityFair,
		},
		{
			name: "high chlorine costs less than low",
			ph:   7.5, chlorine: 5.0, alkalinity: 100,
			wantScore: 96.3, wantStatus: chemistry.QualityGood,
		},
		{
			name: "low alkalinity",
			ph:   7.5, chlorine: 2.5, alkalinity: 40,
			wantScore: 92.5, wantStatus: chemistry.QualityGood,
		},
		{
			name: "high alkalinity",
			ph:   7.5, chlorine: 2.5, alkalinity: 160,
			wantScore: 96.7, wantStatus: chemistry.QualityGood,
		},
		{
			name: "boundary score stays good",
			ph:   6.2, chlorine: 2.5, alkalinity: 100,
			wantScore: 80, wantStatus: chemistry.QualityGood,
		},
		{
			name: "every parameter off",
			ph:   5.0, chlorine: 0, alkalinity: 0,
			wantScore: 16, wantStatus: chemistry.QualityPoor,
		},
		{
			name: "deductions clamp at zero",
			ph:   0, chlorine: 2.5, alkalinity: 100,
			wantScore: 0, wantStatus: chemistry.QualityPoor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reading := chemistry.WaterTestReading{
				PH:              tt.ph,
				FreeChlorine:    tt.chlorine,
				TotalAlkalinity: tt.alkalinity,
				CalciumHardness: 300,
				TemperatureF:    80,
			}
			score, status := chemistry.QualityScore(reading)
			assert.InDelta(t, tt.wantScore, score, 0.001)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}
