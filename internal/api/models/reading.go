package models

import (
	"github.com/deepbluepool/poolchem/internal/chemistry"
	"github.com/deepbluepool/poolchem/internal/history"
)

// ReadingCreateRequest is the body of POST /v1/readings.
type ReadingCreateRequest struct {
	PoolID        string                     `json:"pool_id,omitempty"`
	Customer      string                     `json:"customer,omitempty"`
	RecordedAt    *Timestamp                 `json:"recorded_at,omitempty"`
	VolumeGallons float64                    `json:"volume_gallons,omitempty"`
	Source        string                     `json:"source,omitempty"`
	Reading       chemistry.WaterTestReading `json:"reading"`
}

// Reading is the wire form of a stored water test reading.
type Reading struct {
	ID            string                     `json:"id"`
	PoolID        string                     `json:"pool_id,omitempty"`
	Customer      string                     `json:"customer,omitempty"`
	RecordedAt    Timestamp                  `json:"recorded_at"`
	VolumeGallons float64                    `json:"volume_gallons,omitempty"`
	Source        string                     `json:"source"`
	Reading       chemistry.WaterTestReading `json:"reading"`
}

// NewReading maps a stored reading to its wire form.
func NewReading(r *history.Reading) Reading {
	return Reading{
		ID:            r.ID,
		PoolID:        r.PoolID,
		Customer:      r.Customer,
		RecordedAt:    Timestamp(r.RecordedAt),
		VolumeGallons: r.VolumeGallons,
		Source:        r.Source,
		Reading:       r.Chemistry,
	}
}

// ReadingList is the body of GET /v1/readings.
type ReadingList struct {
	Items []Reading `json:"items"`
	Total int       `json:"total"`
}

// SeriesResponse is the body of GET /v1/readings/series: per-parameter value
// columns aligned by date, chart-ready.
type SeriesResponse struct {
	Dates        []string                                     `json:"dates"`
	PH           []float64                                    `json:"ph"`
	FreeChlorine []float64                                    `json:"free_chlorine"`
	Alkalinity   []float64                                    `json:"alkalinity"`
	Calcium      []float64                                    `json:"calcium"`
	IdealRanges  map[chemistry.Parameter]chemistry.IdealRange `json:"ideal_ranges"`
}

// NewSeriesResponse maps a history series to its wire form.
func NewSeriesResponse(s *history.Series) SeriesResponse {
	return SeriesResponse{
		Dates:        s.Dates,
		PH:           s.PH,
		FreeChlorine: s.FreeChlorine,
		Alkalinity:   s.Alkalinity,
		Calcium:      s.Calcium,
		IdealRanges:  s.IdealRanges,
	}
}

// TrendResponse is the body of GET /v1/readings/trends/{parameter}.
type TrendResponse struct {
	Parameter      chemistry.Parameter    `json:"parameter"`
	Trend          history.TrendDirection `json:"trend"`
	PercentChange  float64                `json:"percent_change"`
	Volatility     float64                `json:"volatility"`
	CurrentValue   float64                `json:"current_value"`
	Samples        int                    `json:"samples"`
	Message        string                 `json:"message,omitempty"`
	Recommendation string                 `json:"recommendation"`
}

// NewTrendResponse maps a trend analysis to its wire form.
func NewTrendResponse(a *history.TrendAnalysis) TrendResponse {
	return TrendResponse{
		Parameter:      a.Parameter,
		Trend:          a.Trend,
		PercentChange:  a.PercentChange,
		Volatility:     a.Volatility,
		CurrentValue:   a.CurrentValue,
		Samples:        a.Samples,
		Message:        a.Message,
		Recommendation: a.Recommendation,
	}
}
