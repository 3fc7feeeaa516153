// Package history stores water test readings and derives per-parameter
// trends from them. Readings are append-only records. The balancing engine
// never consults history; trend analysis sits beside it as a separate view
// over the same chemistry values.
package history

import (
	"errors"
	"time"

	"github.com/deepbluepool/poolchem/internal/chemistry"
)

// Repository and service errors.
var (
	ErrReadingNotFound = errors.New("reading not found")

	// ErrReadOnly indicates mutations are suspended by the read-only flag.
	ErrReadOnly = errors.New("reading history is read-only")

	// ErrTrendDisabled indicates trend analysis is suspended by its flag.
	ErrTrendDisabled = errors.New("trend analysis is disabled")
)

// Reading sources. Source is free text; these cover the known capture paths.
const (
	SourceManual    = "manual"
	SourceTestStrip = "test_strip"
	SourceSensor    = "sensor"
)

// Listing defaults, matching the windows the trend and chart views use.
const (
	DefaultListLimit  = 100
	DefaultWindowDays = 30
)

// Reading is one stored water test.
type Reading struct {
	ID            string
	PoolID        string
	Customer      string
	RecordedAt    time.Time
	VolumeGallons float64
	Source        string
	Chemistry     chemistry.WaterTestReading
}

// RecordInput carries the fields callers supply when storing a reading.
// RecordedAt defaults to now and Source to "manual".
type RecordInput struct {
	PoolID        string
	Customer      string
	RecordedAt    time.Time
	VolumeGallons float64
	Source        string
	Chemistry     chemistry.WaterTestReading
}

// Series is chart-ready history: one entry per reading, oldest first, with
// the ideal bands the chart overlays.
type Series struct {
	Dates        []string
	PH           []float64
	FreeChlorine []float64
	Alkalinity   []float64
	Calcium      []float64
	IdealRanges  map[chemistry.Parameter]chemistry.IdealRange
}
