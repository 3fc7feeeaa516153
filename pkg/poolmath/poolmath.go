// Package poolmath provides volume, weight and temperature conversion helpers
// for pool water chemistry.
package poolmath

import (
	"math"
	"strconv"
)

// GallonsPerCubicFoot converts pool dimensions in feet to gallons of water.
const GallonsPerCubicFoot = 7.48

// OuncesPerPound converts chemical dose weights.
const OuncesPerPound = 16.0

// VolumeGallons estimates the volume of a rectangular pool from its surface
// dimensions and average depth, all in feet.
func VolumeGallons(lengthFt, widthFt, avgDepthFt float64) float64 {
	return lengthFt * widthFt * avgDepthFt * GallonsPerCubicFoot
}

// OuncesToPounds converts ounces to pounds.
func OuncesToPounds(oz float64) float64 {
	return oz / OuncesPerPound
}

// PoundsToOunces converts pounds to ounces.
func PoundsToOunces(lb float64) float64 {
	return lb * OuncesPerPound
}

// FahrenheitToCelsius converts a temperature reading.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// CelsiusToFahrenheit converts a temperature reading.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// FormatOunces renders a chemical dose for display. Doses above one pound
// carry a pound annotation rounded to two decimals.
func FormatOunces(oz float64) string {
	s := formatFloat(oz) + " oz"
	if oz > OuncesPerPound {
		lb := math.Round(OuncesToPounds(oz)*100) / 100
		s += " (" + formatFloat(lb) + " lb)"
	}
	return s
}

// formatFloat renders the shortest decimal form without an exponent.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
