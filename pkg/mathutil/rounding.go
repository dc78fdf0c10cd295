// Package mathutil provides the numeric helpers shared by the calculators:
// rounding, guarded division and a bounded root finder.
package mathutil

import (
	"math"

	"github.com/iwvelando/plantation-analytics/pkg/constants"
	"github.com/shopspring/decimal"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// RoundTo rounds a value to the given number of decimal places, half away
// from zero, working on the shortest decimal representation of the float so
// that values such as 1.005 round the way they read.
func RoundTo(val float64, places int32) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return val
	}
	return decimal.NewFromFloat(val).Round(places).InexactFloat64()
}

// PercentToRate converts a percentage (e.g. 11) into a rate (0.11).
func PercentToRate(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}

// RateToPercent converts a rate (0.11) into a percentage (11).
func RateToPercent(rate float64) float64 {
	return rate * constants.PercentageMultiplier
}
