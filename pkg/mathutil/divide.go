package mathutil

import "math"

// SafeDivide returns numerator/denominator, or fallback when the denominator
// is zero or NaN.
func SafeDivide(numerator, denominator, fallback float64) float64 {
	if denominator == 0 || math.IsNaN(denominator) {
		return fallback
	}
	return numerator / denominator
}

// SafeDividePositive returns numerator/denominator, or fallback unless the
// denominator is strictly positive. Quantities, plant counts, hectares and
// cash inflows are only meaningful as divisors when positive.
func SafeDividePositive(numerator, denominator, fallback float64) float64 {
	if !(denominator > 0) {
		return fallback
	}
	return numerator / denominator
}

// SafeDivideOptional divides by an optional denominator, treating an absent
// value like a non-positive one.
func SafeDivideOptional(numerator float64, denominator *float64, fallback float64) float64 {
	if denominator == nil {
		return fallback
	}
	return SafeDividePositive(numerator, *denominator, fallback)
}
