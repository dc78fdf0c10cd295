package analysis

import (
	"github.com/iwvelando/plantation-analytics/pkg/constants"
	"github.com/iwvelando/plantation-analytics/pkg/mathutil"
)

// RiskInputs describes the export position exposed to the exchange rate.
type RiskInputs struct {
	BaseExchangeRate float64 `json:"baseExchangeRate" yaml:"baseExchangeRate"`
	ExportVolume     float64 `json:"exportVolume" yaml:"exportVolume"`
	UnitPrice        float64 `json:"unitPrice" yaml:"unitPrice"`   // foreign currency
	FixedCosts       float64 `json:"fixedCosts" yaml:"fixedCosts"` // local currency
}

// RiskPoint is one sample of the sensitivity curve.
type RiskPoint struct {
	Rate   float64 `json:"rate" yaml:"rate"`
	Profit float64 `json:"profit" yaml:"profit"`
}

// ProfitAt returns volume·price·rate − fixedCosts.
func (in RiskInputs) ProfitAt(rate float64) float64 {
	return in.ExportVolume*in.UnitPrice*rate - in.FixedCosts
}

// CurrencySensitivity samples profit at 21 evenly spaced exchange rates from
// 80% to 120% of the base rate. Rates are rounded to cents and profits to
// whole units; negative profits are reported as-is.
func CurrencySensitivity(in RiskInputs) []RiskPoint {
	low := in.BaseExchangeRate * (1 - constants.SensitivitySpan)
	high := in.BaseExchangeRate * (1 + constants.SensitivitySpan)
	step := (high - low) / constants.SensitivitySteps

	points := make([]RiskPoint, 0, constants.SensitivitySteps+1)
	for i := 0; i <= constants.SensitivitySteps; i++ {
		rate := low + float64(i)*step
		points = append(points, RiskPoint{
			Rate:   mathutil.RoundTo(rate, constants.SensitivityRatePlaces),
			Profit: mathutil.RoundTo(in.ProfitAt(rate), constants.SensitivityProfitPlaces),
		})
	}
	return points
}
