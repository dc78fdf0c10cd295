package analysis

import (
	"math"

	"github.com/iwvelando/plantation-analytics/pkg/constants"
	"github.com/iwvelando/plantation-analytics/pkg/mathutil"
)

// LeverageInputs parameterizes the debt sweep.
type LeverageInputs struct {
	OperatingIncome float64 `json:"operatingIncome" yaml:"operatingIncome"` // EBIT
	InterestRate    float64 `json:"interestRate" yaml:"interestRate"`       // percent
	MaxDebt         float64 `json:"maxDebt" yaml:"maxDebt"`
	StepSize        float64 `json:"stepSize" yaml:"stepSize"`
}

// LeveragePoint is one sampled debt level.
type LeveragePoint struct {
	Debt      float64 `json:"debt" yaml:"debt"`
	Interest  float64 `json:"interest" yaml:"interest"`
	NetIncome float64 `json:"netIncome" yaml:"netIncome"`
	ROE       float64 `json:"roe" yaml:"roe"` // percent
}

// LeverageResult is the sweep outcome with every evaluated point.
type LeverageResult struct {
	OptimalDebt float64         `json:"optimalDebt" yaml:"optimalDebt"`
	MaxROE      float64         `json:"maxROE" yaml:"maxROE"`
	Points      []LeveragePoint `json:"points" yaml:"points"`
}

// ExceedsPointLimit reports whether the sweep would need more than
// constants.MaxLeveragePoints debt levels. The ratio is checked as a float so
// huge or infinite ceilings never reach an int conversion.
func (in LeverageInputs) ExceedsPointLimit() bool {
	if in.MaxDebt < 0 || math.IsNaN(in.MaxDebt) || !(in.StepSize > 0) {
		return false
	}
	return !(math.Floor(in.MaxDebt/in.StepSize) < constants.MaxLeveragePoints)
}

// sweepSize is the number of debt levels 0, step, 2·step, ... ≤ maxDebt, or
// zero when that count exceeds the point limit.
func (in LeverageInputs) sweepSize() int {
	if in.MaxDebt < 0 || math.IsNaN(in.MaxDebt) {
		return 0
	}
	if !(in.StepSize > 0) {
		return 1
	}
	if in.ExceedsPointLimit() {
		return 0
	}
	return int(math.Floor(in.MaxDebt/in.StepSize)) + 1
}

// Evaluate computes a single point at the given debt level. Capital is
// approximated as operatingIncome − debt; ROE is zero whenever that proxy is
// not positive.
func (in LeverageInputs) Evaluate(debt float64) LeveragePoint {
	interest := debt * mathutil.PercentToRate(in.InterestRate)
	netIncome := in.OperatingIncome - interest
	capital := in.OperatingIncome - debt
	return LeveragePoint{
		Debt:      debt,
		Interest:  interest,
		NetIncome: netIncome,
		ROE:       mathutil.RateToPercent(mathutil.SafeDividePositive(netIncome, capital, 0)),
	}
}

// SweepLeverage evaluates ROE from zero debt up to MaxDebt in StepSize
// increments and returns the debt level with the highest ROE. Equal ROE keeps
// the lowest debt. A non-positive step evaluates only zero debt. A sweep past
// the point limit evaluates nothing and reports a zero optimum.
func SweepLeverage(in LeverageInputs) LeverageResult {
	n := in.sweepSize()
	result := LeverageResult{Points: make([]LeveragePoint, 0, n)}
	for i := 0; i < n; i++ {
		debt := 0.0
		if i > 0 {
			debt = float64(i) * in.StepSize
		}
		point := in.Evaluate(debt)
		if i == 0 || point.ROE > result.MaxROE {
			result.MaxROE = point.ROE
			result.OptimalDebt = point.Debt
		}
		result.Points = append(result.Points, point)
	}
	return result
}
