package analysis

import (
	"math"

	"github.com/iwvelando/plantation-analytics/pkg/constants"
	"github.com/iwvelando/plantation-analytics/pkg/mathutil"
)

// FinancialInputs describes a project with a single outlay followed by a
// flat yearly inflow.
type FinancialInputs struct {
	InitialInvestment float64 `json:"initialInvestment" yaml:"initialInvestment"`
	AnnualCashFlow    float64 `json:"annualCashFlow" yaml:"annualCashFlow"`
	ProjectLife       int     `json:"projectLife" yaml:"projectLife"`   // years
	DiscountRate      float64 `json:"discountRate" yaml:"discountRate"` // percent
}

// FinancialResult holds the project evaluation. IRR is in percent and
// Payback in years.
type FinancialResult struct {
	NPV       float64   `json:"npv" yaml:"npv"`
	IRR       float64   `json:"irr" yaml:"irr"`
	Payback   float64   `json:"payback" yaml:"payback"`
	CashFlows []float64 `json:"cashFlows" yaml:"cashFlows"`
}

// CashFlows returns the flow sequence: year 0 is the negative investment,
// years 1..ProjectLife the flat inflow.
func (in FinancialInputs) CashFlows() []float64 {
	years := in.ProjectLife
	if years < 0 {
		years = 0
	}
	flows := make([]float64, 0, years+1)
	flows = append(flows, -in.InitialInvestment)
	for t := 1; t <= years; t++ {
		flows = append(flows, in.AnnualCashFlow)
	}
	return flows
}

// NetPresentValue discounts the project's flows at rate (a fraction, not a
// percentage).
func (in FinancialInputs) NetPresentValue(rate float64) float64 {
	npv := -in.InitialInvestment
	for t := 1; t <= in.ProjectLife; t++ {
		npv += in.AnnualCashFlow / math.Pow(1+rate, float64(t))
	}
	return npv
}

// npvDerivative is d(NPV)/d(rate).
func (in FinancialInputs) npvDerivative(rate float64) float64 {
	derivative := 0.0
	for t := 1; t <= in.ProjectLife; t++ {
		term := math.Pow(1+rate, float64(t))
		derivative -= float64(t) * in.AnnualCashFlow / (term * (1 + rate))
	}
	return derivative
}

// InternalRateOfReturn solves NPV(rate) = 0 with the bounded Newton solver
// starting at 10%. The result is in percent. For flows that never cross zero
// the value is whatever the last iteration produced.
func (in FinancialInputs) InternalRateOfReturn() mathutil.NewtonResult {
	return mathutil.NewtonSolve(
		in.NetPresentValue,
		in.npvDerivative,
		constants.IRRInitialGuess,
		constants.IRRMaxIterations,
		constants.IRRTolerance,
	)
}

// EvaluateProject computes NPV, IRR, simple payback and the cash-flow
// sequence. Payback is zero when the inflow is not positive.
func EvaluateProject(in FinancialInputs) FinancialResult {
	result, _ := EvaluateProjectWithSolver(in)
	return result
}

// EvaluateProjectWithSolver is EvaluateProject that also returns the IRR
// solver outcome, so callers can check convergence without solving twice.
func EvaluateProjectWithSolver(in FinancialInputs) (FinancialResult, mathutil.NewtonResult) {
	irr := in.InternalRateOfReturn()
	return FinancialResult{
		NPV:       in.NetPresentValue(mathutil.PercentToRate(in.DiscountRate)),
		IRR:       mathutil.RateToPercent(irr.Root),
		Payback:   mathutil.SafeDividePositive(in.InitialInvestment, in.AnnualCashFlow, 0),
		CashFlows: in.CashFlows(),
	}, irr
}
