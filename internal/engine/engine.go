// Package engine runs configured scenarios through the calculators and
// assembles per-scenario reports.
package engine

import (
	"fmt"
	"math"

	"github.com/iwvelando/plantation-analytics/internal/config"
	"github.com/iwvelando/plantation-analytics/pkg/analysis"
	"github.com/iwvelando/plantation-analytics/pkg/mathutil"
	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
)

// Report holds every module result for one scenario. Modules without inputs
// are nil.
type Report struct {
	Scenario       string                         `json:"scenario" yaml:"scenario"`
	Optimization   *analysis.OptimizationResult   `json:"optimization,omitempty" yaml:"optimization,omitempty"`
	Inventory      *analysis.InventoryResult      `json:"inventory,omitempty" yaml:"inventory,omitempty"`
	Financial      *FinancialReport               `json:"financial,omitempty" yaml:"financial,omitempty"`
	Leverage       *analysis.LeverageResult       `json:"leverage,omitempty" yaml:"leverage,omitempty"`
	Risk           *RiskReport                    `json:"risk,omitempty" yaml:"risk,omitempty"`
	ProductionCost *analysis.ProductionCostResult `json:"productionCost,omitempty" yaml:"productionCost,omitempty"`
}

// FinancialReport adds viability flags to the project evaluation.
type FinancialReport struct {
	analysis.FinancialResult `yaml:",inline"`
	Viable                   bool `json:"viable" yaml:"viable"`
	BeatsDiscountRate        bool `json:"beatsDiscountRate" yaml:"beatsDiscountRate"`
	IRRConverged             bool `json:"irrConverged" yaml:"irrConverged"`
	IRRIterations            int  `json:"irrIterations" yaml:"irrIterations"`
}

// RiskReport is the exchange-rate sensitivity curve with its summary.
type RiskReport struct {
	Points        []analysis.RiskPoint `json:"points" yaml:"points"`
	BreakEvenRate float64              `json:"breakEvenRate" yaml:"breakEvenRate"`
	SafetyMargin  float64              `json:"safetyMargin" yaml:"safetyMargin"` // percent of the base rate above break-even
	MinProfit     float64              `json:"minProfit" yaml:"minProfit"`
	MaxProfit     float64              `json:"maxProfit" yaml:"maxProfit"`
	MeanProfit    float64              `json:"meanProfit" yaml:"meanProfit"`
	ProfitStdDev  float64              `json:"profitStdDev" yaml:"profitStdDev"`
}

// Evaluate produces a Report for every active scenario, in file order.
func Evaluate(logger *zap.Logger, conf config.Configuration) ([]Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var reports []Report
	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "engine.Evaluate"),
			)
			continue
		}

		report, err := EvaluateScenario(logger, scenario)
		if err != nil {
			return reports, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		reports = append(reports, report)
	}

	return reports, nil
}

// EvaluateScenario runs every module present in scenario.
func EvaluateScenario(logger *zap.Logger, scenario config.Scenario) (Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	report := Report{Scenario: scenario.Name}

	if in := scenario.Optimization; in != nil {
		result := analysis.OptimizeMix(*in)
		if !result.Feasible {
			logger.Warn(fmt.Sprintf("scenario %s: no feasible export/national mix", scenario.Name),
				zap.String("op", "engine.EvaluateScenario"),
			)
		}
		report.Optimization = &result
	}

	if in := scenario.Inventory; in != nil {
		result := analysis.EconomicOrderQuantity(*in)
		report.Inventory = &result
	}

	if in := scenario.Financial; in != nil {
		report.Financial = EvaluateFinancial(logger, scenario.Name, *in)
	}

	if in := scenario.Leverage; in != nil {
		result := analysis.SweepLeverage(*in)
		report.Leverage = &result
	}

	if in := scenario.Risk; in != nil {
		risk, err := SummarizeRisk(*in)
		if err != nil {
			return report, err
		}
		report.Risk = risk
	}

	if in := scenario.ProductionCost; in != nil {
		result := analysis.AllocateProductionCost(*in)
		report.ProductionCost = &result
	}

	logger.Debug(fmt.Sprintf("evaluated scenario %s", scenario.Name),
		zap.String("op", "engine.EvaluateScenario"),
		zap.Strings("modules", report.Modules()),
	)

	return report, nil
}

// EvaluateFinancial evaluates a project and flags whether its IRR can be
// trusted. A non-finite IRR is reported as 0 with IRRConverged false.
func EvaluateFinancial(logger *zap.Logger, name string, in analysis.FinancialInputs) *FinancialReport {
	if logger == nil {
		logger = zap.NewNop()
	}

	result, irr := analysis.EvaluateProjectWithSolver(in)
	if !irr.Converged {
		logger.Warn(fmt.Sprintf("scenario %s: IRR did not converge, reported value is not reliable", name),
			zap.String("op", "engine.EvaluateFinancial"),
			zap.Int("iterations", irr.Iterations),
			zap.Float64("irr", result.IRR),
		)
	}
	if math.IsNaN(result.IRR) || math.IsInf(result.IRR, 0) {
		result.IRR = 0
	}
	return &FinancialReport{
		FinancialResult:   result,
		Viable:            result.NPV > 0,
		BeatsDiscountRate: irr.Converged && result.IRR > in.DiscountRate,
		IRRConverged:      irr.Converged,
		IRRIterations:     irr.Iterations,
	}
}

// SummarizeRisk computes the sensitivity curve with its break-even rate and
// profit statistics.
func SummarizeRisk(in analysis.RiskInputs) (*RiskReport, error) {
	points := analysis.CurrencySensitivity(in)
	profits := make([]float64, len(points))
	for i, point := range points {
		profits[i] = point.Profit
	}

	minProfit, err := stats.Min(profits)
	if err != nil {
		return nil, fmt.Errorf("risk minimum: %w", err)
	}
	maxProfit, err := stats.Max(profits)
	if err != nil {
		return nil, fmt.Errorf("risk maximum: %w", err)
	}
	mean, err := stats.Mean(profits)
	if err != nil {
		return nil, fmt.Errorf("risk mean: %w", err)
	}
	stdev, err := stats.StandardDeviation(profits)
	if err != nil {
		return nil, fmt.Errorf("risk standard deviation: %w", err)
	}

	breakEven := mathutil.SafeDividePositive(in.FixedCosts, in.ExportVolume*in.UnitPrice, 0)
	return &RiskReport{
		Points:        points,
		BreakEvenRate: breakEven,
		SafetyMargin:  mathutil.RateToPercent(mathutil.SafeDivide(in.BaseExchangeRate-breakEven, in.BaseExchangeRate, 0)),
		MinProfit:     minProfit,
		MaxProfit:     maxProfit,
		MeanProfit:    mathutil.Round(mean),
		ProfitStdDev:  mathutil.Round(stdev),
	}, nil
}

// Modules lists the modules present in the report.
func (r Report) Modules() []string {
	var modules []string
	if r.Optimization != nil {
		modules = append(modules, "optimization")
	}
	if r.Inventory != nil {
		modules = append(modules, "inventory")
	}
	if r.Financial != nil {
		modules = append(modules, "financial")
	}
	if r.Leverage != nil {
		modules = append(modules, "leverage")
	}
	if r.Risk != nil {
		modules = append(modules, "risk")
	}
	if r.ProductionCost != nil {
		modules = append(modules, "productionCost")
	}
	return modules
}
