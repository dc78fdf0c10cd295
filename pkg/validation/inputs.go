package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/plantation-analytics/pkg/analysis"
	"github.com/iwvelando/plantation-analytics/pkg/constants"
	"github.com/iwvelando/plantation-analytics/pkg/datetime"
)

// The calculators accept any numeric input and fall back to zero on
// degenerate denominators. The checks below surface the inputs most likely to
// be typing mistakes so callers can tell a legitimate zero from a
// degenerate one. They never block evaluation.

// OptimizationWarnings flags mix inputs that make the problem degenerate.
func OptimizationWarnings(label string, in analysis.OptimizationInputs) []string {
	var warnings []string
	if in.Capacity <= 0 {
		warnings = append(warnings, fmt.Sprintf("%s: capacity %.2f is not positive, no allocation is feasible", label, in.Capacity))
	}
	if in.MinNational > in.Capacity {
		warnings = append(warnings, fmt.Sprintf("%s: minimum national %.2f exceeds capacity %.2f", label, in.MinNational, in.Capacity))
	}
	if in.MaxLaborHours <= 0 {
		warnings = append(warnings, fmt.Sprintf("%s: maximum labor hours %.2f is not positive", label, in.MaxLaborHours))
	}
	if in.LaborExport == 0 && in.LaborNational == 0 {
		warnings = append(warnings, fmt.Sprintf("%s: both labor coefficients are zero, labor does not constrain the mix", label))
	}
	if in.ExchangeRate <= 0 {
		warnings = append(warnings, fmt.Sprintf("%s: exchange rate %.4f is not positive", label, in.ExchangeRate))
	}
	return warnings
}

// InventoryWarnings flags EOQ inputs that produce a degenerate zero result.
func InventoryWarnings(label string, in analysis.InventoryInputs) []string {
	var warnings []string
	if in.HoldingCost == 0 {
		warnings = append(warnings, fmt.Sprintf("%s: holding cost is zero, order quantity will be reported as 0", label))
	}
	if in.HoldingCost < 0 || in.AnnualDemand < 0 || in.OrderingCost < 0 {
		warnings = append(warnings, fmt.Sprintf("%s: negative demand or cost inputs have no economic order quantity", label))
	}
	return warnings
}

// FinancialWarnings flags project inputs for which IRR or payback are not
// meaningful.
func FinancialWarnings(label string, in analysis.FinancialInputs) []string {
	var warnings []string
	if in.ProjectLife <= 0 {
		warnings = append(warnings, fmt.Sprintf("%s: project life %d has no inflow years", label, in.ProjectLife))
	}
	if in.AnnualCashFlow <= 0 {
		warnings = append(warnings, fmt.Sprintf("%s: annual cash flow is not positive, payback reported as 0 and IRR is not meaningful", label))
	}
	if in.InitialInvestment <= 0 {
		warnings = append(warnings, fmt.Sprintf("%s: initial investment is not positive, IRR is not meaningful", label))
	}
	return warnings
}

// LeverageWarnings flags sweep parameters that collapse the sweep.
func LeverageWarnings(label string, in analysis.LeverageInputs) []string {
	var warnings []string
	if in.StepSize <= 0 {
		warnings = append(warnings, fmt.Sprintf("%s: step size %.2f is not positive, only zero debt is evaluated", label, in.StepSize))
	}
	if in.MaxDebt < 0 {
		warnings = append(warnings, fmt.Sprintf("%s: maximum debt %.2f is negative, nothing is evaluated", label, in.MaxDebt))
	}
	if in.ExceedsPointLimit() {
		warnings = append(warnings, fmt.Sprintf("%s: sweep would evaluate more than %d debt levels, nothing is evaluated", label, constants.MaxLeveragePoints))
	}
	if in.MaxDebt >= in.OperatingIncome && in.OperatingIncome > 0 {
		warnings = append(warnings, fmt.Sprintf("%s: debt levels at or above operating income report ROE 0", label))
	}
	return warnings
}

// RiskWarnings flags a missing base exchange rate.
func RiskWarnings(label string, in analysis.RiskInputs) []string {
	if in.BaseExchangeRate <= 0 {
		return []string{fmt.Sprintf("%s: base exchange rate %.4f is not positive", label, in.BaseExchangeRate)}
	}
	return nil
}

// ProductionCostWarnings flags plot parameters that zero the unit costs.
func ProductionCostWarnings(label string, in analysis.ProductionCostInputs) []string {
	var warnings []string
	if in.Hectares <= 0 || in.PlantsPerHectare <= 0 {
		warnings = append(warnings, fmt.Sprintf("%s: no plants on the plot, per-bunch and per-kilogram costs reported as 0", label))
	}
	if in.BunchWeightKg <= 0 {
		warnings = append(warnings, fmt.Sprintf("%s: bunch weight is not positive, per-kilogram cost reported as 0", label))
	}
	if in.Fertilizers.Quantity != nil && in.Fertilizers.WeightPerUnit == nil {
		warnings = append(warnings, fmt.Sprintf("%s: fertilizer sacks have no weight per unit, cost per kilogram reported as 0", label))
	}
	return append(warnings, ActivityDateWarnings(label, in)...)
}

// ActivityDateWarnings flags malformed activity dates and activities logged
// before land preparation. Undated activities are ignored.
func ActivityDateWarnings(label string, in analysis.ProductionCostInputs) []string {
	var warnings []string
	start := strings.TrimSpace(in.LandPreparation.Date)
	if start != "" {
		if _, err := datetime.ParseDate(start); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", label, err))
			start = ""
		}
	}

	for _, activity := range in.Activities() {
		date := strings.TrimSpace(activity.Log.Date)
		if date == "" || activity.Key == "landPreparation" {
			continue
		}
		if _, err := datetime.ParseDate(date); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %s: %v", label, activity.Name, err))
			continue
		}
		if start == "" {
			continue
		}
		if days, _ := datetime.DaysBetween(start, date); days < 0 {
			warnings = append(warnings, fmt.Sprintf("%s: %s on %s is dated %d days before land preparation on %s", label, activity.Name, date, -days, start))
		}
	}
	return warnings
}
