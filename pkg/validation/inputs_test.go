package validation

import (
	"strings"
	"testing"

	"github.com/iwvelando/plantation-analytics/pkg/analysis"
)

func TestOptimizationWarnings(t *testing.T) {
	tests := []struct {
		name          string
		inputs        analysis.OptimizationInputs
		expectWarning string
	}{
		{
			name:          "Minimum above capacity",
			inputs:        analysis.OptimizationInputs{Capacity: 100, MinNational: 200, MaxLaborHours: 10, LaborExport: 1, ExchangeRate: 20},
			expectWarning: "exceeds capacity",
		},
		{
			name:          "No labor coefficients",
			inputs:        analysis.OptimizationInputs{Capacity: 100, MinNational: 10, MaxLaborHours: 10, ExchangeRate: 20},
			expectWarning: "labor coefficients are zero",
		},
		{
			name:          "Missing exchange rate",
			inputs:        analysis.OptimizationInputs{Capacity: 100, MinNational: 10, MaxLaborHours: 10, LaborExport: 1},
			expectWarning: "exchange rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := OptimizationWarnings("mix", tt.inputs)
			if !containsWarning(warnings, tt.expectWarning) {
				t.Errorf("expected warning containing %q, got %v", tt.expectWarning, warnings)
			}
			for _, w := range warnings {
				if !strings.HasPrefix(w, "mix: ") {
					t.Errorf("warning %q missing label prefix", w)
				}
			}
		})
	}
}

func TestWarningsForSaneInputs(t *testing.T) {
	q := 200.0
	w := 50.0
	checks := map[string][]string{
		"optimization": OptimizationWarnings("x", analysis.OptimizationInputs{
			ExportPrice: 12, NationalPrice: 140, ExchangeRate: 20, Capacity: 27000,
			MinNational: 5000, LaborExport: 0.003, LaborNational: 0.002, MaxLaborHours: 70,
		}),
		"inventory": InventoryWarnings("x", analysis.InventoryInputs{AnnualDemand: 80000, OrderingCost: 2800, HoldingCost: 0.6}),
		"financial": FinancialWarnings("x", analysis.FinancialInputs{InitialInvestment: 5400000, AnnualCashFlow: 2100000, ProjectLife: 5, DiscountRate: 11}),
		"leverage":  LeverageWarnings("x", analysis.LeverageInputs{OperatingIncome: 6000000, InterestRate: 10, MaxDebt: 5000000, StepSize: 250000}),
		"risk":      RiskWarnings("x", analysis.RiskInputs{BaseExchangeRate: 20, ExportVolume: 22000, UnitPrice: 12, FixedCosts: 3000000}),
		"production": ProductionCostWarnings("x", analysis.ProductionCostInputs{
			Hectares: 10, PlantsPerHectare: 1850, BunchWeightKg: 25,
			Fertilizers: analysis.ActivityLog{Cost: 60000, Quantity: &q, WeightPerUnit: &w},
		}),
	}
	for module, warnings := range checks {
		if len(warnings) != 0 {
			t.Errorf("%s: expected no warnings, got %v", module, warnings)
		}
	}
}

func TestDegenerateInputWarnings(t *testing.T) {
	q := 40.0
	checks := map[string]struct {
		warnings []string
		contains string
	}{
		"inventory": {InventoryWarnings("x", analysis.InventoryInputs{AnnualDemand: 100, OrderingCost: 10}), "holding cost is zero"},
		"financial": {FinancialWarnings("x", analysis.FinancialInputs{InitialInvestment: 100, ProjectLife: 3}), "annual cash flow"},
		"leverage":  {LeverageWarnings("x", analysis.LeverageInputs{OperatingIncome: 100, MaxDebt: 50}), "step size"},
		"risk":      {RiskWarnings("x", analysis.RiskInputs{ExportVolume: 10}), "base exchange rate"},
		"production": {ProductionCostWarnings("x", analysis.ProductionCostInputs{
			Hectares: 1, PlantsPerHectare: 1, BunchWeightKg: 1,
			Fertilizers: analysis.ActivityLog{Quantity: &q},
		}), "weight per unit"},
	}
	for module, check := range checks {
		if !containsWarning(check.warnings, check.contains) {
			t.Errorf("%s: expected warning containing %q, got %v", module, check.contains, check.warnings)
		}
	}
}

func TestLeverageWarningsPointLimit(t *testing.T) {
	warnings := LeverageWarnings("x", analysis.LeverageInputs{OperatingIncome: 1e12, MaxDebt: 1e10, StepSize: 1})
	if !containsWarning(warnings, "more than 100000 debt levels") {
		t.Errorf("expected point limit warning, got %v", warnings)
	}

	warnings = LeverageWarnings("x", analysis.LeverageInputs{OperatingIncome: 1e12, MaxDebt: 99999, StepSize: 1})
	if containsWarning(warnings, "debt levels") {
		t.Errorf("expected no point limit warning at the limit, got %v", warnings)
	}
}

func containsWarning(warnings []string, fragment string) bool {
	for _, w := range warnings {
		if strings.Contains(w, fragment) {
			return true
		}
	}
	return false
}

func TestActivityDateWarnings(t *testing.T) {
	tests := []struct {
		name     string
		in       analysis.ProductionCostInputs
		contains []string
	}{
		{
			name: "InOrder",
			in: analysis.ProductionCostInputs{
				LandPreparation: analysis.ActivityLog{Date: "2024-01-15"},
				Planting:        analysis.ActivityLog{Date: "2024-02-01"},
				HarvestPacking:  analysis.ActivityLog{Date: "2024-09-01"},
			},
		},
		{
			name: "Undated",
			in:   analysis.ProductionCostInputs{Labor: analysis.ActivityLog{Cost: 100}},
		},
		{
			name: "Malformed",
			in: analysis.ProductionCostInputs{
				LandPreparation: analysis.ActivityLog{Date: "2024-01-15"},
				Pruning:         analysis.ActivityLog{Date: "06/01/2024"},
			},
			contains: []string{"Pruning: invalid activity date"},
		},
		{
			name: "BeforeLandPreparation",
			in: analysis.ProductionCostInputs{
				LandPreparation: analysis.ActivityLog{Date: "2024-03-01"},
				Planting:        analysis.ActivityLog{Date: "2024-02-01"},
			},
			contains: []string{"Planting on 2024-02-01 is dated 29 days before land preparation"},
		},
		{
			name: "MalformedStart",
			in: analysis.ProductionCostInputs{
				LandPreparation: analysis.ActivityLog{Date: "soon"},
				Planting:        analysis.ActivityLog{Date: "2024-02-01"},
			},
			contains: []string{`invalid activity date "soon"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := ActivityDateWarnings("x", tt.in)
			if len(warnings) != len(tt.contains) {
				t.Fatalf("expected %d warnings, got %v", len(tt.contains), warnings)
			}
			for _, fragment := range tt.contains {
				if !containsWarning(warnings, fragment) {
					t.Errorf("expected warning containing %q, got %v", fragment, warnings)
				}
			}
		})
	}
}
