package analysis

import (
	"math"

	"github.com/iwvelando/plantation-analytics/pkg/mathutil"
)

// InventoryInputs are the yearly parameters of an input (e.g. boxes, bags,
// fertilizer) that is ordered in batches.
type InventoryInputs struct {
	AnnualDemand float64 `json:"annualDemand" yaml:"annualDemand"`
	OrderingCost float64 `json:"orderingCost" yaml:"orderingCost"` // fixed cost per order
	HoldingCost  float64 `json:"holdingCost" yaml:"holdingCost"`   // per unit per year
}

// InventoryResult is the economic order quantity and its consequences.
type InventoryResult struct {
	OrderQuantity float64 `json:"orderQuantity" yaml:"orderQuantity"`
	OrdersPerYear float64 `json:"ordersPerYear" yaml:"ordersPerYear"`
	TotalCost     float64 `json:"totalCost" yaml:"totalCost"`
}

// EconomicOrderQuantity computes Q = √(2·D·S/H). A zero holding cost returns
// an all-zero result.
func EconomicOrderQuantity(in InventoryInputs) InventoryResult {
	if in.HoldingCost == 0 {
		return InventoryResult{}
	}

	quantity := math.Sqrt(2 * in.AnnualDemand * in.OrderingCost / in.HoldingCost)
	orders := mathutil.SafeDividePositive(in.AnnualDemand, quantity, 0)
	total := in.OrderingCost*orders + in.HoldingCost*quantity/2

	return InventoryResult{
		OrderQuantity: quantity,
		OrdersPerYear: orders,
		TotalCost:     total,
	}
}
