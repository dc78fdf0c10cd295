package analysis

import "github.com/iwvelando/plantation-analytics/pkg/mathutil"

// ActivityLog records one field activity of the cycle. Quantity is liters,
// sacks, bunches or boxes depending on the activity; WeightPerUnit is the
// kilograms per sack for fertilizer.
type ActivityLog struct {
	Date          string   `json:"date" yaml:"date"`
	Cost          float64  `json:"cost" yaml:"cost"`
	Quantity      *float64 `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	WeightPerUnit *float64 `json:"weightPerUnit,omitempty" yaml:"weightPerUnit,omitempty"`
}

// ProductionCostInputs is a growing cycle on a plot.
type ProductionCostInputs struct {
	Hectares         float64 `json:"hectares" yaml:"hectares"`
	PlantsPerHectare float64 `json:"plantsPerHectare" yaml:"plantsPerHectare"`
	BunchWeightKg    float64 `json:"bunchWeightKg" yaml:"bunchWeightKg"` // average per plant

	LandPreparation ActivityLog `json:"landPreparation" yaml:"landPreparation"`
	Planting        ActivityLog `json:"planting" yaml:"planting"`
	Insecticides    ActivityLog `json:"insecticides" yaml:"insecticides"` // liters
	Inspections     ActivityLog `json:"inspections" yaml:"inspections"`
	Fertilizers     ActivityLog `json:"fertilizers" yaml:"fertilizers"` // sacks, kg per sack
	Labor           ActivityLog `json:"labor" yaml:"labor"`
	Fungicides      ActivityLog `json:"fungicides" yaml:"fungicides"`         // liters
	Pruning         ActivityLog `json:"pruning" yaml:"pruning"`               // bunches
	Bagging         ActivityLog `json:"bagging" yaml:"bagging"`               // bunches
	HarvestPacking  ActivityLog `json:"harvestPacking" yaml:"harvestPacking"` // boxes
}

// CostCategory is one slice of the cost breakdown.
type CostCategory struct {
	Key   string  `json:"key" yaml:"key"`
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

// ProductionCostResult holds totals, unit costs and per-activity efficiency.
type ProductionCostResult struct {
	TotalCost         float64        `json:"totalCost" yaml:"totalCost"`
	TotalPlants       float64        `json:"totalPlants" yaml:"totalPlants"`
	TotalWeightKg     float64        `json:"totalWeightKg" yaml:"totalWeightKg"`
	CostPerBunch      float64        `json:"costPerBunch" yaml:"costPerBunch"`
	CostPerKg         float64        `json:"costPerKg" yaml:"costPerKg"`
	CostPerHectare    float64        `json:"costPerHectare" yaml:"costPerHectare"`
	CategoryBreakdown []CostCategory `json:"categoryBreakdown" yaml:"categoryBreakdown"`

	InsecticideCostPerLiter float64 `json:"insecticideCostPerLiter" yaml:"insecticideCostPerLiter"`
	FertilizerCostPerSack   float64 `json:"fertilizerCostPerSack" yaml:"fertilizerCostPerSack"`
	FertilizerCostPerKg     float64 `json:"fertilizerCostPerKg" yaml:"fertilizerCostPerKg"`
	FungicideCostPerLiter   float64 `json:"fungicideCostPerLiter" yaml:"fungicideCostPerLiter"`
	PruningCostPerBunch     float64 `json:"pruningCostPerBunch" yaml:"pruningCostPerBunch"`
	BaggingCostPerBunch     float64 `json:"baggingCostPerBunch" yaml:"baggingCostPerBunch"`
	PackingCostPerBox       float64 `json:"packingCostPerBox" yaml:"packingCostPerBox"`
}

// NamedActivity pairs an activity log with its breakdown key and label.
type NamedActivity struct {
	Key  string
	Name string
	Log  ActivityLog
}

// Activities returns the ten activity logs in cycle order.
func (in ProductionCostInputs) Activities() []NamedActivity {
	return []NamedActivity{
		{"landPreparation", "Land preparation", in.LandPreparation},
		{"planting", "Planting", in.Planting},
		{"insecticides", "Insecticides", in.Insecticides},
		{"inspections", "Inspections", in.Inspections},
		{"fertilizers", "Fertilizers", in.Fertilizers},
		{"labor", "Labor", in.Labor},
		{"fungicides", "Fungicides", in.Fungicides},
		{"pruning", "Pruning", in.Pruning},
		{"bagging", "Bagging", in.Bagging},
		{"harvestPacking", "Harvest and packing", in.HarvestPacking},
	}
}

// UnitCost is the activity cost per unit of its quantity, zero when the
// quantity is absent or not positive.
func (a ActivityLog) UnitCost() float64 {
	return mathutil.SafeDivideOptional(a.Cost, a.Quantity, 0)
}

// CostPerKg is the activity cost per kilogram applied (quantity·weightPerUnit),
// zero when either is absent or the product is not positive.
func (a ActivityLog) CostPerKg() float64 {
	if a.Quantity == nil || a.WeightPerUnit == nil {
		return 0
	}
	kg := *a.Quantity * *a.WeightPerUnit
	return mathutil.SafeDividePositive(a.Cost, kg, 0)
}

// AllocateProductionCost sums the activity costs of a cycle and spreads them
// over plants, estimated harvest weight and hectares.
func AllocateProductionCost(in ProductionCostInputs) ProductionCostResult {
	activities := in.Activities()

	total := 0.0
	breakdown := make([]CostCategory, 0, len(activities))
	for _, activity := range activities {
		total += activity.Log.Cost
		if activity.Log.Cost > 0 {
			breakdown = append(breakdown, CostCategory{
				Key:   activity.Key,
				Name:  activity.Name,
				Value: activity.Log.Cost,
			})
		}
	}

	plants := in.Hectares * in.PlantsPerHectare
	weight := plants * in.BunchWeightKg

	return ProductionCostResult{
		TotalCost:         total,
		TotalPlants:       plants,
		TotalWeightKg:     weight,
		CostPerBunch:      mathutil.SafeDividePositive(total, plants, 0),
		CostPerKg:         mathutil.SafeDividePositive(total, weight, 0),
		CostPerHectare:    mathutil.SafeDividePositive(total, in.Hectares, 0),
		CategoryBreakdown: breakdown,

		InsecticideCostPerLiter: in.Insecticides.UnitCost(),
		FertilizerCostPerSack:   in.Fertilizers.UnitCost(),
		FertilizerCostPerKg:     in.Fertilizers.CostPerKg(),
		FungicideCostPerLiter:   in.Fungicides.UnitCost(),
		PruningCostPerBunch:     in.Pruning.UnitCost(),
		BaggingCostPerBunch:     in.Bagging.UnitCost(),
		PackingCostPerBox:       in.HarvestPacking.UnitCost(),
	}
}
