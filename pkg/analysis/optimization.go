package analysis

import (
	"math"

	"github.com/iwvelando/plantation-analytics/pkg/constants"
)

// OptimizationInputs describes the two-market allocation problem: boxes sold
// for export (priced in foreign currency) versus the national market.
type OptimizationInputs struct {
	ExportPrice   float64 `json:"exportPrice" yaml:"exportPrice"`     // foreign currency per box
	NationalPrice float64 `json:"nationalPrice" yaml:"nationalPrice"` // local currency per box
	ExchangeRate  float64 `json:"exchangeRate" yaml:"exchangeRate"`
	Capacity      float64 `json:"capacity" yaml:"capacity"` // total boxes
	MinNational   float64 `json:"minNational" yaml:"minNational"`
	LaborExport   float64 `json:"laborExport" yaml:"laborExport"`     // hours per export box
	LaborNational float64 `json:"laborNational" yaml:"laborNational"` // hours per national box
	MaxLaborHours float64 `json:"maxLaborHours" yaml:"maxLaborHours"`
}

// OptimizationResult is the chosen allocation. When Feasible is false every
// other field is zero.
type OptimizationResult struct {
	ExportUnits   int64   `json:"exportUnits" yaml:"exportUnits"`
	NationalUnits int64   `json:"nationalUnits" yaml:"nationalUnits"`
	MaxProfit     float64 `json:"maxProfit" yaml:"maxProfit"`
	Feasible      bool    `json:"feasible" yaml:"feasible"`
}

type vertex struct {
	name     string
	export   float64
	national float64
}

// candidateVertices lists the corner points of the feasible region in a fixed
// order. Intersections that would divide by zero are omitted.
func (in OptimizationInputs) candidateVertices() []vertex {
	vertices := make([]vertex, 0, 6)

	vertices = append(vertices, vertex{
		name:     "capacity∩minNational",
		export:   in.Capacity - in.MinNational,
		national: in.MinNational,
	})

	if in.LaborExport != 0 {
		vertices = append(vertices, vertex{
			name:     "minNational∩labor",
			export:   (in.MaxLaborHours - in.LaborNational*in.MinNational) / in.LaborExport,
			national: in.MinNational,
		})
	}

	// Equal labor coefficients make the capacity and labor lines parallel.
	if in.LaborExport != in.LaborNational {
		x := (in.MaxLaborHours - in.LaborNational*in.Capacity) / (in.LaborExport - in.LaborNational)
		vertices = append(vertices, vertex{
			name:     "capacity∩labor",
			export:   x,
			national: in.Capacity - x,
		})
	}

	vertices = append(vertices, vertex{name: "axis∩minNational", national: in.MinNational})

	if in.LaborNational != 0 {
		vertices = append(vertices, vertex{name: "axis∩labor", national: in.MaxLaborHours / in.LaborNational})
	}

	vertices = append(vertices, vertex{name: "axis∩capacity", national: in.Capacity})

	return vertices
}

// feasible reports whether v satisfies every constraint within
// constants.FeasibilityTolerance.
func (in OptimizationInputs) feasible(v vertex) bool {
	x, y := v.export, v.national
	if math.IsNaN(x) || math.IsNaN(y) {
		return false
	}
	if x < 0 || y < 0 {
		return false
	}
	tol := constants.FeasibilityTolerance
	if x+y > in.Capacity+tol {
		return false
	}
	if y < in.MinNational-tol {
		return false
	}
	if in.LaborExport*x+in.LaborNational*y > in.MaxLaborHours+tol {
		return false
	}
	return true
}

func (in OptimizationInputs) profit(v vertex) float64 {
	return v.export*in.ExportPrice*in.ExchangeRate + v.national*in.NationalPrice
}

// OptimizeMix solves the two-variable linear program
//
//	max  export·exportPrice·exchangeRate + national·nationalPrice
//	s.t. export + national ≤ capacity
//	     national ≥ minNational
//	     laborExport·export + laborNational·national ≤ maxLaborHours
//	     export, national ≥ 0
//
// by enumerating the corner points of the feasible region. Ties keep the
// first vertex in enumeration order. Units are floored only after the
// optimum is chosen; MaxProfit is the objective at the unfloored vertex.
func OptimizeMix(in OptimizationInputs) OptimizationResult {
	var (
		best      vertex
		bestValue float64
		found     bool
	)
	for _, v := range in.candidateVertices() {
		if !in.feasible(v) {
			continue
		}
		value := in.profit(v)
		if !found || value > bestValue {
			best, bestValue, found = v, value, true
		}
	}

	if !found {
		return OptimizationResult{}
	}

	return OptimizationResult{
		ExportUnits:   int64(math.Floor(best.export)),
		NationalUnits: int64(math.Floor(best.national)),
		MaxProfit:     bestValue,
		Feasible:      true,
	}
}
