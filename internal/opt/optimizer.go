// Package opt implements the optimization strategies that reposition and
// open/close hubs to minimize total network cost.
package opt

// PassCost is one entry in the diagnostic cost log: the total cost at the
// end of a pass (or generation).
type PassCost struct {
	Pass int     `json:"pass"`
	Cost float64 `json:"cost"`
}

// Result summarizes a completed optimization run.
type Result struct {
	Algorithm      string     `json:"algorithm"`
	InitialCost    float64    `json:"initialCost"`
	FinalCost      float64    `json:"finalCost"`
	Improvement    float64    `json:"improvement"`
	ImprovementPct float64    `json:"improvementPct"`
	Passes         int        `json:"passes"`
	PassLog        []PassCost `json:"passLog,omitempty"`
}

// Optimizer is the contract every strategy satisfies. Optimize mutates the
// network handed to the strategy at construction and reports the outcome;
// InitialCost and FinalCost are valid after Optimize returns, so improvement
// reporting is uniform across strategies.
type Optimizer interface {
	Optimize() (Result, error)
	InitialCost() float64
	FinalCost() float64
}

func finishResult(r *Result) {
	r.Improvement = r.InitialCost - r.FinalCost
	if r.InitialCost > 0 {
		r.ImprovementPct = r.Improvement / r.InitialCost * 100
	}
}
