package opt

import (
	"errors"

	"hubnet/internal/cost"
	"hubnet/internal/network"
)

// CoordinateConfig bounds the coordinate-descent search. Zero fields take
// the defaults noted below. Because zero means "default", a literal zero for
// Tolerance (accept any improvement) or Epsilon (exclude nothing) is spelled
// as a negative value.
type CoordinateConfig struct {
	MaxPasses int     // full reposition sweeps in phase 1 (default 100)
	Tolerance float64 // minimum per-pass improvement to keep going (default 0.01, negative selects 0)
	GridStep  float64 // candidate grid spacing (default 5)
	Epsilon   float64 // exclusion radius around demand points (default 0.1, negative selects 0)
}

func (c CoordinateConfig) withDefaults() CoordinateConfig {
	if c.MaxPasses <= 0 {
		c.MaxPasses = 100
	}
	if c.Tolerance < 0 {
		c.Tolerance = 0
	} else if c.Tolerance == 0 {
		c.Tolerance = 0.01
	}
	if c.GridStep <= 0 {
		c.GridStep = 5
	}
	if c.Epsilon < 0 {
		c.Epsilon = 0
	} else if c.Epsilon == 0 {
		c.Epsilon = 0.1
	}
	return c
}

// CoordinateOptimizer runs a two-phase local search: discrete position
// refinement over a candidate grid, then a single hub-deactivation sweep.
// Every trial move re-runs the full assignment and re-evaluates the whole
// network; correctness over speed.
type CoordinateOptimizer struct {
	net  *network.Network
	calc cost.Calculator
	cfg  CoordinateConfig

	// OnPass, when set, is called after each completed phase-1 pass.
	OnPass func(PassCost)

	initial float64
	final   float64
}

// NewCoordinate builds a coordinate optimizer over net. Zero config fields
// take the documented defaults.
func NewCoordinate(net *network.Network, calc cost.Calculator, cfg CoordinateConfig) *CoordinateOptimizer {
	return &CoordinateOptimizer{net: net, calc: calc, cfg: cfg.withDefaults()}
}

func (o *CoordinateOptimizer) InitialCost() float64 { return o.initial }
func (o *CoordinateOptimizer) FinalCost() float64   { return o.final }

// Optimize runs both phases and leaves the network in its best found state.
// It never commits a configuration worse than the one it started from.
func (o *CoordinateOptimizer) Optimize() (Result, error) {
	n := o.net
	if err := n.Validate(); err != nil {
		return Result{}, err
	}
	if err := n.Reassign(); err != nil {
		return Result{}, err
	}

	candidates := candidateLocations(n, o.cfg.GridStep, o.cfg.Epsilon)
	if len(candidates) == 0 {
		return Result{}, errors.New("empty candidate location set")
	}

	o.initial = o.calc.Total(n)
	current := o.initial

	res := Result{Algorithm: "coordinate", InitialCost: o.initial}

	// Phase 1: reposition each active hub over the candidate grid, hubs in
	// slice order, committing the best location before moving to the next
	// hub. Converges when a full pass improves less than Tolerance.
	for pass := 1; pass <= o.cfg.MaxPasses; pass++ {
		passStart := current

		for i := range n.Hubs {
			h := &n.Hubs[i]
			if !h.Active {
				continue
			}
			best, err := o.refineHub(h, candidates, current)
			if err != nil {
				return Result{}, err
			}
			current = best
		}

		res.Passes = pass
		res.PassLog = append(res.PassLog, PassCost{Pass: pass, Cost: current})
		if o.OnPass != nil {
			o.OnPass(PassCost{Pass: pass, Cost: current})
		}
		if passStart-current < o.cfg.Tolerance {
			break
		}
	}

	// Phase 2: one deactivation sweep over the hubs still active. A trial
	// that fails to improve (or would close the last hub) is rolled back.
	for i := range n.Hubs {
		h := &n.Hubs[i]
		if !h.Active {
			continue
		}
		trial, err := o.tryDeactivate(h, current)
		if err != nil {
			return Result{}, err
		}
		current = trial
	}

	o.final = current
	res.FinalCost = current
	finishResult(&res)
	return res, nil
}

// refineHub scans every candidate location for one hub. Best starts at the
// hub's own position and cost, so "nothing improves" commits the status quo.
func (o *CoordinateOptimizer) refineHub(h *network.Hub, candidates []network.Point, current float64) (float64, error) {
	orig := h.Point
	bestLoc := orig
	bestCost := current

	for _, loc := range candidates {
		if loc == orig {
			continue
		}
		h.Point = loc
		if err := o.net.Reassign(); err != nil {
			h.Point = orig
			_ = o.net.Reassign()
			return 0, err
		}
		if c := o.calc.Total(o.net); c < bestCost {
			bestCost = c
			bestLoc = loc
		}
	}

	h.Point = bestLoc
	if err := o.net.Reassign(); err != nil {
		return 0, err
	}
	return bestCost, nil
}

// tryDeactivate closes one hub and keeps the closure only if total cost
// drops. ErrLastActiveHub is recovered by skipping the trial.
func (o *CoordinateOptimizer) tryDeactivate(h *network.Hub, current float64) (float64, error) {
	if err := o.net.DeactivateHub(h.ID); err != nil {
		if errors.Is(err, network.ErrLastActiveHub) {
			return current, nil
		}
		return 0, err
	}
	if err := o.net.Reassign(); err != nil {
		h.Active = true
		_ = o.net.Reassign()
		return 0, err
	}
	trial := o.calc.Total(o.net)
	if trial < current {
		return trial, nil
	}
	h.Active = true
	if err := o.net.Reassign(); err != nil {
		return 0, err
	}
	return current, nil
}

// candidateLocations lays a regular grid over the bounding box of the demand
// points, drops any grid point within eps of a demand point, and appends the
// source coordinates. The walk order (x outer, y inner, sources last) is
// fixed so runs replay bit-for-bit.
func candidateLocations(n *network.Network, step, eps float64) []network.Point {
	minX, maxX := n.Demands[0].X, n.Demands[0].X
	minY, maxY := n.Demands[0].Y, n.Demands[0].Y
	for i := range n.Demands {
		d := &n.Demands[i]
		if d.X < minX {
			minX = d.X
		}
		if d.X > maxX {
			maxX = d.X
		}
		if d.Y < minY {
			minY = d.Y
		}
		if d.Y > maxY {
			maxY = d.Y
		}
	}

	var out []network.Point
	for x := minX; x <= maxX+1e-9; x += step {
		for y := minY; y <= maxY+1e-9; y += step {
			p := network.Point{X: x, Y: y}
			if nearAnyDemand(n, p, eps) {
				continue
			}
			out = append(out, p)
		}
	}
	for _, s := range n.Sources {
		if !containsPoint(out, s.Point) {
			out = append(out, s.Point)
		}
	}
	return out
}

func nearAnyDemand(n *network.Network, p network.Point, eps float64) bool {
	for i := range n.Demands {
		d := &n.Demands[i]
		if d.X-eps < p.X && p.X < d.X+eps && d.Y-eps < p.Y && p.Y < d.Y+eps {
			return true
		}
	}
	return false
}

func containsPoint(pts []network.Point, p network.Point) bool {
	for _, q := range pts {
		if q == p {
			return true
		}
	}
	return false
}
