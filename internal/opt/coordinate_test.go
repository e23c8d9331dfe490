package opt

import (
	"reflect"
	"testing"

	"hubnet/internal/cost"
	"hubnet/internal/network"
)

func twoHubNetwork(t *testing.T) *network.Network {
	t.Helper()
	n := network.New(
		[]network.Source{{ID: 0, Point: network.Point{X: 0, Y: 0}}},
		[]network.Hub{
			{ID: 10, Point: network.Point{X: 10, Y: 10}, Upkeep: 100, ProcessingRate: 2},
			{ID: 11, Point: network.Point{X: 40, Y: 40}, Upkeep: 5000, ProcessingRate: 2},
		},
		[]network.DemandPoint{
			{ID: 1000, Point: network.Point{X: 10, Y: 0}, Demand: 5, AssignedHub: network.Unassigned},
			{ID: 1001, Point: network.Point{X: 0, Y: 10}, Demand: 5, AssignedHub: network.Unassigned},
			{ID: 1002, Point: network.Point{X: 45, Y: 45}, Demand: 8, AssignedHub: network.Unassigned},
		},
		1,
	)
	if err := n.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return n
}

func TestCandidateLocations(t *testing.T) {
	n := network.New(
		[]network.Source{{ID: 0, Point: network.Point{X: 50, Y: 50}}},
		[]network.Hub{{ID: 1, Point: network.Point{X: 3, Y: 3}}},
		[]network.DemandPoint{
			{ID: 100, Point: network.Point{X: 0, Y: 0}, Demand: 1, AssignedHub: network.Unassigned},
			{ID: 101, Point: network.Point{X: 10, Y: 10}, Demand: 1, AssignedHub: network.Unassigned},
		},
		1,
	)
	got := candidateLocations(n, 5, 0.1)

	// 3x3 grid over the demand bounding box minus the two demand points,
	// plus the source coordinates
	if len(got) != 8 {
		t.Fatalf("candidates: got %d, want 8: %v", len(got), got)
	}
	for _, p := range got[:len(got)-1] {
		if p == (network.Point{X: 0, Y: 0}) || p == (network.Point{X: 10, Y: 10}) {
			t.Fatalf("demand point location %v must be excluded", p)
		}
	}
	if got[len(got)-1] != (network.Point{X: 50, Y: 50}) {
		t.Fatalf("source must be the last candidate, got %v", got[len(got)-1])
	}
	// fixed walk order: x outer, y inner
	want := network.Point{X: 0, Y: 5}
	if got[0] != want {
		t.Fatalf("first candidate: got %v, want %v", got[0], want)
	}
}

func TestCandidateLocationsDedupesSource(t *testing.T) {
	n := network.New(
		[]network.Source{{ID: 0, Point: network.Point{X: 5, Y: 5}}},
		[]network.Hub{{ID: 1}},
		[]network.DemandPoint{
			{ID: 100, Point: network.Point{X: 0, Y: 0}, Demand: 1, AssignedHub: network.Unassigned},
			{ID: 101, Point: network.Point{X: 10, Y: 10}, Demand: 1, AssignedHub: network.Unassigned},
		},
		1,
	)
	got := candidateLocations(n, 5, 0.1)
	count := 0
	for _, p := range got {
		if p == (network.Point{X: 5, Y: 5}) {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("source coinciding with a grid point must appear once, got %d", count)
	}
}

func TestCoordinateNeverWorsens(t *testing.T) {
	n := twoHubNetwork(t)
	o := NewCoordinate(n, cost.NewCalculator(1), CoordinateConfig{})
	res, err := o.Optimize()
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if res.FinalCost > res.InitialCost {
		t.Fatalf("final %v > initial %v", res.FinalCost, res.InitialCost)
	}
	if res.Improvement != res.InitialCost-res.FinalCost {
		t.Fatalf("improvement mismatch: %v", res.Improvement)
	}
	if n.ActiveHubCount() < 1 {
		t.Fatal("at least one hub must stay active")
	}
	if res.Passes < 1 || res.Passes > 100 {
		t.Fatalf("passes out of range: %d", res.Passes)
	}
	if len(res.PassLog) != res.Passes {
		t.Fatalf("pass log length %d != passes %d", len(res.PassLog), res.Passes)
	}
}

func TestCoordinateClosesUneconomicHub(t *testing.T) {
	// hub 11 carries 5000 upkeep for 8 units of nearby demand; closing it
	// and serving everything from hub 10 is cheaper
	n := twoHubNetwork(t)
	o := NewCoordinate(n, cost.NewCalculator(1), CoordinateConfig{})
	if _, err := o.Optimize(); err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	h, err := n.HubByID(11)
	if err != nil {
		t.Fatalf("HubByID: %v", err)
	}
	if h.Active {
		t.Fatal("uneconomic hub should be deactivated in phase 2")
	}
	for _, d := range n.Demands {
		if d.AssignedHub == 11 {
			t.Fatalf("demand %d still assigned to closed hub", d.ID)
		}
	}
}

func TestCoordinateSingleDemandBoundary(t *testing.T) {
	// a single demand point collapses the grid to its own excluded
	// location, leaving only the source as candidate
	n := network.New(
		[]network.Source{{ID: 0, Point: network.Point{X: 0, Y: 0}}},
		[]network.Hub{{ID: 10, Point: network.Point{X: 100, Y: 100}, Upkeep: 10}},
		[]network.DemandPoint{{ID: 1000, Point: network.Point{X: 20, Y: 20}, Demand: 2, AssignedHub: network.Unassigned}},
		1,
	)
	if err := n.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	o := NewCoordinate(n, cost.NewCalculator(1), CoordinateConfig{})
	res, err := o.Optimize()
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	h, _ := n.HubByID(10)
	if h.Point != (network.Point{X: 0, Y: 0}) {
		t.Fatalf("hub should move to the source location, got %v", h.Point)
	}
	if !h.Active {
		t.Fatal("sole hub must stay active")
	}
	if res.Passes > 2 {
		t.Fatalf("expected convergence within 2 passes, took %d", res.Passes)
	}
}

func TestCoordinateDeterministicReplay(t *testing.T) {
	a := twoHubNetwork(t)
	b := twoHubNetwork(t)
	calc := cost.NewCalculator(1)

	resA, err := NewCoordinate(a, calc, CoordinateConfig{}).Optimize()
	if err != nil {
		t.Fatalf("Optimize a: %v", err)
	}
	resB, err := NewCoordinate(b, calc, CoordinateConfig{}).Optimize()
	if err != nil {
		t.Fatalf("Optimize b: %v", err)
	}
	if resA.FinalCost != resB.FinalCost || resA.Passes != resB.Passes {
		t.Fatalf("runs diverged: %+v vs %+v", resA, resB)
	}
	if !reflect.DeepEqual(resA.PassLog, resB.PassLog) {
		t.Fatalf("pass logs diverged: %v vs %v", resA.PassLog, resB.PassLog)
	}
	if !reflect.DeepEqual(a.Hubs, b.Hubs) {
		t.Fatalf("hub states diverged: %+v vs %+v", a.Hubs, b.Hubs)
	}
}

func TestCoordinatePassLogMonotone(t *testing.T) {
	n := twoHubNetwork(t)
	var seen []PassCost
	o := NewCoordinate(n, cost.NewCalculator(1), CoordinateConfig{})
	o.OnPass = func(pc PassCost) { seen = append(seen, pc) }
	res, err := o.Optimize()
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if !reflect.DeepEqual(seen, res.PassLog) {
		t.Fatalf("OnPass events %v differ from pass log %v", seen, res.PassLog)
	}
	prev := res.InitialCost
	for _, pc := range res.PassLog {
		if pc.Cost > prev {
			t.Fatalf("pass %d worsened cost: %v -> %v", pc.Pass, prev, pc.Cost)
		}
		prev = pc.Cost
	}
}

func TestCoordinateInvalidNetwork(t *testing.T) {
	n := network.New(nil, nil, nil, 1)
	if _, err := NewCoordinate(n, cost.NewCalculator(1), CoordinateConfig{}).Optimize(); err == nil {
		t.Fatal("expected error for invalid network")
	}
}

func TestCoordinateConfigDefaults(t *testing.T) {
	cases := []struct {
		name string
		in   CoordinateConfig
		want CoordinateConfig
	}{
		{"zero fields take defaults",
			CoordinateConfig{},
			CoordinateConfig{MaxPasses: 100, Tolerance: 0.01, GridStep: 5, Epsilon: 0.1}},
		{"negative selects literal zero",
			CoordinateConfig{Tolerance: -1, Epsilon: -1},
			CoordinateConfig{MaxPasses: 100, Tolerance: 0, GridStep: 5, Epsilon: 0}},
		{"explicit values pass through",
			CoordinateConfig{MaxPasses: 7, Tolerance: 0.5, GridStep: 2, Epsilon: 1},
			CoordinateConfig{MaxPasses: 7, Tolerance: 0.5, GridStep: 2, Epsilon: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.withDefaults(); got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}
