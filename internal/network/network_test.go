package network

import (
	"errors"
	"testing"
)

func testNetwork() *Network {
	return New(
		[]Source{{ID: 0, Point: Point{X: 0, Y: 0}}},
		[]Hub{
			{ID: 10, Point: Point{X: 10, Y: 10}, Upkeep: 100, ProcessingRate: 2},
			{ID: 11, Point: Point{X: 40, Y: 40}, Upkeep: 100, ProcessingRate: 2},
		},
		[]DemandPoint{
			{ID: 1000, Point: Point{X: 10, Y: 0}, Demand: 5, AssignedHub: Unassigned},
			{ID: 1001, Point: Point{X: 0, Y: 10}, Demand: 5, AssignedHub: Unassigned},
			{ID: 1002, Point: Point{X: 45, Y: 45}, Demand: 8, AssignedHub: Unassigned},
		},
		1,
	)
}

func TestNearestHubTieBreak(t *testing.T) {
	hubs := []Hub{
		{ID: 1, Point: Point{X: 10, Y: 0}, Active: true},
		{ID: 2, Point: Point{X: 0, Y: 10}, Active: true},
	}
	// equidistant from the origin; the first hub in slice order wins
	h, d, err := NearestHub(Point{}, hubs, true)
	if err != nil {
		t.Fatalf("NearestHub: %v", err)
	}
	if h.ID != 1 {
		t.Fatalf("tie should go to first hub, got %d", h.ID)
	}
	if d != 10 {
		t.Fatalf("distance: got %g, want 10", d)
	}
}

func TestNearestHubSkipsInactive(t *testing.T) {
	hubs := []Hub{
		{ID: 1, Point: Point{X: 1, Y: 0}, Active: false},
		{ID: 2, Point: Point{X: 50, Y: 0}, Active: true},
	}
	h, _, err := NearestHub(Point{}, hubs, true)
	if err != nil {
		t.Fatalf("NearestHub: %v", err)
	}
	if h.ID != 2 {
		t.Fatalf("inactive hub should be skipped, got %d", h.ID)
	}
}

func TestNearestHubNoEligible(t *testing.T) {
	hubs := []Hub{{ID: 1, Active: false}}
	if _, _, err := NearestHub(Point{}, hubs, true); !errors.Is(err, ErrNoEligibleHub) {
		t.Fatalf("want ErrNoEligibleHub, got %v", err)
	}
	if _, _, err := NearestHub(Point{}, nil, false); !errors.Is(err, ErrNoEligibleHub) {
		t.Fatalf("empty hubs: want ErrNoEligibleHub, got %v", err)
	}
}

func TestInitAssignsAll(t *testing.T) {
	n := testNetwork()
	if err := n.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if n.ActiveHubCount() != 2 {
		t.Fatalf("all hubs should be active after Init, got %d", n.ActiveHubCount())
	}
	for _, d := range n.Demands {
		if d.AssignedHub == Unassigned {
			t.Fatalf("demand %d left unassigned", d.ID)
		}
	}
	if n.Demands[0].AssignedHub != 10 || n.Demands[2].AssignedHub != 11 {
		t.Fatalf("unexpected assignments: %d, %d", n.Demands[0].AssignedHub, n.Demands[2].AssignedHub)
	}
}

func TestReassignIdempotent(t *testing.T) {
	n := testNetwork()
	if err := n.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	first := make([]int, len(n.Demands))
	for i, d := range n.Demands {
		first[i] = d.AssignedHub
	}
	if err := n.Reassign(); err != nil {
		t.Fatalf("Reassign: %v", err)
	}
	for i, d := range n.Demands {
		if d.AssignedHub != first[i] {
			t.Fatalf("assignment changed on repeat: demand %d %d -> %d", d.ID, first[i], d.AssignedHub)
		}
	}
}

func TestReassignLeavesAssignmentsOnFailure(t *testing.T) {
	n := testNetwork()
	if err := n.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	before := make([]int, len(n.Demands))
	for i, d := range n.Demands {
		before[i] = d.AssignedHub
	}
	// force failure: close every hub without going through DeactivateHub
	for i := range n.Hubs {
		n.Hubs[i].Active = false
	}
	if err := n.Reassign(); !errors.Is(err, ErrNoEligibleHub) {
		t.Fatalf("want ErrNoEligibleHub, got %v", err)
	}
	for i, d := range n.Demands {
		if d.AssignedHub != before[i] {
			t.Fatalf("assignments mutated on failed Reassign")
		}
	}
}

func TestDeactivateLastActiveHub(t *testing.T) {
	n := testNetwork()
	if err := n.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := n.DeactivateHub(11); err != nil {
		t.Fatalf("DeactivateHub(11): %v", err)
	}
	if err := n.DeactivateHub(10); !errors.Is(err, ErrLastActiveHub) {
		t.Fatalf("want ErrLastActiveHub, got %v", err)
	}
	if !mustHub(t, n, 10).Active {
		t.Fatal("last hub must stay active after refused deactivation")
	}
	// deactivating an already-closed hub is allowed
	if err := n.DeactivateHub(11); err != nil {
		t.Fatalf("repeat deactivation: %v", err)
	}
}

func mustHub(t *testing.T, n *Network, id int) *Hub {
	t.Helper()
	h, err := n.HubByID(id)
	if err != nil {
		t.Fatalf("HubByID(%d): %v", id, err)
	}
	return h
}

func TestHubByIDNotFound(t *testing.T) {
	n := testNetwork()
	if _, err := n.HubByID(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Network)
	}{
		{"no source", func(n *Network) { n.Sources = nil }},
		{"no hubs", func(n *Network) { n.Hubs = nil }},
		{"no demands", func(n *Network) { n.Demands = nil }},
		{"zero rate", func(n *Network) { n.TransportRate = 0 }},
		{"duplicate id", func(n *Network) { n.Hubs[1].ID = n.Hubs[0].ID }},
		{"negative upkeep", func(n *Network) { n.Hubs[0].Upkeep = -1 }},
		{"zero demand", func(n *Network) { n.Demands[0].Demand = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := testNetwork()
			tc.mutate(n)
			err := n.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("want *ValidationError, got %T: %v", err, err)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	n := testNetwork()
	if err := n.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	c := n.Clone()
	c.Hubs[0].Point = Point{X: 99, Y: 99}
	c.Demands[0].AssignedHub = Unassigned
	if n.Hubs[0].X == 99 {
		t.Fatal("clone shares hub storage with original")
	}
	if n.Demands[0].AssignedHub == Unassigned {
		t.Fatal("clone shares demand storage with original")
	}
}

func TestHubLoad(t *testing.T) {
	n := testNetwork()
	if err := n.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := n.HubLoad(10); got != 10 {
		t.Fatalf("HubLoad(10): got %g, want 10", got)
	}
	if got := n.HubLoad(11); got != 8 {
		t.Fatalf("HubLoad(11): got %g, want 8", got)
	}
}
