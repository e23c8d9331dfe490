package opt

import (
	"reflect"
	"testing"

	"hubnet/internal/cost"
	"hubnet/internal/network"
)

func TestGeneticNeverWorsens(t *testing.T) {
	n := twoHubNetwork(t)
	o := NewGenetic(n, cost.NewCalculator(1), GeneticConfig{Generations: 20, Seed: 7})
	res, err := o.Optimize()
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if res.FinalCost > res.InitialCost {
		t.Fatalf("final %v > initial %v", res.FinalCost, res.InitialCost)
	}
	if n.ActiveHubCount() < 1 {
		t.Fatal("at least one hub must stay active")
	}
	if res.Passes != 20 {
		t.Fatalf("passes: got %d, want 20", res.Passes)
	}
}

func TestGeneticSeededDeterminism(t *testing.T) {
	calc := cost.NewCalculator(1)
	a := twoHubNetwork(t)
	b := twoHubNetwork(t)

	resA, err := NewGenetic(a, calc, GeneticConfig{Generations: 15, Seed: 42}).Optimize()
	if err != nil {
		t.Fatalf("Optimize a: %v", err)
	}
	resB, err := NewGenetic(b, calc, GeneticConfig{Generations: 15, Seed: 42}).Optimize()
	if err != nil {
		t.Fatalf("Optimize b: %v", err)
	}
	if resA.FinalCost != resB.FinalCost {
		t.Fatalf("same seed diverged: %v vs %v", resA.FinalCost, resB.FinalCost)
	}
	if !reflect.DeepEqual(resA.PassLog, resB.PassLog) {
		t.Fatal("pass logs diverged for identical seeds")
	}
	if !reflect.DeepEqual(a.Hubs, b.Hubs) {
		t.Fatal("hub states diverged for identical seeds")
	}
}

func TestGeneticClosesUneconomicHub(t *testing.T) {
	n := twoHubNetwork(t)
	o := NewGenetic(n, cost.NewCalculator(1), GeneticConfig{Generations: 30, Seed: 1})
	if _, err := o.Optimize(); err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	h, err := n.HubByID(11)
	if err != nil {
		t.Fatalf("HubByID: %v", err)
	}
	if h.Active {
		t.Fatal("search should close the 5000-upkeep hub")
	}
}

func TestGeneticRepair(t *testing.T) {
	n := twoHubNetwork(t)
	o := NewGenetic(n, cost.NewCalculator(1), GeneticConfig{Seed: 3})
	chrom := o.repair([]bool{false, false})
	active := 0
	for _, b := range chrom {
		if b {
			active++
		}
	}
	if active == 0 {
		t.Fatal("repair must leave at least one hub active")
	}
	// an already-valid chromosome passes through untouched
	got := o.repair([]bool{false, true})
	if !got[1] || got[0] {
		t.Fatalf("repair mutated a valid chromosome: %v", got)
	}
}

func TestGeneticInvalidNetwork(t *testing.T) {
	n := network.New(nil, nil, nil, 1)
	if _, err := NewGenetic(n, cost.NewCalculator(1), GeneticConfig{Seed: 1}).Optimize(); err == nil {
		t.Fatal("expected error for invalid network")
	}
}

func TestRecordAndListRuns(t *testing.T) {
	RecordRun("t_x", "n1", "coordinate", Result{Algorithm: "coordinate", FinalCost: 10})
	RecordRun("t_x", "n1", "genetic", Result{Algorithm: "genetic", FinalCost: 12})
	RecordRun("t_x", "n1", "coordinate", Result{Algorithm: "coordinate", FinalCost: 8})

	got := RunsFor("t_x", "n1")
	if len(got) != 2 {
		t.Fatalf("expected 2 algorithms recorded, got %d", len(got))
	}
	if got["coordinate"].FinalCost != 8 {
		t.Fatalf("latest result should win: %v", got["coordinate"].FinalCost)
	}
	if len(RunsFor("t_other", "n1")) != 0 {
		t.Fatal("tenant isolation broken")
	}
}
