package gen

import (
	"bytes"
	"reflect"
	"testing"

	"hubnet/internal/loader"
)

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(Params{DemandPoints: 20, Seed: 7})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(Params{DemandPoints: 20, Seed: 7})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different networks")
	}
	c, err := Generate(Params{DemandPoints: 20, Seed: 8})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if reflect.DeepEqual(a, c) {
		t.Fatal("different seeds produced identical networks")
	}
}

func TestGenerateShape(t *testing.T) {
	n, err := Generate(Params{DemandPoints: 30, AreaSize: 100})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(n.Sources) != 1 {
		t.Fatalf("sources: got %d, want 1", len(n.Sources))
	}
	if n.Sources[0].X != 50 || n.Sources[0].Y != 50 {
		t.Fatalf("source should sit at the area center, got %+v", n.Sources[0].Point)
	}
	if len(n.Hubs) != 10 {
		t.Fatalf("hubs: got %d, want 10", len(n.Hubs))
	}
	if len(n.Demands) != 30 {
		t.Fatalf("demands: got %d, want 30", len(n.Demands))
	}
	for _, d := range n.Demands {
		if d.Demand < 50 || d.Demand > 100 {
			t.Fatalf("demand %d out of [50,100]: %g", d.ID, d.Demand)
		}
	}
	if err := n.Validate(); err != nil {
		t.Fatalf("generated network invalid: %v", err)
	}
}

func TestGenerateMinimumHubs(t *testing.T) {
	n, err := Generate(Params{DemandPoints: 4})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(n.Hubs) != 3 {
		t.Fatalf("small networks still get 3 hubs, got %d", len(n.Hubs))
	}
}

func TestGenerateClustered(t *testing.T) {
	n, err := Generate(Params{DemandPoints: 30, ClusterHubs: true, AreaSize: 100, Seed: 5})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(n.Hubs) != 10 {
		t.Fatalf("hubs: got %d, want 10", len(n.Hubs))
	}
	for _, h := range n.Hubs {
		if h.X < 0 || h.X > 100 || h.Y < 0 || h.Y > 100 {
			t.Fatalf("hub %d outside area: %+v", h.ID, h.Point)
		}
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	n, err := Generate(Params{DemandPoints: 12, Seed: 9})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(n, &buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	loaded, err := loader.LoadCSV(&buf, n.TransportRate)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(loaded.Hubs) != len(n.Hubs) || len(loaded.Demands) != len(n.Demands) {
		t.Fatalf("round trip lost elements: %d/%d hubs, %d/%d demands",
			len(loaded.Hubs), len(n.Hubs), len(loaded.Demands), len(n.Demands))
	}
	for i := range n.Demands {
		if loaded.Demands[i].ID != n.Demands[i].ID {
			t.Fatalf("demand order changed at %d", i)
		}
	}
}
