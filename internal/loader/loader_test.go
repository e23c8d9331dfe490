package loader

import (
	"errors"
	"strings"
	"testing"

	"hubnet/internal/network"
)

const sampleCSV = `id,x,y,type,demand,upkeep,processing
0,0,0,source,,,
10,10,10,hub,,100,2
1000,10,0,demand,5,,
1001,0,10,demand,5,,
`

func TestLoadCSV(t *testing.T) {
	n, err := LoadCSV(strings.NewReader(sampleCSV), 1)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(n.Sources) != 1 || len(n.Hubs) != 1 || len(n.Demands) != 2 {
		t.Fatalf("wrong element counts: %d/%d/%d", len(n.Sources), len(n.Hubs), len(n.Demands))
	}
	h := n.Hubs[0]
	if h.Upkeep != 100 || h.ProcessingRate != 2 {
		t.Fatalf("hub costs not parsed: %+v", h)
	}
	if !h.Active {
		t.Fatal("hubs must be active after load")
	}
	for _, d := range n.Demands {
		if d.AssignedHub != 10 {
			t.Fatalf("demand %d not assigned: %d", d.ID, d.AssignedHub)
		}
	}
}

func TestLoadCSVColumnOrderIndependent(t *testing.T) {
	csv := `type,Y,X,processing,upkeep,demand,ID
source,0,0,,,,0
hub,10,10,2,100,,10
demand,0,10,,,5,1000
`
	n, err := LoadCSV(strings.NewReader(csv), 1)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if n.Hubs[0].X != 10 || n.Hubs[0].Y != 10 {
		t.Fatalf("coordinates mixed up: %+v", n.Hubs[0].Point)
	}
	if n.Demands[0].Demand != 5 {
		t.Fatalf("demand not parsed: %g", n.Demands[0].Demand)
	}
}

func TestLoadCSVErrors(t *testing.T) {
	cases := []struct {
		name string
		csv  string
	}{
		{"missing column", "id,x,y\n1,0,0\n"},
		{"bad id", "id,x,y,type\nabc,0,0,source\n"},
		{"bad coordinate", "id,x,y,type\n1,zz,0,source\n"},
		{"unknown type", "id,x,y,type\n1,0,0,depot\n"},
		{"no hubs", "id,x,y,type,demand\n0,0,0,source,\n1000,1,1,demand,5\n"},
		{"zero demand", sampleCSV + "1002,3,3,demand,0,,\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadCSV(strings.NewReader(tc.csv), 1)
			if err == nil {
				t.Fatal("expected error")
			}
			var ve *network.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("want *ValidationError, got %T: %v", err, err)
			}
		})
	}
}

func TestLoadCSVZeroRate(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(sampleCSV), 0)
	if err == nil {
		t.Fatal("zero transport rate must be rejected")
	}
}
