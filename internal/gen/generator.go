// Package gen produces seeded test networks of arbitrary size for
// experiments and benchmarks.
package gen

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"

	"hubnet/internal/network"
)

// Params sizes the generated network. Hubs default to about a third of the
// demand-point count so they compete for placement.
type Params struct {
	DemandPoints  int
	AreaSize      float64 // square side; source sits at the center
	HubUpkeep     float64
	HubProcessing float64
	MinDemand     float64
	MaxDemand     float64
	ClusterHubs   bool
	TransportRate float64
	Seed          int64
}

func (p Params) withDefaults() Params {
	if p.DemandPoints <= 0 {
		p.DemandPoints = 30
	}
	if p.AreaSize <= 0 {
		p.AreaSize = 100
	}
	if p.HubUpkeep <= 0 {
		p.HubUpkeep = 8000
	}
	if p.HubProcessing <= 0 {
		p.HubProcessing = 15
	}
	if p.MinDemand <= 0 {
		p.MinDemand = 50
	}
	if p.MaxDemand < p.MinDemand {
		p.MaxDemand = p.MinDemand + 50
	}
	if p.TransportRate <= 0 {
		p.TransportRate = 1
	}
	if p.Seed == 0 {
		p.Seed = 42
	}
	return p
}

// Generate builds and initializes a network. The same Params always yield
// the same network.
func Generate(p Params) (*network.Network, error) {
	p = p.withDefaults()
	rng := rand.New(rand.NewSource(p.Seed))

	source := network.Source{ID: 0, Point: network.Point{X: p.AreaSize / 2, Y: p.AreaSize / 2}}

	nHubs := p.DemandPoints / 3
	if nHubs < 3 {
		nHubs = 3
	}

	var hubs []network.Hub
	id := 10
	if p.ClusterHubs {
		nClusters := nHubs / 2
		if nClusters < 3 {
			nClusters = 3
		}
		if nClusters > 5 {
			nClusters = 5
		}
		centers := make([]network.Point, nClusters)
		for i := range centers {
			centers[i] = network.Point{
				X: rng.Float64() * p.AreaSize,
				Y: rng.Float64() * p.AreaSize,
			}
		}
		perCluster := nHubs / nClusters
		remaining := nHubs % nClusters
		for ci, c := range centers {
			count := perCluster
			if ci < remaining {
				count++
			}
			for j := 0; j < count; j++ {
				angle := rng.Float64() * 2 * math.Pi
				radius := rng.Float64() * p.AreaSize / 10
				hubs = append(hubs, network.Hub{
					ID:             id,
					Point:          network.Point{X: clamp(c.X+radius*math.Cos(angle), 0, p.AreaSize), Y: clamp(c.Y+radius*math.Sin(angle), 0, p.AreaSize)},
					Upkeep:         p.HubUpkeep,
					ProcessingRate: p.HubProcessing,
				})
				id++
			}
		}
	} else {
		for j := 0; j < nHubs; j++ {
			hubs = append(hubs, network.Hub{
				ID:             id,
				Point:          network.Point{X: rng.Float64() * p.AreaSize, Y: rng.Float64() * p.AreaSize},
				Upkeep:         p.HubUpkeep,
				ProcessingRate: p.HubProcessing,
			})
			id++
		}
	}

	demands := make([]network.DemandPoint, 0, p.DemandPoints)
	id = 1000
	for j := 0; j < p.DemandPoints; j++ {
		demands = append(demands, network.DemandPoint{
			ID:          id,
			Point:       network.Point{X: rng.Float64() * p.AreaSize, Y: rng.Float64() * p.AreaSize},
			Demand:      p.MinDemand + rng.Float64()*(p.MaxDemand-p.MinDemand),
			AssignedHub: network.Unassigned,
		})
		id++
	}

	n := network.New([]network.Source{source}, hubs, demands, p.TransportRate)
	if err := n.Init(); err != nil {
		return nil, err
	}
	return n, nil
}

// WriteCSV emits the network in the loader's CSV format.
func WriteCSV(n *network.Network, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "x", "y", "type", "demand", "upkeep", "processing"}); err != nil {
		return err
	}
	for _, s := range n.Sources {
		if err := cw.Write([]string{itoa(s.ID), ftoa(s.X), ftoa(s.Y), network.KindSource, "", "", ""}); err != nil {
			return err
		}
	}
	for _, h := range n.Hubs {
		if err := cw.Write([]string{itoa(h.ID), ftoa(h.X), ftoa(h.Y), network.KindHub, "", ftoa(h.Upkeep), ftoa(h.ProcessingRate)}); err != nil {
			return err
		}
	}
	for _, d := range n.Demands {
		if err := cw.Write([]string{itoa(d.ID), ftoa(d.X), ftoa(d.Y), network.KindDemand, ftoa(d.Demand), "", ""}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func itoa(v int) string     { return fmt.Sprintf("%d", v) }
func ftoa(v float64) string { return fmt.Sprintf("%g", v) }
