package model

import (
	"strings"

	"hubnet/internal/network"
)

// ElementsIn converts API element inputs to ElementOut records for storage.
func ElementsIn(in []ElementIn) []ElementOut {
	out := make([]ElementOut, 0, len(in))
	for _, e := range in {
		out = append(out, ElementOut{
			ID: e.ID, X: e.X, Y: e.Y,
			Type:       strings.ToLower(e.Type),
			Demand:     e.Demand,
			Upkeep:     e.Upkeep,
			Processing: e.Processing,
		})
	}
	return out
}

// BuildNetwork reconstructs an optimizer-ready network from a stored record.
// The returned network is initialized (all hubs active, assignment done).
func BuildNetwork(nw NetworkOut) (*network.Network, error) {
	var (
		sources []network.Source
		hubs    []network.Hub
		demands []network.DemandPoint
	)
	for _, e := range nw.Elements {
		pt := network.Point{X: e.X, Y: e.Y}
		switch e.Type {
		case network.KindSource:
			sources = append(sources, network.Source{ID: e.ID, Point: pt})
		case network.KindHub:
			hubs = append(hubs, network.Hub{ID: e.ID, Point: pt, Upkeep: e.Upkeep, ProcessingRate: e.Processing})
		case network.KindDemand:
			demands = append(demands, network.DemandPoint{ID: e.ID, Point: pt, Demand: e.Demand, AssignedHub: network.Unassigned})
		}
	}
	n := network.New(sources, hubs, demands, nw.TransportRate)
	if err := n.Init(); err != nil {
		return nil, err
	}
	return n, nil
}

// SnapshotElements reads element positions and states back from a (possibly
// mutated) network.
func SnapshotElements(n *network.Network) []ElementOut {
	out := make([]ElementOut, 0, len(n.Sources)+len(n.Hubs)+len(n.Demands))
	for _, s := range n.Sources {
		out = append(out, ElementOut{ID: s.ID, X: s.X, Y: s.Y, Type: network.KindSource})
	}
	for _, h := range n.Hubs {
		active := h.Active
		out = append(out, ElementOut{
			ID: h.ID, X: h.X, Y: h.Y, Type: network.KindHub,
			Upkeep: h.Upkeep, Processing: h.ProcessingRate, Active: &active,
		})
	}
	for _, d := range n.Demands {
		assigned := d.AssignedHub
		out = append(out, ElementOut{
			ID: d.ID, X: d.X, Y: d.Y, Type: network.KindDemand,
			Demand: d.Demand, AssignedHub: &assigned,
		})
	}
	return out
}
