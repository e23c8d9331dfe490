// Package cost evaluates the network objective: fixed hub upkeep, per-unit
// processing, and the two transport legs.
package cost

import "hubnet/internal/network"

// BulkTransportFactor discounts the source→hub leg: bulk long-haul transport
// is an order of magnitude cheaper per unit-distance-per-unit-demand than
// local delivery. Fixed design constant, not tunable per run.
const BulkTransportFactor = 0.1

// Breakdown is the cost record for one network snapshot. Total is the sole
// objective the optimizers minimize.
type Breakdown struct {
	Fixed                float64 `json:"fixed"`
	Processing           float64 `json:"processing"`
	TransportSourceToHub float64 `json:"transportSourceToHub"`
	TransportHubToDemand float64 `json:"transportHubToDemand"`
	TransportTotal       float64 `json:"transportTotal"`
	Total                float64 `json:"total"`
}

// Calculator computes cost breakdowns for a given transport rate. Evaluation
// never mutates network state and may be called any number of times.
type Calculator struct {
	TransportRate float64
}

func NewCalculator(transportRate float64) Calculator {
	return Calculator{TransportRate: transportRate}
}

// Evaluate computes the full breakdown for the network as currently assigned.
func (c Calculator) Evaluate(n *network.Network) Breakdown {
	src := n.Source()

	loads := map[int]float64{}
	for i := range n.Demands {
		loads[n.Demands[i].AssignedHub] += n.Demands[i].Demand
	}

	var b Breakdown
	for i := range n.Hubs {
		h := &n.Hubs[i]
		if !h.Active {
			continue
		}
		load := loads[h.ID]
		b.Fixed += h.Upkeep
		b.Processing += h.ProcessingRate * load
		if load > 0 {
			d := network.Distance(src.Point, h.Point)
			b.TransportSourceToHub += d * c.TransportRate * load * BulkTransportFactor
		}
	}

	for i := range n.Demands {
		dp := &n.Demands[i]
		h, err := n.HubByID(dp.AssignedHub)
		if err != nil || !h.Active {
			continue
		}
		b.TransportHubToDemand += network.Distance(h.Point, dp.Point) * c.TransportRate * dp.Demand
	}

	b.TransportTotal = b.TransportSourceToHub + b.TransportHubToDemand
	b.Total = b.Fixed + b.Processing + b.TransportTotal
	return b
}

// Total is a shorthand for Evaluate(n).Total used in optimizer inner loops.
func (c Calculator) Total(n *network.Network) float64 {
	return c.Evaluate(n).Total
}
