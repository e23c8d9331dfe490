package network

// Network aggregates one source, the hub collection, and the demand points,
// plus the transport cost per unit distance per unit demand. It is built once
// by a loader, initialized with Init, and then mutated in place by a single
// optimizer for the lifetime of a run.
type Network struct {
	Sources       []Source
	Hubs          []Hub
	Demands       []DemandPoint
	TransportRate float64
}

// New returns an unvalidated, uninitialized network.
func New(sources []Source, hubs []Hub, demands []DemandPoint, transportRate float64) *Network {
	return &Network{Sources: sources, Hubs: hubs, Demands: demands, TransportRate: transportRate}
}

// Source returns the distribution source. The cost model assumes exactly one
// economically meaningful source even when several are modeled; Validate
// guarantees at least one exists.
func (n *Network) Source() Source { return n.Sources[0] }

// HubByID returns the hub with the given id or ErrNotFound.
func (n *Network) HubByID(id int) (*Hub, error) {
	for i := range n.Hubs {
		if n.Hubs[i].ID == id {
			return &n.Hubs[i], nil
		}
	}
	return nil, ErrNotFound
}

// ActiveHubCount reports how many hubs are currently open.
func (n *Network) ActiveHubCount() int {
	c := 0
	for i := range n.Hubs {
		if n.Hubs[i].Active {
			c++
		}
	}
	return c
}

// HubLoad sums the demand of all points currently assigned to the hub.
func (n *Network) HubLoad(hubID int) float64 {
	total := 0.0
	for i := range n.Demands {
		if n.Demands[i].AssignedHub == hubID {
			total += n.Demands[i].Demand
		}
	}
	return total
}

// MoveHub relocates a hub. The caller must re-run Reassign before the next
// cost evaluation.
func (n *Network) MoveHub(id int, to Point) error {
	h, err := n.HubByID(id)
	if err != nil {
		return err
	}
	h.Point = to
	return nil
}

// ActivateHub opens a hub.
func (n *Network) ActivateHub(id int) error {
	h, err := n.HubByID(id)
	if err != nil {
		return err
	}
	h.Active = true
	return nil
}

// DeactivateHub closes a hub, refusing with ErrLastActiveHub if it is the
// only one open: the source must always have at least one hub to serve any
// demand.
func (n *Network) DeactivateHub(id int) error {
	h, err := n.HubByID(id)
	if err != nil {
		return err
	}
	if h.Active && n.ActiveHubCount() == 1 {
		return ErrLastActiveHub
	}
	h.Active = false
	return nil
}

// Reassign points every demand point at its nearest active hub. It always
// runs to completion or leaves prior assignments untouched; calling it twice
// with no intervening mutation yields identical assignments.
func (n *Network) Reassign() error {
	assigned := make([]int, len(n.Demands))
	for i := range n.Demands {
		h, _, err := NearestHub(n.Demands[i].Point, n.Hubs, true)
		if err != nil {
			return err
		}
		assigned[i] = h.ID
	}
	for i := range n.Demands {
		n.Demands[i].AssignedHub = assigned[i]
	}
	return nil
}

// Init activates every hub and runs the first assignment pass. Loaders call
// it once after construction.
func (n *Network) Init() error {
	if err := n.Validate(); err != nil {
		return err
	}
	for i := range n.Hubs {
		n.Hubs[i].Active = true
	}
	return n.Reassign()
}

// Validate checks the structural invariants the optimizers assume: non-empty
// collections, globally unique ids, non-negative hub costs, strictly
// positive demand, positive transport rate.
func (n *Network) Validate() error {
	if len(n.Sources) == 0 {
		return validationErrorf("network has no source")
	}
	if len(n.Hubs) == 0 {
		return validationErrorf("network has no hubs")
	}
	if len(n.Demands) == 0 {
		return validationErrorf("network has no demand points")
	}
	if n.TransportRate <= 0 {
		return validationErrorf("transport rate must be > 0, got %g", n.TransportRate)
	}
	seen := map[int]bool{}
	for _, s := range n.Sources {
		if seen[s.ID] {
			return validationErrorf("duplicate element id %d", s.ID)
		}
		seen[s.ID] = true
	}
	for _, h := range n.Hubs {
		if seen[h.ID] {
			return validationErrorf("duplicate element id %d", h.ID)
		}
		seen[h.ID] = true
		if h.Upkeep < 0 || h.ProcessingRate < 0 {
			return validationErrorf("hub %d has negative costs", h.ID)
		}
	}
	for _, d := range n.Demands {
		if seen[d.ID] {
			return validationErrorf("duplicate element id %d", d.ID)
		}
		seen[d.ID] = true
		if d.Demand <= 0 {
			return validationErrorf("demand point %d has non-positive demand %g", d.ID, d.Demand)
		}
	}
	return nil
}

// Clone returns an independent deep copy, used to run several strategies
// against the same starting state.
func (n *Network) Clone() *Network {
	out := &Network{
		Sources:       make([]Source, len(n.Sources)),
		Hubs:          make([]Hub, len(n.Hubs)),
		Demands:       make([]DemandPoint, len(n.Demands)),
		TransportRate: n.TransportRate,
	}
	copy(out.Sources, n.Sources)
	copy(out.Hubs, n.Hubs)
	copy(out.Demands, n.Demands)
	return out
}
