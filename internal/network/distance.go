package network

import "math"

// Distance returns the Euclidean distance between two coordinates. All cost
// formulas and the assignment scan use this metric.
func Distance(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Manhattan returns the L1 distance between two coordinates. Provided as an
// alternative metric; the optimizers do not use it.
func Manhattan(a, b Point) float64 {
	return math.Abs(b.X-a.X) + math.Abs(b.Y-a.Y)
}

// NearestHub scans hubs in slice order and returns a pointer to the closest
// one together with its distance from p. Ties go to the first hub
// encountered, which keeps runs reproducible. With activeOnly set, inactive
// hubs are skipped; if no hub is eligible it returns ErrNoEligibleHub.
func NearestHub(p Point, hubs []Hub, activeOnly bool) (*Hub, float64, error) {
	best := -1
	bestDist := math.Inf(1)
	for i := range hubs {
		if activeOnly && !hubs[i].Active {
			continue
		}
		if d := Distance(p, hubs[i].Point); d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return nil, 0, ErrNoEligibleHub
	}
	return &hubs[best], bestDist, nil
}
