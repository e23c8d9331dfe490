// Package network holds the logistics network state the optimizers mutate:
// one goods source, intermediate hubs, and demand points, plus the
// assignment of every demand point to its serving hub.
package network

import "fmt"

// Element kinds.
const (
	KindSource = "source"
	KindHub    = "hub"
	KindDemand = "demand"
)

// Unassigned marks a demand point that has not been assigned to a hub yet.
const Unassigned = -1

// Point is a 2-D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Source is the single origin of all goods. Position only.
type Source struct {
	ID int `json:"id"`
	Point
}

// Hub is an intermediate facility. Upkeep and ProcessingRate are fixed at
// construction; Point and Active are mutated by the optimizers.
type Hub struct {
	ID int `json:"id"`
	Point
	Upkeep         float64 `json:"upkeep"`
	ProcessingRate float64 `json:"processing"`
	Active         bool    `json:"active"`
}

// DemandPoint consumes goods. AssignedHub holds the id of the serving hub,
// or Unassigned before the first assignment pass.
type DemandPoint struct {
	ID int `json:"id"`
	Point
	Demand      float64 `json:"demand"`
	AssignedHub int     `json:"assignedHub"`
}

func (s Source) String() string {
	return fmt.Sprintf("Source(id=%d, x=%g, y=%g)", s.ID, s.X, s.Y)
}

func (h Hub) String() string {
	status := "active"
	if !h.Active {
		status = "inactive"
	}
	return fmt.Sprintf("Hub(id=%d, x=%g, y=%g, upkeep=%g, %s)", h.ID, h.X, h.Y, h.Upkeep, status)
}

func (d DemandPoint) String() string {
	return fmt.Sprintf("DemandPoint(id=%d, x=%g, y=%g, demand=%g)", d.ID, d.X, d.Y, d.Demand)
}
