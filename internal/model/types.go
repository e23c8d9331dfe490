package model

import (
	"hubnet/internal/cost"
	"hubnet/internal/opt"
)

// Core API types.

type ElementIn struct {
	ID         int     `json:"id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Type       string  `json:"type"` // source, hub, demand
	Demand     float64 `json:"demand,omitempty"`
	Upkeep     float64 `json:"upkeep,omitempty"`
	Processing float64 `json:"processing,omitempty"`
}

type NetworkIn struct {
	TenantID      string      `json:"tenantId,omitempty"`
	Name          string      `json:"name,omitempty"`
	TransportRate float64     `json:"transportRate"`
	Elements      []ElementIn `json:"elements,omitempty"`
	CSV           string      `json:"csv,omitempty"` // alternative payload: loader-format CSV
}

type ElementOut struct {
	ID          int     `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Type        string  `json:"type"`
	Demand      float64 `json:"demand,omitempty"`
	Upkeep      float64 `json:"upkeep,omitempty"`
	Processing  float64 `json:"processing,omitempty"`
	Active      *bool   `json:"active,omitempty"`
	AssignedHub *int    `json:"assignedHub,omitempty"`
}

type NetworkOut struct {
	ID            string       `json:"id"`
	TenantID      string       `json:"tenantId"`
	Name          string       `json:"name,omitempty"`
	TransportRate float64      `json:"transportRate"`
	Elements      []ElementOut `json:"elements"`
	CreatedAt     string       `json:"createdAt,omitempty"`
}

// OptimizeRequest selects a network, a strategy, and its parameters. Zero
// values fall back to per-tenant config, then built-in defaults.
type OptimizeRequest struct {
	TenantID  string `json:"tenantId,omitempty"`
	NetworkID string `json:"networkId"`
	Algorithm string `json:"algorithm,omitempty"` // coordinate (default) or genetic
	Dataset   string `json:"dataset,omitempty"`   // label used in exports

	// Coordinate parameters. Negative tolerance or epsilon selects a
	// literal zero; zero falls back as described above.
	MaxPasses int     `json:"maxPasses,omitempty"`
	Tolerance float64 `json:"tolerance,omitempty"`
	GridStep  float64 `json:"gridStep,omitempty"`
	Epsilon   float64 `json:"epsilon,omitempty"`

	// Genetic parameters
	PopulationSize int     `json:"populationSize,omitempty"`
	Generations    int     `json:"generations,omitempty"`
	MutationRate   float64 `json:"mutationRate,omitempty"`
	CrossoverRate  float64 `json:"crossoverRate,omitempty"`
	Seed           int64   `json:"seed,omitempty"`

	Export bool `json:"export,omitempty"` // also write a CSV export of the run
}

type RunOut struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenantId"`
	NetworkID string `json:"networkId"`
	Algorithm string `json:"algorithm"`

	Result opt.Result     `json:"result"`
	Before cost.Breakdown `json:"before"`
	After  cost.Breakdown `json:"after"`

	// Final element states read back from the mutated network.
	Elements []ElementOut `json:"elements,omitempty"`

	ExportPath string `json:"exportPath,omitempty"`
	ElapsedMs  int64  `json:"elapsedMs"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

type CompareResponse struct {
	NetworkID  string `json:"networkId"`
	Coordinate RunOut `json:"coordinate"`
	Genetic    RunOut `json:"genetic"`
	ExportPath string `json:"exportPath,omitempty"`
}

// Webhook subscriptions.

type SubscriptionRequest struct {
	TenantID string   `json:"tenantId"`
	URL      string   `json:"url"`
	Events   []string `json:"events"`
	Secret   string   `json:"secret"`
}

type Subscription struct {
	ID       string   `json:"id"`
	TenantID string   `json:"tenantId"`
	URL      string   `json:"url"`
	Events   []string `json:"events"`
	Secret   string   `json:"secret,omitempty"`
}
