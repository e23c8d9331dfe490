package api

import (
	"fmt"

	"hubnet/internal/model"
)

func validateOptimizeRequest(req *model.OptimizeRequest) error {
	if req.NetworkID == "" {
		return fmt.Errorf("networkId is required")
	}
	if req.Algorithm != "" && req.Algorithm != "coordinate" && req.Algorithm != "genetic" {
		return fmt.Errorf("invalid algorithm: %s", req.Algorithm)
	}
	if req.MaxPasses < 0 {
		return fmt.Errorf("maxPasses must be >= 0")
	}
	if req.GridStep < 0 {
		return fmt.Errorf("gridStep must be >= 0")
	}
	if req.PopulationSize < 0 {
		return fmt.Errorf("populationSize must be >= 0")
	}
	if req.Generations < 0 {
		return fmt.Errorf("generations must be >= 0")
	}
	if req.MutationRate != 0 && (req.MutationRate < 0 || req.MutationRate > 1) {
		return fmt.Errorf("mutationRate must be in [0,1]")
	}
	if req.CrossoverRate != 0 && (req.CrossoverRate < 0 || req.CrossoverRate > 1) {
		return fmt.Errorf("crossoverRate must be in [0,1]")
	}
	return nil
}

func validateNetworkIn(in *model.NetworkIn) error {
	if in.TransportRate <= 0 {
		return fmt.Errorf("transportRate must be > 0")
	}
	if len(in.Elements) == 0 && in.CSV == "" {
		return fmt.Errorf("either elements or csv is required")
	}
	if len(in.Elements) > 0 && in.CSV != "" {
		return fmt.Errorf("elements and csv are mutually exclusive")
	}
	return nil
}
