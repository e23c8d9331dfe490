// Command netgen generates a synthetic hub network and writes it as
// loader-format CSV to stdout or a file.
package main

import (
	"flag"
	"log"
	"os"

	"hubnet/internal/gen"
)

func main() {
	var (
		out        = flag.String("o", "", "output file (default stdout)")
		demands    = flag.Int("demands", 30, "number of demand points")
		area       = flag.Float64("area", 100, "square area side length")
		upkeep     = flag.Float64("upkeep", 8000, "hub fixed upkeep cost")
		processing = flag.Float64("processing", 15, "hub per-unit processing rate")
		minDemand  = flag.Float64("min-demand", 50, "minimum demand volume")
		maxDemand  = flag.Float64("max-demand", 100, "maximum demand volume")
		rate       = flag.Float64("rate", 1, "transport rate per unit distance per unit load")
		cluster    = flag.Bool("cluster", false, "cluster demand points around hubs")
		seed       = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()

	n, err := gen.Generate(gen.Params{
		DemandPoints:  *demands,
		AreaSize:      *area,
		HubUpkeep:     *upkeep,
		HubProcessing: *processing,
		MinDemand:     *minDemand,
		MaxDemand:     *maxDemand,
		ClusterHubs:   *cluster,
		TransportRate: *rate,
		Seed:          *seed,
	})
	if err != nil {
		log.Fatalf("generate: %v", err)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("create %s: %v", *out, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	if err := gen.WriteCSV(n, w); err != nil {
		log.Fatalf("write csv: %v", err)
	}
}
