package opt

import (
	"math/rand"
	"time"

	"hubnet/internal/cost"
	"hubnet/internal/network"
)

// GeneticConfig tunes the evolutionary search over hub activation state.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	CrossoverRate  float64
	TournamentSize int
	Seed           int64 // 0 means time-based
}

func (c GeneticConfig) withDefaults() GeneticConfig {
	if c.PopulationSize <= 0 {
		c.PopulationSize = 50
	}
	if c.Generations <= 0 {
		c.Generations = 100
	}
	if c.MutationRate <= 0 {
		c.MutationRate = 0.1
	}
	if c.CrossoverRate <= 0 {
		c.CrossoverRate = 0.8
	}
	if c.TournamentSize <= 0 {
		c.TournamentSize = 3
	}
	return c
}

// GeneticOptimizer searches over which hubs stay open. Chromosomes are
// binary vectors, one bit per hub; hub positions are left where the loader
// (or a prior strategy) put them. Fitness is 1/(1+cost), so lower cost wins.
type GeneticOptimizer struct {
	net  *network.Network
	calc cost.Calculator
	cfg  GeneticConfig
	rng  *rand.Rand

	// OnPass, when set, is called after each generation with the best cost
	// found so far.
	OnPass func(PassCost)

	initial float64
	final   float64
}

func NewGenetic(net *network.Network, calc cost.Calculator, cfg GeneticConfig) *GeneticOptimizer {
	cfg = cfg.withDefaults()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &GeneticOptimizer{net: net, calc: calc, cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

func (o *GeneticOptimizer) InitialCost() float64 { return o.initial }
func (o *GeneticOptimizer) FinalCost() float64   { return o.final }

func (o *GeneticOptimizer) Optimize() (Result, error) {
	n := o.net
	if err := n.Validate(); err != nil {
		return Result{}, err
	}
	if err := n.Reassign(); err != nil {
		return Result{}, err
	}

	o.initial = o.calc.Total(n)
	res := Result{Algorithm: "genetic", InitialCost: o.initial}

	length := len(n.Hubs)
	pop := make([][]bool, o.cfg.PopulationSize)
	// Seed the current activation state as individual zero so the search can
	// never finish worse than where it started.
	pop[0] = make([]bool, length)
	for i := range n.Hubs {
		pop[0][i] = n.Hubs[i].Active
	}
	for i := 1; i < len(pop); i++ {
		pop[i] = o.randomChromosome(length)
	}

	fitness := make([]float64, len(pop))
	for i := range pop {
		fitness[i] = o.fitness(pop[i])
	}
	bestIdx := argmax(fitness)
	best := cloneChromosome(pop[bestIdx])
	bestFitness := fitness[bestIdx]

	for gen := 1; gen <= o.cfg.Generations; gen++ {
		next := make([][]bool, 0, len(pop))
		next = append(next, cloneChromosome(best)) // elitism

		for len(next) < len(pop) {
			p1 := o.tournament(pop, fitness)
			p2 := o.tournament(pop, fitness)
			var c1, c2 []bool
			if o.rng.Float64() < o.cfg.CrossoverRate {
				c1, c2 = o.uniformCrossover(p1, p2)
			} else {
				c1, c2 = cloneChromosome(p1), cloneChromosome(p2)
			}
			next = append(next, o.mutate(c1))
			if len(next) < len(pop) {
				next = append(next, o.mutate(c2))
			}
		}

		pop = next
		for i := range pop {
			fitness[i] = o.fitness(pop[i])
		}
		if i := argmax(fitness); fitness[i] > bestFitness {
			bestFitness = fitness[i]
			best = cloneChromosome(pop[i])
		}

		res.Passes = gen
		bestCost := 1/bestFitness - 1
		res.PassLog = append(res.PassLog, PassCost{Pass: gen, Cost: bestCost})
		if o.OnPass != nil {
			o.OnPass(PassCost{Pass: gen, Cost: bestCost})
		}
	}

	if err := o.apply(best); err != nil {
		return Result{}, err
	}
	o.final = o.calc.Total(n)
	res.FinalCost = o.final
	finishResult(&res)
	return res, nil
}

// fitness applies the chromosome to the network and scores it. The repair
// step guarantees at least one active hub, so Reassign cannot fail here
// except on a structurally broken network.
func (o *GeneticOptimizer) fitness(chrom []bool) float64 {
	if err := o.apply(chrom); err != nil {
		return 0
	}
	return 1.0 / (1.0 + o.calc.Total(o.net))
}

func (o *GeneticOptimizer) apply(chrom []bool) error {
	for i := range o.net.Hubs {
		o.net.Hubs[i].Active = chrom[i]
	}
	return o.net.Reassign()
}

func (o *GeneticOptimizer) randomChromosome(length int) []bool {
	chrom := make([]bool, length)
	for i := range chrom {
		chrom[i] = o.rng.Intn(2) == 1
	}
	return o.repair(chrom)
}

// repair forces at least one hub active; an all-closed network cannot serve
// any demand.
func (o *GeneticOptimizer) repair(chrom []bool) []bool {
	for _, b := range chrom {
		if b {
			return chrom
		}
	}
	chrom[o.rng.Intn(len(chrom))] = true
	return chrom
}

func (o *GeneticOptimizer) tournament(pop [][]bool, fitness []float64) []bool {
	best := o.rng.Intn(len(pop))
	for i := 1; i < o.cfg.TournamentSize; i++ {
		c := o.rng.Intn(len(pop))
		if fitness[c] > fitness[best] {
			best = c
		}
	}
	return pop[best]
}

func (o *GeneticOptimizer) uniformCrossover(p1, p2 []bool) ([]bool, []bool) {
	c1 := cloneChromosome(p1)
	c2 := cloneChromosome(p2)
	for i := range c1 {
		if o.rng.Float64() < 0.5 {
			c1[i], c2[i] = c2[i], c1[i]
		}
	}
	return o.repair(c1), o.repair(c2)
}

func (o *GeneticOptimizer) mutate(chrom []bool) []bool {
	for i := range chrom {
		if o.rng.Float64() < o.cfg.MutationRate {
			chrom[i] = !chrom[i]
		}
	}
	return o.repair(chrom)
}

func cloneChromosome(c []bool) []bool {
	out := make([]bool, len(c))
	copy(out, c)
	return out
}

func argmax(xs []float64) int {
	best := 0
	for i := range xs {
		if xs[i] > xs[best] {
			best = i
		}
	}
	return best
}
