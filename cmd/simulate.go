package cmd

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/google/subcommands"

	"github.com/lfmartins/cryptofolio"
	"github.com/lfmartins/cryptofolio/renderer"
)

type simulateCmd struct {
	ticks      int
	volatility float64
	seed       int64
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "advance the market simulator and print the result" }
func (*simulateCmd) Usage() string {
	return `cfol simulate [-n <ticks>] [-volatility <v>] [-seed <seed>]

  Runs the market price simulator for a number of ticks, starting from the
  seed market, and prints the resulting market snapshot.

Usage Examples:
# Simulate one trading hour at the default 3s cadence.
$ cfol simulate -n 1200
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.ticks, "n", 20, "Number of simulation ticks to run.")
	f.Float64Var(&c.volatility, "volatility", cryptofolio.DefaultVolatility, "Per-tick volatility bound.")
	f.Int64Var(&c.seed, "seed", 0, "Random seed. 0 seeds from the clock.")
}

func (c *simulateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticks <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -n must be positive.")
		return subcommands.ExitUsageError
	}

	var rng *rand.Rand
	if c.seed != 0 {
		rng = rand.New(rand.NewSource(c.seed))
	}
	sim := cryptofolio.NewSimulator(c.volatility, rng)

	reg := cryptofolio.DefaultRegistry()
	for range c.ticks {
		reg = sim.Advance(reg)
	}

	printMarkdown(renderer.Market(reg))
	return subcommands.ExitSuccess
}
