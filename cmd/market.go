package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/lfmartins/cryptofolio"
	"github.com/lfmartins/cryptofolio/renderer"
)

type marketCmd struct{}

func (*marketCmd) Name() string     { return "market" }
func (*marketCmd) Synopsis() string { return "print the seed market" }
func (*marketCmd) Usage() string {
	return `cfol market

  Prints the market every session starts from, before any simulation tick.
`
}

func (*marketCmd) SetFlags(_ *flag.FlagSet) {}

func (*marketCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	printMarkdown(renderer.Market(cryptofolio.DefaultRegistry()))
	return subcommands.ExitSuccess
}
