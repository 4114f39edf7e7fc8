// Package cmd implements the CLI application hosting a portfolio session.
package cmd

import (
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package calls Register() and then Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&marketCmd{}, "market")
	c.Register(&simulateCmd{}, "market")

	c.Register(&liveCmd{}, "session")
}
