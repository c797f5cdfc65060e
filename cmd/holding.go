package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/akka/renderer"
	"github.com/google/subcommands"
)

// holdingCmd holds the flags for the 'holding' subcommand.
type holdingCmd struct {
	update bool
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display the holdings valued at current prices" }
func (*holdingCmd) Usage() string {
	return `akka holding [-u]

  Displays the fiat balance and every held asset with its quantity, price,
  value and cost basis, then the portfolio value and the net worth.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.update, "u", false, "update with latest prices before calculating the report")
}

func (c *holdingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx, c.update)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.HoldingMarkdown(a.ledger.Snapshot()))
	return subcommands.ExitSuccess
}
