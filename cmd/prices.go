package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/akka/renderer"
	"github.com/google/subcommands"
)

type pricesCmd struct{}

func (*pricesCmd) Name() string { return "prices" }
func (*pricesCmd) Synopsis() string {
	return "display the latest asset prices from coinmarketcap.com"
}
func (*pricesCmd) Usage() string {
	return `akka prices

  Fetches the latest prices when COINMARKETCAP_API_KEY is set, and displays
  the fallback prices otherwise.
`
}
func (c *pricesCmd) SetFlags(f *flag.FlagSet) {}
func (c *pricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "no arguments expected")
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PricesMarkdown(a.prices.All(), a.prices.Updated()))
	return subcommands.ExitSuccess
}

type trendingCmd struct {
	limit int
}

func (*trendingCmd) Name() string { return "trending" }
func (*trendingCmd) Synopsis() string {
	return "rank assets by market cap with their 24h change"
}
func (*trendingCmd) Usage() string {
	return `akka trending [-n <count>]

  Fetches the latest quotes when COINMARKETCAP_API_KEY is set, and ranks the
  assets by market capitalization, largest first.
`
}
func (c *trendingCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 10, "Number of assets to list, 0 for all")
}
func (c *trendingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 || c.limit < 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.TrendingMarkdown(a.prices.Trending(c.limit), a.prices.Updated()))
	return subcommands.ExitSuccess
}
