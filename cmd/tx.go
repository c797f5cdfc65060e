package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/etnz/akka"
	"github.com/etnz/akka/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	kind         string
	symbol       string
	counterparty string
	head         int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions, newest first" }
func (*txCmd) Usage() string {
	return `akka tx [-k <kind>] [-s <symbol>] [-c <counterparty>] [-head <n>]

  Lists transactions from the session, newest first, with options for filtering and limiting the output.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.kind, "k", "", "Only this kind of transaction (buy, sell, send, receive, deposit).")
	f.StringVar(&p.symbol, "s", "", "Only transactions moving this asset or currency.")
	f.StringVar(&p.counterparty, "c", "", "Only transactions with this counterparty.")
	f.IntVar(&p.head, "head", 0, "Show only the N most recent transactions.")
}

func (p *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var filters []func(akka.Transaction) bool
	if p.kind != "" {
		kind, err := akka.ParseCommandType(p.kind)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		filters = append(filters, akka.ByKind(kind))
	}
	if p.symbol != "" {
		filters = append(filters, akka.BySymbol(p.symbol))
	}
	if p.counterparty != "" {
		filters = append(filters, akka.ByCounterparty(p.counterparty))
	}

	a, err := openApp(ctx, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	transactions := slices.Collect(a.ledger.Transactions(filters...))
	if p.head > 0 && len(transactions) > p.head {
		transactions = transactions[:p.head]
	}

	printMarkdown(renderer.Transactions(slices.Values(transactions)))
	return subcommands.ExitSuccess
}
