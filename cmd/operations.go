package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/akka"
	"github.com/etnz/akka/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// operate runs op on the session ledger, saves the session and prints the
// receipt. refresh fetches the latest prices first.
func operate(ctx context.Context, refresh bool, op func(a *app) (akka.Receipt, error)) subcommands.ExitStatus {
	a, err := openApp(ctx, refresh)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	r, err := op(a)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var opErr *akka.OpError
		if errors.As(err, &opErr) || errors.Is(err, akka.ErrInvalidAmount) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}
	if err := a.save(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving session %q: %v\n", a.cfg.SessionID, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ReceiptMarkdown(r))
	return subcommands.ExitSuccess
}

// counterValue parses value, or estimates it at the current price when
// empty, with the fee rate applied.
func (a *app) counterValue(value, symbol string, qty akka.Quantity, fee decimal.Decimal) (akka.Money, error) {
	base := a.ledger.Base()
	if value != "" {
		return akka.ParseMoney(value, base)
	}
	m, ok := akka.Estimate(a.prices, symbol, qty, base)
	if !ok {
		return akka.Money{}, fmt.Errorf("%w: no price for %s, use -v to set the value", akka.ErrInvalidAmount, symbol)
	}
	return akka.WithFee(m, fee), nil
}

// --- Buy Command ---

type buyCmd struct {
	symbol   string
	quantity string
	value    string
	fee      float64
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "purchase an asset with fiat" }
func (*buyCmd) Usage() string {
	return `akka buy -s <symbol> -q <quantity> [-v <value>] [-fee <rate>]

  Purchases an asset. The value, fee included, is debited from the fiat balance.
  Without -v, the value is estimated at the latest price plus the fee.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Asset symbol, e.g. BTC")
	f.StringVar(&c.quantity, "q", "", "Quantity to buy")
	f.StringVar(&c.value, "v", "", "Total value paid in base currency, fee included")
	f.Float64Var(&c.fee, "fee", akka.DefaultBuyFee.InexactFloat64(), "Fee rate applied to an estimated value")
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return operate(ctx, c.value == "", func(a *app) (akka.Receipt, error) {
		qty, err := akka.ParseQuantity(c.quantity)
		if err != nil {
			return akka.Receipt{}, err
		}
		value, err := a.counterValue(c.value, c.symbol, qty, decimal.NewFromFloat(c.fee))
		if err != nil {
			return akka.Receipt{}, err
		}
		return a.ledger.Buy(c.symbol, qty, value)
	})
}

// --- Sell Command ---

type sellCmd struct {
	symbol   string
	quantity string
	value    string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell an asset for fiat" }
func (*sellCmd) Usage() string {
	return `akka sell -s <symbol> -q <quantity> [-v <value>]

  Sells part or all of a holding. The proceeds are credited to the fiat balance.
  Without -v, the proceeds are estimated at the latest price.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Asset symbol, e.g. BTC")
	f.StringVar(&c.quantity, "q", "", "Quantity to sell")
	f.StringVar(&c.value, "v", "", "Proceeds in base currency")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return operate(ctx, c.value == "", func(a *app) (akka.Receipt, error) {
		qty, err := akka.ParseQuantity(c.quantity)
		if err != nil {
			return akka.Receipt{}, err
		}
		value, err := a.counterValue(c.value, c.symbol, qty, decimal.Zero)
		if err != nil {
			return akka.Receipt{}, err
		}
		return a.ledger.Sell(c.symbol, qty, value)
	})
}

// --- Send Command ---

type sendCmd struct {
	symbol   string
	quantity string
	to       string
}

func (*sendCmd) Name() string     { return "send" }
func (*sendCmd) Synopsis() string { return "send fiat or an asset to someone" }
func (*sendCmd) Usage() string {
	return `akka send -s <symbol> -q <quantity> [-to <counterparty>]

  Sends fiat (the base currency) or a held asset out of the account.
  Nothing is received in return.
`
}

func (c *sendCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Asset symbol or base currency, e.g. BTC or EUR")
	f.StringVar(&c.quantity, "q", "", "Quantity to send")
	f.StringVar(&c.to, "to", "", "Recipient: a name, a wallet address or an IBAN")
}

func (c *sendCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return operate(ctx, false, func(a *app) (akka.Receipt, error) {
		qty, err := akka.ParseQuantity(c.quantity)
		if err != nil {
			return akka.Receipt{}, err
		}
		return a.ledger.Send(c.symbol, qty, c.to)
	})
}

// --- Receive Command ---

type receiveCmd struct {
	symbol   string
	quantity string
	from     string
}

func (*receiveCmd) Name() string     { return "receive" }
func (*receiveCmd) Synopsis() string { return "record fiat or an asset received from someone" }
func (*receiveCmd) Usage() string {
	return `akka receive -s <symbol> -q <quantity> [-from <counterparty>]

  Credits fiat or an asset to the account. A received asset has no cost basis.
`
}

func (c *receiveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Asset symbol or base currency, e.g. BTC or EUR")
	f.StringVar(&c.quantity, "q", "", "Quantity received")
	f.StringVar(&c.from, "from", "", "Sender: a name, a wallet address or an IBAN")
}

func (c *receiveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return operate(ctx, false, func(a *app) (akka.Receipt, error) {
		qty, err := akka.ParseQuantity(c.quantity)
		if err != nil {
			return akka.Receipt{}, err
		}
		return a.ledger.Receive(c.symbol, qty, c.from)
	})
}

// --- Deposit Command ---

type depositCmd struct {
	amount string
	from   string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "deposit fiat into the account" }
func (*depositCmd) Usage() string {
	return `akka deposit -a <amount> [-from <counterparty>]

  Tops up the fiat balance, e.g. from a bank transfer.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "Amount in base currency")
	f.StringVar(&c.from, "from", "", "Origin of the funds, e.g. an IBAN")
}

func (c *depositCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return operate(ctx, false, func(a *app) (akka.Receipt, error) {
		m, err := akka.ParseMoney(c.amount, a.ledger.Base())
		if err != nil {
			return akka.Receipt{}, err
		}
		return a.ledger.Deposit(m, c.from)
	})
}

// --- Swap Command ---

type swapCmd struct {
	from     string
	to       string
	quantity string
}

func (*swapCmd) Name() string     { return "swap" }
func (*swapCmd) Synopsis() string { return "convert an asset into another one" }
func (*swapCmd) Usage() string {
	return `akka swap -from <symbol> -to <symbol> -q <quantity>

  Converts part of a holding into another asset at the latest price ratio,
  less a 0.5% fee. It is recorded as a sell and a buy of the same value, so
  the fiat balance does not change.
`
}

func (c *swapCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Asset symbol to convert, e.g. BTC")
	f.StringVar(&c.to, "to", "", "Asset symbol to receive, e.g. ETH")
	f.StringVar(&c.quantity, "q", "", "Quantity of the asset to convert")
}

func (c *swapCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.from == "" || c.to == "" || c.quantity == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	qty, err := akka.ParseQuantity(c.quantity)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	r, err := a.ledger.Swap(c.from, c.to, qty)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	if err := a.save(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving session %q: %v\n", a.cfg.SessionID, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.SwapMarkdown(r))
	return subcommands.ExitSuccess
}
