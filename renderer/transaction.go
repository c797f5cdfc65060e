package renderer

import (
	"fmt"
	"iter"
	"strings"

	"github.com/etnz/akka"
)

// Transaction renders a transaction to a one line sentence.
func Transaction(tx akka.Transaction) string {
	switch tx.Kind {
	case akka.CmdBuy:
		return fmt.Sprintf("Bought %s %s for %s", tx.Quantity, tx.Symbol, tx.CounterValue)
	case akka.CmdSell:
		return fmt.Sprintf("Sold %s %s for %s", tx.Quantity, tx.Symbol, tx.CounterValue)
	case akka.CmdSend:
		return fmt.Sprintf("Sent %s %s to %s", tx.Quantity, tx.Symbol, orUnknown(tx.Counterparty))
	case akka.CmdReceive:
		return fmt.Sprintf("Received %s %s from %s", tx.Quantity, tx.Symbol, orUnknown(tx.Counterparty))
	case akka.CmdDeposit:
		return fmt.Sprintf("Deposited %s", tx.CounterValue)
	default:
		return string(tx.What())
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// Transactions renders the transactions as a table, in the order given.
func Transactions(txs iter.Seq[akka.Transaction]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Transactions\n\n")
	fmt.Fprintln(&b, "| Date | Kind | Asset | Quantity | Value | Counterparty | Status |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|:---|:---|")
	n := 0
	for tx := range txs {
		value := ""
		if tx.HasCounterValue() {
			value = tx.CounterValue.String()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			tx.When().Format("2006-01-02 15:04"),
			tx.Kind,
			tx.Symbol,
			tx.Quantity,
			value,
			escape(tx.Counterparty),
			tx.Status,
		)
		n++
	}
	if n == 0 {
		fmt.Fprintf(&b, "\n_No transactions._\n")
	}
	return b.String()
}

// ReceiptMarkdown renders the outcome of a successful operation.
func ReceiptMarkdown(r akka.Receipt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s.\n\n", Transaction(r.Transaction))
	fmt.Fprintf(&b, "- **Fiat balance**: %s\n", r.Snapshot.Fiat())
	if r.Transaction.Symbol != r.Snapshot.Base() {
		fmt.Fprintf(&b, "- **%s position**: %s\n", r.Transaction.Symbol, r.Snapshot.Position(r.Transaction.Symbol))
	}
	fmt.Fprintf(&b, "- **Transaction**: `%s`\n", r.Transaction.ID)
	return b.String()
}

// SwapMarkdown renders the outcome of a swap.
func SwapMarkdown(r akka.SwapReceipt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Swapped %s %s for %s %s, worth %s.\n\n",
		r.Sell.Quantity, r.Sell.Symbol, r.Buy.Quantity, r.Buy.Symbol, r.Sell.CounterValue)
	fmt.Fprintf(&b, "- **%s position**: %s\n", r.Sell.Symbol, r.Snapshot.Position(r.Sell.Symbol))
	fmt.Fprintf(&b, "- **%s position**: %s\n", r.Buy.Symbol, r.Snapshot.Position(r.Buy.Symbol))
	fmt.Fprintf(&b, "- **Transactions**: `%s`, `%s`\n", r.Sell.ID, r.Buy.ID)
	return b.String()
}

// escape keeps free text from breaking a table row.
func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
