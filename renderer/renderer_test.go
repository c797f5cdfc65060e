package renderer

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/etnz/akka"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// tables parses markdown and returns the cells of every table, header row
// included.
func tables(t *testing.T, md string) [][][]string {
	t.Helper()
	source := []byte(md)
	root := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(source))

	var result [][][]string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *east.Table:
			result = append(result, nil)
		case *east.TableHeader, *east.TableRow:
			var row []string
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				row = append(row, cellText(c, source))
			}
			last := len(result) - 1
			result[last] = append(result[last], row)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return result
}

func cellText(n ast.Node, source []byte) string {
	var b strings.Builder
	ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			b.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func demoSnapshot(t *testing.T) akka.Snapshot {
	t.Helper()
	registry, err := akka.DefaultRegistry("EUR")
	if err != nil {
		t.Fatal(err)
	}
	l, err := akka.Restore(registry, akka.DemoState("EUR"), akka.WithQuotes(akka.Prices{
		"BTC": akka.M(40000, "EUR"),
		"ETH": akka.M(3000, "EUR"),
		"ADA": akka.M(1, "EUR"),
		"SOL": akka.M(200, "EUR"),
	}))
	if err != nil {
		t.Fatal(err)
	}
	return l.Snapshot()
}

func TestHoldingMarkdown(t *testing.T) {
	md := HoldingMarkdown(demoSnapshot(t))

	got := tables(t, md)
	if len(got) != 1 {
		t.Fatalf("found %d tables, want 1:\n%s", len(got), md)
	}
	rows := got[0]
	if len(rows) != 6 {
		t.Fatalf("found %d rows, want header + 5 holdings:\n%s", len(rows), md)
	}
	var symbols []string
	for _, row := range rows[1:] {
		symbols = append(symbols, row[0])
	}
	if want := []string{"ADA", "BTC", "DOT", "ETH", "SOL"}; !slices.Equal(symbols, want) {
		t.Errorf("holding order = %v, want %v", symbols, want)
	}
	if btc := rows[2]; btc[1] != "0.125" || btc[3] != "€5,000.00" {
		t.Errorf("BTC row = %v", btc)
	}
	if dot := rows[3]; dot[2] != "n/a" {
		t.Errorf("DOT row = %v, want no price", dot)
	}
	if !strings.Contains(md, "No price available for DOT") {
		t.Errorf("missing unvalued note:\n%s", md)
	}
}

func TestHoldingMarkdown_Empty(t *testing.T) {
	registry, _ := akka.DefaultRegistry("EUR")
	md := HoldingMarkdown(akka.NewLedger(registry).Snapshot())
	if got := tables(t, md); len(got) != 0 {
		t.Errorf("an empty account renders %d tables:\n%s", len(got), md)
	}
	if strings.Contains(md, "No price available") {
		t.Errorf("an empty account has nothing unvalued:\n%s", md)
	}
}

func TestTransactions(t *testing.T) {
	s := demoSnapshot(t)
	md := Transactions(s.Transactions())

	got := tables(t, md)
	if len(got) != 1 || len(got[0]) != 6 {
		t.Fatalf("unexpected tables %v in:\n%s", got, md)
	}
	first := got[0][1]
	if want := []string{"2025-01-22 14:30", "buy", "BTC", "0.025", "€2,970.50", "", "completed"}; !slices.Equal(first, want) {
		t.Errorf("first row = %q, want %q", first, want)
	}
	if last := got[0][5]; last[1] != "send" || last[4] != "" {
		t.Errorf("last row = %q, want a send without value", last)
	}

	empty := Transactions(s.Transactions(akka.ByKind(akka.CmdReceive)))
	if !strings.Contains(empty, "No transactions") {
		t.Errorf("empty list:\n%s", empty)
	}
}

func TestTransaction(t *testing.T) {
	testCases := []struct {
		tx   akka.Transaction
		want string
	}{
		{akka.Transaction{Kind: akka.CmdBuy, Symbol: "BTC", Quantity: akka.Q(0.01), CounterValue: akka.M(500, "EUR")}, "Bought 0.01 BTC for €500.00"},
		{akka.Transaction{Kind: akka.CmdSell, Symbol: "ETH", Quantity: akka.Q(2.5), CounterValue: akka.M(8000, "EUR")}, "Sold 2.5 ETH for €8,000.00"},
		{akka.Transaction{Kind: akka.CmdSend, Symbol: "EUR", Quantity: akka.Q(250), Counterparty: "Maria Garcia"}, "Sent 250 EUR to Maria Garcia"},
		{akka.Transaction{Kind: akka.CmdReceive, Symbol: "DOT", Quantity: akka.Q(75)}, "Received 75 DOT from unknown"},
		{akka.Transaction{Kind: akka.CmdDeposit, Symbol: "EUR", CounterValue: akka.M(500, "EUR")}, "Deposited €500.00"},
	}
	for _, tc := range testCases {
		if got := Transaction(tc.tx); got != tc.want {
			t.Errorf("Transaction() = %q, want %q", got, tc.want)
		}
	}
}

func TestPricesMarkdown(t *testing.T) {
	md := PricesMarkdown(akka.FallbackPrices("EUR"), time.Time{})
	if !strings.Contains(md, "Fallback prices") {
		t.Errorf("missing fallback note:\n%s", md)
	}
	rows := tables(t, md)[0]
	if len(rows) != 9 || rows[1][0] != "ADA" {
		t.Errorf("rows = %v", rows)
	}

	md = PricesMarkdown(akka.Prices{"BTC": akka.M(1, "EUR")}, time.Date(2025, 1, 22, 10, 0, 0, 0, time.UTC))
	if !strings.Contains(md, "Updated 2025-01-22T10:00:00Z") {
		t.Errorf("missing update time:\n%s", md)
	}
}

func TestTrendingMarkdown(t *testing.T) {
	quotes := []akka.Quote{
		{Symbol: "BTC", Price: akka.M(109408, "EUR"), Change24h: decimal.RequireFromString("1.234"), MarketCap: akka.M(2.1e12, "EUR")},
		{Symbol: "ETH", Price: akka.M(3073, "EUR"), Change24h: decimal.RequireFromString("-4.5"), MarketCap: akka.M(370e9, "EUR")},
		{Symbol: "DOT", Price: akka.M(7, "EUR"), MarketCap: akka.M(0, "EUR")},
	}
	md := TrendingMarkdown(quotes, time.Date(2025, 1, 22, 10, 0, 0, 0, time.UTC))

	rows := tables(t, md)[0]
	if len(rows) != 4 {
		t.Fatalf("rows = %v", rows)
	}
	if want := []string{"1", "BTC", "€109,408.00", "+1.23%", "€2,100,000,000,000.00"}; !slices.Equal(rows[1], want) {
		t.Errorf("first row = %q, want %q", rows[1], want)
	}
	if rows[2][3] != "-4.50%" {
		t.Errorf("ETH change = %q, want -4.50%%", rows[2][3])
	}
	if rows[3][3] != "" || rows[3][4] != "" {
		t.Errorf("DOT without market data = %q", rows[3])
	}

	if md := TrendingMarkdown(nil, time.Time{}); !strings.Contains(md, "No prices") || !strings.Contains(md, "no market data") {
		t.Errorf("empty trending:\n%s", md)
	}
}

func TestSwapMarkdown(t *testing.T) {
	registry, _ := akka.DefaultRegistry("EUR")
	l := akka.NewLedger(registry, akka.WithQuotes(akka.Prices{"BTC": akka.M(40000, "EUR"), "ETH": akka.M(2000, "EUR")}))
	if _, err := l.Receive("BTC", akka.Q(0.1), "wallet"); err != nil {
		t.Fatal(err)
	}
	r, err := l.Swap("BTC", "ETH", akka.Q(0.05))
	if err != nil {
		t.Fatal(err)
	}

	md := SwapMarkdown(r)
	for _, want := range []string{"Swapped 0.05 BTC for 0.995 ETH, worth €2,000.00.", "**BTC position**: 0.05", "**ETH position**: 0.995", r.Sell.ID, r.Buy.ID} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q in:\n%s", want, md)
		}
	}
}
