package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/akka"
)

// HoldingMarkdown renders the account held in a snapshot: fiat balance, one
// row per asset valued at the current price, and the totals.
func HoldingMarkdown(s akka.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Holdings\n\n")
	fmt.Fprintf(&b, "- **Net worth**: %s\n", s.NetWorth())
	fmt.Fprintf(&b, "- **Portfolio value**: %s\n", s.TotalPortfolioValue())
	fmt.Fprintf(&b, "- **Fiat balance**: %s\n\n", s.Fiat())

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprintln(w, "| Asset | Quantity | Price | Value | Cost Basis |")
		fmt.Fprintln(w, "|:---|---:|---:|---:|---:|")
		n := 0
		for h := range s.Holdings() {
			price := "n/a"
			if p, ok := s.Price(h.Symbol); ok {
				price = p.String()
			}
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n", h.Symbol, h.Quantity, price, s.ValueOf(h.Symbol), h.CostBasis)
			n++
		}
		fmt.Fprintln(w)
		return n > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		var missing []string
		for sym := range s.Unvalued() {
			missing = append(missing, sym)
		}
		fmt.Fprintf(w, "_No price available for %s, valued at zero._\n", strings.Join(missing, ", "))
		return len(missing) > 0
	})
	return b.String()
}
