package renderer

import (
	"fmt"
	"strings"
	"time"

	"github.com/etnz/akka"
)

// PricesMarkdown renders a price list. A zero updated time means the prices
// are the static fallback set.
func PricesMarkdown(prices akka.Prices, updated time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Prices\n\n")
	if updated.IsZero() {
		fmt.Fprintf(&b, "_Fallback prices, not refreshed._\n\n")
	} else {
		fmt.Fprintf(&b, "_Updated %s._\n\n", updated.UTC().Format(time.RFC3339))
	}
	fmt.Fprintln(&b, "| Asset | Price |")
	fmt.Fprintln(&b, "|:---|---:|")
	for sym := range prices.Symbols() {
		fmt.Fprintf(&b, "| %s | %s |\n", sym, prices[sym])
	}
	return b.String()
}

// TrendingMarkdown renders quotes ranked as given. Assets without market
// data show no change nor market cap.
func TrendingMarkdown(quotes []akka.Quote, updated time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Trending\n\n")
	if updated.IsZero() {
		fmt.Fprintf(&b, "_Fallback prices, no market data._\n\n")
	} else {
		fmt.Fprintf(&b, "_Ranked by market cap, updated %s._\n\n", updated.UTC().Format(time.RFC3339))
	}
	fmt.Fprintln(&b, "| # | Asset | Price | 24h | Market cap |")
	fmt.Fprintln(&b, "|---:|:---|---:|---:|---:|")
	for i, q := range quotes {
		change, mcap := "", ""
		if !q.MarketCap.IsZero() {
			change = q.Change24h.StringFixed(2) + "%"
			if q.Change24h.IsPositive() {
				change = "+" + change
			}
			mcap = q.MarketCap.String()
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n", i+1, q.Symbol, q.Price, change, mcap)
	}
	if len(quotes) == 0 {
		fmt.Fprintf(&b, "\n_No prices._\n")
	}
	return b.String()
}
