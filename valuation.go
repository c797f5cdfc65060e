package akka

import (
	"iter"

	"github.com/shopspring/decimal"
)

// The canonical valuation of a holding is quantity × current price. The
// stored cost basis is bookkeeping only and never used as a value.

// DefaultBuyFee is the fee rate the app charges on purchases (1.5%).
var DefaultBuyFee = decimal.RequireFromString("0.015")

// priceOf returns the price of symbol if it is known and expressed in base.
func priceOf(quotes QuoteProvider, symbol, base string) (Money, bool) {
	if quotes == nil {
		return Money{}, false
	}
	price, ok := quotes.PriceOf(symbol)
	if !ok || price.Currency() != base || price.IsNegative() {
		return Money{}, false
	}
	return price, true
}

// ValueOf returns the value of h in base currency at the current price, or
// zero when no price is available.
func ValueOf(h Holding, quotes QuoteProvider, base string) Money {
	price, ok := priceOf(quotes, h.Symbol, base)
	if !ok {
		return M(0, base)
	}
	return price.Mul(h.Quantity)
}

// TotalValue returns the sum of ValueOf over holdings.
func TotalValue(holdings iter.Seq[Holding], quotes QuoteProvider, base string) Money {
	total := M(0, base)
	for h := range holdings {
		total = total.Add(ValueOf(h, quotes, base))
	}
	return total
}

// WithFee returns amount increased by rate, rounded to the currency's minor
// unit. It is the counter value a caller passes to Buy.
func WithFee(amount Money, rate decimal.Decimal) Money {
	fee := amount.Mul(Quantity{value: rate})
	return amount.Add(fee).Round()
}

// Estimate returns the base currency cost of quantity units of symbol at the
// current price, before fees.
func Estimate(quotes QuoteProvider, symbol string, quantity Quantity, base string) (Money, bool) {
	price, ok := priceOf(quotes, normalize(symbol), base)
	if !ok {
		return Money{}, false
	}
	return price.Mul(quantity).Round(), true
}
