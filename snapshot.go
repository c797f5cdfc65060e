package akka

import (
	"encoding/json"
	"iter"
)

// Snapshot is a read-only view of the ledger as it was right after some
// completed operation. It never observes later mutations, and every query on
// it is free of side effects.
type Snapshot struct {
	base    string
	account *account
	journal *Journal
	quotes  QuoteProvider
}

// Base returns the base currency.
func (s Snapshot) Base() string { return s.base }

// Fiat returns the fiat balance in the base currency.
func (s Snapshot) Fiat() Money {
	if s.account == nil {
		return M(0, s.base)
	}
	return s.account.fiat
}

// Holding returns the holding in symbol, if any.
func (s Snapshot) Holding(symbol string) (Holding, bool) {
	if s.account == nil {
		return Holding{}, false
	}
	h, ok := s.account.holdings[normalize(symbol)]
	return h, ok
}

// Holdings iterates over holdings in alphabetical order of symbol.
func (s Snapshot) Holdings() iter.Seq[Holding] {
	return func(yield func(Holding) bool) {
		if s.account == nil {
			return
		}
		for sym := range s.account.symbols() {
			if !yield(s.account.holdings[sym]) {
				return
			}
		}
	}
}

// Position returns the quantity held in symbol, zero if absent.
func (s Snapshot) Position(symbol string) Quantity {
	h, _ := s.Holding(symbol)
	return h.Quantity
}

// Price returns the current unit price of symbol.
func (s Snapshot) Price(symbol string) (Money, bool) {
	return priceOf(s.quotes, normalize(symbol), s.base)
}

// ValueOf returns quantity × current price for symbol, zero when the symbol
// is not held or its valuation is unavailable.
func (s Snapshot) ValueOf(symbol string) Money {
	h, ok := s.Holding(symbol)
	if !ok {
		return M(0, s.base)
	}
	return ValueOf(h, s.quotes, s.base)
}

// TotalPortfolioValue returns the sum of ValueOf over all held symbols.
func (s Snapshot) TotalPortfolioValue() Money {
	return TotalValue(s.Holdings(), s.quotes, s.base)
}

// TotalCostBasis returns the sum of the cost basis of all holdings.
func (s Snapshot) TotalCostBasis() Money {
	total := M(0, s.base)
	for h := range s.Holdings() {
		total = total.Add(h.CostBasis)
	}
	return total
}

// NetWorth returns the fiat balance plus the total portfolio value.
func (s Snapshot) NetWorth() Money {
	return s.Fiat().Add(s.TotalPortfolioValue())
}

// Unvalued iterates over held symbols that have no known price.
func (s Snapshot) Unvalued() iter.Seq[string] {
	return func(yield func(string) bool) {
		for h := range s.Holdings() {
			if _, ok := priceOf(s.quotes, h.Symbol, s.base); ok {
				continue
			}
			if !yield(h.Symbol) {
				return
			}
		}
	}
}

// Transactions returns the transactions accepted by all filters, newest
// first.
func (s Snapshot) Transactions(filters ...func(Transaction) bool) iter.Seq[Transaction] {
	if s.journal == nil {
		return func(func(Transaction) bool) {}
	}
	return s.journal.Matching(filters...)
}

// Len returns the number of transactions in the journal.
func (s Snapshot) Len() int {
	if s.journal == nil {
		return 0
	}
	return s.journal.Len()
}

// MarshalJSON implements the json.Marshaler interface for Snapshot.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	holdings := []json.RawMessage{}
	for h := range s.Holdings() {
		var hw jsonObjectWriter
		hw.EmbedFrom(h)
		if price, ok := s.Price(h.Symbol); ok {
			hw.Append("price", price)
		}
		hw.Append("value", s.ValueOf(h.Symbol))
		raw, err := hw.MarshalJSON()
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, raw)
	}

	var w jsonObjectWriter
	w.Append("base", s.base)
	w.Append("fiat", s.Fiat())
	w.Append("holdings", holdings)
	w.Append("totalPortfolioValue", s.TotalPortfolioValue())
	w.Append("netWorth", s.NetWorth())
	w.Append("transactionCount", s.Len())
	return w.MarshalJSON()
}
