package akka

import (
	"iter"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// dust is the quantity under which a holding is considered fully disposed.
var dust = Quantity{value: decimal.New(1, -12)}

// Holding is a position in one asset.
type Holding struct {
	Symbol    string
	Quantity  Quantity // always positive
	CostBasis Money    // base currency nominally invested
}

// AverageCost returns the cost basis of one unit.
func (h Holding) AverageCost() Money {
	if h.Quantity.IsZero() {
		return M(0, h.CostBasis.Currency())
	}
	return h.CostBasis.Div(h.Quantity)
}

// MarshalJSON implements the json.Marshaler interface for Holding.
func (h Holding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", h.Symbol)
	w.Append("quantity", h.Quantity)
	w.Append("costBasis", h.CostBasis)
	return w.MarshalJSON()
}

// account is the single user's financial state. It is only reachable through
// the Ledger.
type account struct {
	fiat     Money
	holdings map[string]Holding
}

func newAccount(base string) *account {
	return &account{fiat: M(0, base), holdings: make(map[string]Holding)}
}

func (a *account) clone() *account {
	return &account{fiat: a.fiat, holdings: maps.Clone(a.holdings)}
}

// position returns the quantity held in symbol, zero if absent.
func (a *account) position(symbol string) Quantity {
	return a.holdings[symbol].Quantity
}

// acquire adds quantity to the holding, creating it if needed.
func (a *account) acquire(symbol string, quantity Quantity, cost Money) {
	h, ok := a.holdings[symbol]
	if !ok {
		h = Holding{Symbol: symbol, CostBasis: M(0, a.fiat.Currency())}
	}
	h.Quantity = h.Quantity.Add(quantity)
	h.CostBasis = h.CostBasis.Add(cost)
	a.holdings[symbol] = h
}

// dispose removes quantity from the holding and reduces its cost basis
// proportionally (average cost). It returns the cost basis released. The
// holding is removed when what remains is dust.
func (a *account) dispose(symbol string, quantity Quantity) Money {
	h := a.holdings[symbol]
	remaining := h.Quantity.Sub(quantity)
	if remaining.LessThanOrEqual(dust) {
		delete(a.holdings, symbol)
		return h.CostBasis
	}
	released := h.CostBasis.Mul(quantity).Div(h.Quantity)
	h.Quantity = remaining
	h.CostBasis = h.CostBasis.Sub(released)
	a.holdings[symbol] = h
	return released
}

// symbols iterates over held symbols in alphabetical order.
func (a *account) symbols() iter.Seq[string] {
	return func(yield func(string) bool) {
		keys := slices.Collect(maps.Keys(a.holdings))
		slices.Sort(keys)
		for _, k := range keys {
			if !yield(k) {
				return
			}
		}
	}
}
