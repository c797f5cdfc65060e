package akka

import (
	"cmp"
	"iter"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// QuoteProvider supplies the current unit price of an asset in the base
// currency. ok is false when no price is known for symbol.
type QuoteProvider interface {
	PriceOf(symbol string) (price Money, ok bool)
}

// Prices is a plain QuoteProvider backed by a map.
type Prices map[string]Money

func (p Prices) PriceOf(symbol string) (Money, bool) {
	price, ok := p[symbol]
	return price, ok
}

// fallbackQuotes are static reference prices per base currency, used until
// a live quote has been fetched.
var fallbackQuotes = map[string]map[string]float64{
	"EUR": {"BTC": 109408, "ETH": 3073, "ADA": 1.06, "DOT": 7.00, "SOL": 264, "MATIC": 0.45, "LINK": 15.20, "AVAX": 45.60},
	"USD": {"BTC": 127960, "ETH": 3594, "ADA": 1.24, "DOT": 8.19, "SOL": 308.8, "MATIC": 0.53, "LINK": 17.78, "AVAX": 53.33},
}

// FallbackPrices returns the static price set quoted in base, used when no
// live quote has been fetched yet. It is empty for a base without reference
// prices: holdings are then valued at zero until the first refresh.
func FallbackPrices(base string) Prices {
	prices := Prices{}
	for symbol, price := range fallbackQuotes[base] {
		prices[symbol] = M(price, base)
	}
	return prices
}

// PriceBook is a QuoteProvider safe for concurrent use. It is written by the
// quote refresher and read by valuations.
type PriceBook struct {
	mu      sync.RWMutex
	prices  map[string]Money
	market  map[string]Quote
	updated time.Time
}

// Quote is the market data of an asset: its price and, when the source
// reports them, the 24h change in percent and the market capitalization.
type Quote struct {
	Symbol    string          `json:"symbol"`
	Price     Money           `json:"price"`
	Change24h decimal.Decimal `json:"percentChange24h"`
	MarketCap Money           `json:"marketCap"`
}

// QuotePrices returns the price of each quote.
func QuotePrices(quotes []Quote) Prices {
	prices := make(Prices, len(quotes))
	for _, q := range quotes {
		prices[q.Symbol] = q.Price
	}
	return prices
}

// NewPriceBook returns a price book initialized with a copy of initial.
func NewPriceBook(initial Prices) *PriceBook {
	b := &PriceBook{prices: make(map[string]Money, len(initial)), market: map[string]Quote{}}
	maps.Copy(b.prices, initial)
	return b
}

func (b *PriceBook) PriceOf(symbol string) (Money, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	price, ok := b.prices[symbol]
	return price, ok
}

// Update merges prices into the book. Symbols absent from prices keep their
// previous value, so a partial answer degrades to stale prices.
func (b *PriceBook) Update(prices Prices, at time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	maps.Copy(b.prices, prices)
	b.updated = at
}

// UpdateQuotes merges market quotes into the book, prices included.
func (b *PriceBook) UpdateQuotes(quotes []Quote, at time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, q := range quotes {
		b.prices[q.Symbol] = q.Price
		b.market[q.Symbol] = q
	}
	b.updated = at
}

// Trending returns at most n quotes ranked by market capitalization, largest
// first. Symbols priced without market data rank last, alphabetically.
// n <= 0 returns every quote.
func (b *PriceBook) Trending(n int) []Quote {
	b.mu.RLock()
	quotes := make([]Quote, 0, len(b.prices))
	for symbol, price := range b.prices {
		q, ok := b.market[symbol]
		if !ok {
			q = Quote{Symbol: symbol, MarketCap: M(0, price.Currency())}
		}
		q.Price = price
		quotes = append(quotes, q)
	}
	b.mu.RUnlock()

	slices.SortFunc(quotes, func(x, y Quote) int {
		if c := y.MarketCap.Decimal().Cmp(x.MarketCap.Decimal()); c != 0 {
			return c
		}
		return cmp.Compare(x.Symbol, y.Symbol)
	})
	if n > 0 && len(quotes) > n {
		quotes = quotes[:n]
	}
	return quotes
}

// Updated returns the time of the last successful update, zero if none.
func (b *PriceBook) Updated() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.updated
}

// All returns a copy of the known prices.
func (b *PriceBook) All() Prices {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return maps.Clone(b.prices)
}

// Symbols iterates over priced symbols in alphabetical order.
func (p Prices) Symbols() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(p)))
}
