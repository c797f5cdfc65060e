package akka

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// DefaultBaseCurrency is the unit of account of a new ledger.
const DefaultBaseCurrency = "EUR"

// Asset describes a tradable symbol.
type Asset struct {
	Symbol string
	Name   string
}

// Registry is the fixed set of tradable assets and the single fiat base
// currency. It is immutable once built.
type Registry struct {
	base   string
	assets map[string]Asset
}

// NewRegistry builds a registry. The base currency must be a valid ISO 4217
// code and cannot also be listed as an asset.
func NewRegistry(base string, assets ...Asset) (*Registry, error) {
	if err := ValidateCurrency(base); err != nil {
		return nil, fmt.Errorf("invalid base currency: %w", err)
	}
	r := &Registry{base: base, assets: make(map[string]Asset, len(assets))}
	for _, a := range assets {
		sym := strings.ToUpper(strings.TrimSpace(a.Symbol))
		if sym == "" {
			return nil, fmt.Errorf("asset %q has no symbol", a.Name)
		}
		if sym == base {
			return nil, fmt.Errorf("asset %q collides with the base currency", sym)
		}
		if _, dup := r.assets[sym]; dup {
			return nil, fmt.Errorf("asset %q declared twice", sym)
		}
		a.Symbol = sym
		r.assets[sym] = a
	}
	return r, nil
}

// DefaultAssets are the crypto assets listed by the app.
var DefaultAssets = []Asset{
	{"BTC", "Bitcoin"},
	{"ETH", "Ethereum"},
	{"BNB", "BNB"},
	{"ADA", "Cardano"},
	{"SOL", "Solana"},
	{"XRP", "XRP"},
	{"DOGE", "Dogecoin"},
	{"AVAX", "Avalanche"},
	{"DOT", "Polkadot"},
	{"MATIC", "Polygon"},
	{"LINK", "Chainlink"},
	{"UNI", "Uniswap"},
	{"LTC", "Litecoin"},
	{"BCH", "Bitcoin Cash"},
	{"ATOM", "Cosmos"},
}

// DefaultRegistry returns the registry of DefaultAssets in the given base
// currency.
func DefaultRegistry(base string) (*Registry, error) {
	return NewRegistry(base, DefaultAssets...)
}

// Base returns the fiat base currency.
func (r *Registry) Base() string { return r.base }

// IsBase reports whether symbol designates the base currency.
func (r *Registry) IsBase(symbol string) bool { return symbol == r.base }

// Asset returns the asset registered under symbol.
func (r *Registry) Asset(symbol string) (Asset, bool) {
	a, ok := r.assets[symbol]
	return a, ok
}

// Symbols iterates over registered asset symbols in alphabetical order.
func (r *Registry) Symbols() iter.Seq[string] {
	return func(yield func(string) bool) {
		symbols := slices.Collect(maps.Keys(r.assets))
		slices.Sort(symbols)
		for _, s := range symbols {
			if !yield(s) {
				return
			}
		}
	}
}

// normalize upper-cases a user provided symbol.
func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
