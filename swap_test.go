package akka

import (
	"errors"
	"reflect"
	"slices"
	"testing"
)

func TestLedger_Swap(t *testing.T) {
	quotes := Prices{"BTC": M(40000, "EUR"), "ETH": M(2000, "EUR")}
	l := newTestLedger(t, 1000, quotes)
	mustDo(t, l.Buy("BTC", Q(0.1), M(1000, "EUR")))
	n := l.Snapshot().Len()

	r, err := l.Swap("btc", "eth", Q(0.05))
	if err != nil {
		t.Fatalf("Swap() error = %v", err)
	}
	s := r.Snapshot

	// 0.05 × 40000 = 2000, less 0.5%, at 2000 per ETH.
	if got := s.Position("ETH"); !got.Equal(Q(0.995)) {
		t.Errorf("Position(ETH) = %v, want 0.995", got)
	}
	if got := s.Position("BTC"); !got.Equal(Q(0.05)) {
		t.Errorf("Position(BTC) = %v, want 0.05", got)
	}
	if got := s.Fiat(); !got.Equal(M(0, "EUR")) {
		t.Errorf("Fiat() = %v, want 0, a swap does not touch fiat", got)
	}
	eth, _ := s.Holding("ETH")
	if !eth.CostBasis.Equal(M(2000, "EUR")) {
		t.Errorf("ETH cost basis = %v, want 2000", eth.CostBasis)
	}
	btc, _ := s.Holding("BTC")
	if !btc.CostBasis.Equal(M(500, "EUR")) {
		t.Errorf("BTC cost basis = %v, want 500", btc.CostBasis)
	}

	if got := s.Len() - n; got != 2 {
		t.Fatalf("journal grew by %d, want 2", got)
	}
	var legs []Transaction
	for tx := range s.Transactions() {
		legs = append(legs, tx)
		if len(legs) == 2 {
			break
		}
	}
	if legs[0].ID != r.Buy.ID || legs[1].ID != r.Sell.ID {
		t.Errorf("journal head = %s, %s, want buy %s then sell %s", legs[0].ID, legs[1].ID, r.Buy.ID, r.Sell.ID)
	}
	if r.Sell.Kind != CmdSell || r.Sell.Symbol != "BTC" || !r.Sell.CounterValue.Equal(M(2000, "EUR")) {
		t.Errorf("sell leg = %+v", r.Sell)
	}
	if r.Buy.Kind != CmdBuy || r.Buy.Symbol != "ETH" || !r.Buy.CounterValue.Equal(M(2000, "EUR")) {
		t.Errorf("buy leg = %+v", r.Buy)
	}
	if !r.Sell.Timestamp.Equal(r.Buy.Timestamp) {
		t.Errorf("legs have different timestamps: %v, %v", r.Sell.Timestamp, r.Buy.Timestamp)
	}
}

func TestLedger_Swap_Rejections(t *testing.T) {
	quotes := Prices{"BTC": M(40000, "EUR"), "ETH": M(2000, "EUR")}
	testCases := []struct {
		name   string
		quotes QuoteProvider
		from   string
		to     string
		qty    Quantity
		want   error
	}{
		{"not held", quotes, "ETH", "BTC", Q(1), ErrInsufficientHoldings},
		{"more than held", quotes, "BTC", "ETH", Q(0.11), ErrInsufficientHoldings},
		{"unknown target", quotes, "BTC", "FOO", Q(0.01), ErrUnknownSymbol},
		{"unknown source", quotes, "FOO", "ETH", Q(0.01), ErrUnknownSymbol},
		{"from base currency", quotes, "EUR", "ETH", Q(10), ErrUnknownSymbol},
		{"into base currency", quotes, "BTC", "EUR", Q(0.01), ErrUnknownSymbol},
		{"into itself", quotes, "BTC", "btc", Q(0.01), ErrInvalidAmount},
		{"zero quantity", quotes, "BTC", "ETH", Q(0), ErrInvalidAmount},
		{"unpriced target", quotes, "BTC", "SOL", Q(0.01), ErrInvalidAmount},
		{"no quotes", nil, "BTC", "ETH", Q(0.01), ErrInvalidAmount},
		{"value below a cent", quotes, "BTC", "ETH", Q(0.0000001), ErrInvalidAmount},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := newTestLedger(t, 1000, tc.quotes)
			mustDo(t, l.Receive("BTC", Q(0.1), "seed"))
			before := l.State()

			_, err := l.Swap(tc.from, tc.to, tc.qty)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got error %v, want %v", err, tc.want)
			}
			var opErr *OpError
			if !errors.As(err, &opErr) {
				t.Errorf("error %T is not an *OpError", err)
			}
			if after := l.State(); !reflect.DeepEqual(before, after) {
				t.Errorf("rejected swap changed the ledger:\nbefore %+v\nafter  %+v", before, after)
			}
		})
	}
}

func TestEstimateSwap(t *testing.T) {
	quotes := Prices{"BTC": M(40000, "EUR"), "ETH": M(2000, "EUR")}

	got, ok := EstimateSwap(quotes, "BTC", "eth", Q(0.05), "EUR", DefaultSwapFee)
	if !ok || !got.Equal(Q(0.995)) {
		t.Errorf("EstimateSwap(BTC→ETH) = %v, %v, want 0.995", got, ok)
	}
	for _, pair := range [][2]string{{"BTC", "SOL"}, {"SOL", "BTC"}} {
		if _, ok := EstimateSwap(quotes, pair[0], pair[1], Q(1), "EUR", DefaultSwapFee); ok {
			t.Errorf("EstimateSwap(%s→%s) must fail without both prices", pair[0], pair[1])
		}
	}

	// a swap never creates value: the round trip loses both fees.
	l := newTestLedger(t, 0, quotes)
	mustDo(t, l.Receive("BTC", Q(1), "seed"))
	r := mustSwap(t, l.Swap("BTC", "ETH", Q(1)))
	r = mustSwap(t, l.Swap("ETH", "BTC", r.Snapshot.Position("ETH")))
	if got := r.Snapshot.Position("BTC"); !got.LessThan(Q(1)) {
		t.Errorf("round trip position = %v, want less than 1", got)
	}
	if got := slices.Collect(r.Snapshot.Holdings()); len(got) != 1 {
		t.Errorf("holdings after round trip = %v, want BTC only", got)
	}
}

func mustSwap(t *testing.T, r SwapReceipt, err error) SwapReceipt {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return r
}
