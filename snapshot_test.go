package akka

import (
	"reflect"
	"slices"
	"testing"
)

func TestSnapshot_Valuation(t *testing.T) {
	quotes := Prices{"BTC": M(40000, "EUR"), "ETH": M(3000, "EUR")}
	l := newTestLedger(t, 10000, quotes)
	mustDo(t, l.Buy("BTC", Q(0.1), M(3500, "EUR")))
	mustDo(t, l.Buy("ETH", Q(1), M(2900, "EUR")))
	mustDo(t, l.Receive("DOT", Q(10), "friend"))

	s := l.Snapshot()

	testCases := []struct {
		name string
		got  Money
		want Money
	}{
		{"BTC", s.ValueOf("BTC"), M(4000, "EUR")},
		{"ETH", s.ValueOf("eth"), M(3000, "EUR")},
		{"unpriced DOT", s.ValueOf("DOT"), M(0, "EUR")},
		{"not held", s.ValueOf("SOL"), M(0, "EUR")},
		{"total", s.TotalPortfolioValue(), M(7000, "EUR")},
		{"cost basis", s.TotalCostBasis(), M(6400, "EUR")},
		{"fiat", s.Fiat(), M(3600, "EUR")},
		{"net worth", s.NetWorth(), M(10600, "EUR")},
		{"ledger value", l.ValueOf("BTC"), M(4000, "EUR")},
		{"ledger total", l.TotalPortfolioValue(), M(7000, "EUR")},
		{"ledger net worth", l.NetWorth(), M(10600, "EUR")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.got.Equal(tc.want) {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}

	if got := slices.Collect(s.Unvalued()); !slices.Equal(got, []string{"DOT"}) {
		t.Errorf("Unvalued() = %v, want [DOT]", got)
	}

	var symbols []string
	for h := range s.Holdings() {
		symbols = append(symbols, h.Symbol)
	}
	if !slices.Equal(symbols, []string{"BTC", "DOT", "ETH"}) {
		t.Errorf("Holdings() order = %v", symbols)
	}
}

func TestSnapshot_Queries_Idempotent(t *testing.T) {
	l := newTestLedger(t, 1000, FallbackPrices("EUR"))
	mustDo(t, l.Buy("SOL", Q(2), M(528, "EUR")))
	before := l.State()

	for range 3 {
		l.Snapshot().TotalPortfolioValue()
		l.ValueOf("SOL")
		for range l.Transactions() {
		}
	}
	if after := l.State(); !reflect.DeepEqual(before, after) {
		t.Error("queries changed the ledger")
	}
}

func TestSnapshot_Isolation(t *testing.T) {
	l := newTestLedger(t, 1000, nil)
	r := mustDo(t, l.Buy("BTC", Q(0.01), M(500, "EUR")))

	mustDo(t, l.Sell("BTC", Q(0.01), M(510, "EUR")))

	if got := r.Snapshot.Position("BTC"); !got.Equal(Q(0.01)) {
		t.Errorf("old snapshot observed a later sell: position %v", got)
	}
	if got := r.Snapshot.Len(); got != 2 {
		t.Errorf("old snapshot Len() = %d, want 2", got)
	}
}

func TestSnapshot_SharedJournal(t *testing.T) {
	l := newTestLedger(t, 1000, nil)
	var receipts []Receipt
	for range 20 {
		receipts = append(receipts, mustDo(t, l.Deposit(M(1, "EUR"), "bank")))
	}

	for i, r := range receipts {
		// +1 for the funding deposit of newTestLedger.
		if got, want := r.Snapshot.Len(), i+2; got != want {
			t.Fatalf("receipt %d: Len() = %d, want %d", i, got, want)
		}
		newest, _ := r.Snapshot.journal.Newest()
		if newest.ID != r.Transaction.ID {
			t.Errorf("receipt %d: newest transaction %s, want %s", i, newest.ID, r.Transaction.ID)
		}
		if entries := r.Snapshot.journal.entries; cap(entries) != len(entries) {
			t.Errorf("receipt %d: journal view has spare capacity %d", i, cap(entries)-len(entries))
		}
	}
}

func TestSnapshot_Empty(t *testing.T) {
	var s Snapshot
	if !s.Fiat().IsZero() || !s.TotalPortfolioValue().IsZero() || s.Len() != 0 {
		t.Error("zero Snapshot is not empty")
	}
	for range s.Transactions() {
		t.Error("zero Snapshot has transactions")
	}
}

func TestSnapshot_MarshalJSON(t *testing.T) {
	l := newTestLedger(t, 1000, Prices{"BTC": M(40000, "EUR")})
	r := mustDo(t, l.Buy("BTC", Q(0.01), M(500, "EUR")))

	got, err := r.Snapshot.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	want := `{"base":"EUR","fiat":{"currency":"EUR","amount":"500"},` +
		`"holdings":[{"symbol":"BTC","quantity":"0.01","costBasis":{"currency":"EUR","amount":"500"},"price":{"currency":"EUR","amount":"40000"},"value":{"currency":"EUR","amount":"400"}}],` +
		`"totalPortfolioValue":{"currency":"EUR","amount":"400"},"netWorth":{"currency":"EUR","amount":"900"},"transactionCount":2}`
	if string(got) != want {
		t.Errorf("MarshalJSON() =\n%s\nwant\n%s", got, want)
	}
}
