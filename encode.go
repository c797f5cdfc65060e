package akka

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// State is the full account and transaction journal as a plain record, the
// unit of persistence of a session. Amounts are decimal strings so that the
// record round-trips exactly through any serialization.
type State struct {
	Base         string             `json:"base" msgpack:"base"`
	Fiat         string             `json:"fiat" msgpack:"fiat"`
	Holdings     []HoldingState     `json:"holdings" msgpack:"holdings"`
	Transactions []TransactionState `json:"transactions" msgpack:"transactions"` // newest first
}

// HoldingState is the persisted form of a Holding.
type HoldingState struct {
	Symbol    string `json:"symbol" msgpack:"symbol"`
	Quantity  string `json:"quantity" msgpack:"quantity"`
	CostBasis string `json:"costBasis" msgpack:"cost_basis"`
}

// TransactionState is the persisted form of a Transaction.
type TransactionState struct {
	ID           string    `json:"id" msgpack:"id"`
	Kind         string    `json:"kind" msgpack:"kind"`
	Symbol       string    `json:"symbol" msgpack:"symbol"`
	Quantity     string    `json:"quantity" msgpack:"quantity"`
	CounterValue string    `json:"counterValue,omitempty" msgpack:"counter_value,omitempty"`
	Counterparty string    `json:"counterparty,omitempty" msgpack:"counterparty,omitempty"`
	Timestamp    time.Time `json:"timestamp" msgpack:"timestamp"`
	Status       string    `json:"status" msgpack:"status"`
}

// State exports the ledger as a plain record.
func (l *Ledger) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := State{
		Base:         l.Base(),
		Fiat:         l.account.fiat.Decimal().String(),
		Holdings:     []HoldingState{},
		Transactions: []TransactionState{},
	}
	for sym := range l.account.symbols() {
		h := l.account.holdings[sym]
		st.Holdings = append(st.Holdings, HoldingState{
			Symbol:    h.Symbol,
			Quantity:  h.Quantity.String(),
			CostBasis: h.CostBasis.Decimal().String(),
		})
	}
	for tx := range l.journal.Matching() {
		ts := TransactionState{
			ID:           tx.ID,
			Kind:         string(tx.Kind),
			Symbol:       tx.Symbol,
			Quantity:     tx.Quantity.String(),
			Counterparty: tx.Counterparty,
			Timestamp:    tx.Timestamp,
			Status:       string(tx.Status),
		}
		if tx.HasCounterValue() {
			ts.CounterValue = tx.CounterValue.Decimal().String()
		}
		st.Transactions = append(st.Transactions, ts)
	}
	return st
}

// Restore rebuilds a ledger from a State. The state is checked against the
// ledger invariants and every failure is reported.
func Restore(registry *Registry, st State, opts ...Option) (*Ledger, error) {
	l := NewLedger(registry, opts...)
	base := registry.Base()

	var errs error
	if st.Base != base {
		errs = errors.Join(errs, fmt.Errorf("state base currency %q does not match %q", st.Base, base))
	}

	fiat, err := parseDecimal(st.Fiat)
	switch {
	case err != nil:
		errs = errors.Join(errs, fmt.Errorf("invalid fiat balance: %w", err))
	case fiat.IsNegative():
		errs = errors.Join(errs, fmt.Errorf("negative fiat balance %s", fiat))
	default:
		l.account.fiat = M(fiat, base)
	}

	for _, hs := range st.Holdings {
		sym := normalize(hs.Symbol)
		if _, ok := registry.Asset(sym); !ok {
			errs = errors.Join(errs, fmt.Errorf("holding %q: %w", hs.Symbol, ErrUnknownSymbol))
			continue
		}
		if _, dup := l.account.holdings[sym]; dup {
			errs = errors.Join(errs, fmt.Errorf("holding %q appears twice", sym))
			continue
		}
		q, err := parseDecimal(hs.Quantity)
		if err != nil || !q.IsPositive() {
			errs = errors.Join(errs, fmt.Errorf("holding %q: quantity %q must be positive", sym, hs.Quantity))
			continue
		}
		cost, err := parseDecimal(hs.CostBasis)
		if err != nil || cost.IsNegative() {
			errs = errors.Join(errs, fmt.Errorf("holding %q: invalid cost basis %q", sym, hs.CostBasis))
			continue
		}
		l.account.holdings[sym] = Holding{Symbol: sym, Quantity: Q(q), CostBasis: M(cost, base)}
	}

	// the journal stores oldest first.
	for _, ts := range slices.Backward(st.Transactions) {
		tx, err := ts.transaction(base)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("transaction %q: %w", ts.ID, err))
			continue
		}
		l.journal.record(tx)
	}

	if errs != nil {
		return nil, fmt.Errorf("invalid state: %w", errs)
	}
	return l, nil
}

func (ts TransactionState) transaction(base string) (Transaction, error) {
	if ts.ID == "" {
		return Transaction{}, errors.New("missing id")
	}
	kind, err := ParseCommandType(ts.Kind)
	if err != nil {
		return Transaction{}, err
	}
	q, err := parseDecimal(ts.Quantity)
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid quantity: %w", err)
	}
	if !q.IsPositive() {
		return Transaction{}, fmt.Errorf("quantity %q must be positive", ts.Quantity)
	}
	tx := Transaction{
		ID:           ts.ID,
		Kind:         kind,
		Symbol:       normalize(ts.Symbol),
		Quantity:     Q(q),
		Counterparty: ts.Counterparty,
		Timestamp:    ts.Timestamp,
		Status:       Status(ts.Status),
	}
	switch tx.Status {
	case "":
		tx.Status = StatusCompleted
	case StatusCompleted, StatusPending:
	default:
		return Transaction{}, fmt.Errorf("unknown status %q", ts.Status)
	}
	if ts.CounterValue != "" {
		cv, err := parseDecimal(ts.CounterValue)
		if err != nil {
			return Transaction{}, fmt.Errorf("invalid counter value: %w", err)
		}
		tx.CounterValue = M(cv, base)
	}
	return tx, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return parseAmount(s)
}
