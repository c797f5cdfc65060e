package akka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CommandType is a typed string for identifying transaction kinds.
type CommandType string

// Transaction kinds recorded by the ledger.
const (
	CmdBuy     CommandType = "buy"
	CmdSell    CommandType = "sell"
	CmdSend    CommandType = "send"
	CmdReceive CommandType = "receive"
	CmdDeposit CommandType = "deposit"
)

// ParseCommandType parses a transaction kind.
func ParseCommandType(s string) (CommandType, error) {
	switch c := CommandType(s); c {
	case CmdBuy, CmdSell, CmdSend, CmdReceive, CmdDeposit:
		return c, nil
	default:
		return "", fmt.Errorf("unknown transaction kind: %q", s)
	}
}

// Status of a transaction. The ledger settles synchronously, so everything it
// records is StatusCompleted; StatusPending only appears in restored history.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
)

// Transaction is an immutable record of a completed ledger operation.
type Transaction struct {
	ID           string
	Kind         CommandType
	Symbol       string   // asset or currency moved
	Quantity     Quantity // amount of Symbol moved
	CounterValue Money    // base currency amount, zero for transfers
	Counterparty string   // informational only
	Timestamp    time.Time
	Status       Status
}

// newTransaction stamps a transaction with a fresh, time-ordered ID.
func newTransaction(kind CommandType, at time.Time, symbol string, quantity Quantity) Transaction {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the random source fails.
		id = uuid.New()
	}
	return Transaction{
		ID:        id.String(),
		Kind:      kind,
		Symbol:    symbol,
		Quantity:  quantity,
		Timestamp: at,
		Status:    StatusCompleted,
	}
}

// What returns the kind of the transaction.
func (t Transaction) What() CommandType { return t.Kind }

// When returns the creation time of the transaction.
func (t Transaction) When() time.Time { return t.Timestamp }

// HasCounterValue reports whether a base currency amount was associated.
func (t Transaction) HasCounterValue() bool { return !t.CounterValue.IsZero() }

// Equal reports whether both transactions record the same thing.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID && t.Kind == o.Kind && t.Symbol == o.Symbol &&
		t.Quantity.Equal(o.Quantity) && t.CounterValue.Equal(o.CounterValue) &&
		t.Counterparty == o.Counterparty && t.Timestamp.Equal(o.Timestamp) && t.Status == o.Status
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("kind", t.Kind)
	w.Append("timestamp", t.Timestamp)
	w.Append("symbol", t.Symbol)
	w.Append("quantity", t.Quantity)
	if t.HasCounterValue() {
		w.Append("counterValue", t.CounterValue)
	}
	w.Optional("counterparty", t.Counterparty)
	w.Append("status", t.Status)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Transaction.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID           string      `json:"id"`
		Kind         CommandType `json:"kind"`
		Timestamp    time.Time   `json:"timestamp"`
		Symbol       string      `json:"symbol"`
		Quantity     Quantity    `json:"quantity"`
		CounterValue *Money      `json:"counterValue"`
		Counterparty string      `json:"counterparty"`
		Status       Status      `json:"status"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = Transaction{
		ID:           temp.ID,
		Kind:         temp.Kind,
		Symbol:       temp.Symbol,
		Quantity:     temp.Quantity,
		Counterparty: temp.Counterparty,
		Timestamp:    temp.Timestamp,
		Status:       temp.Status,
	}
	if temp.CounterValue != nil {
		t.CounterValue = *temp.CounterValue
	}
	return nil
}

// AcceptAll is a filter that accepts every transaction.
func AcceptAll(Transaction) bool { return true }

// ByKind returns a predicate that filters transactions by kind.
func ByKind(kinds ...CommandType) func(Transaction) bool {
	return func(tx Transaction) bool {
		for _, k := range kinds {
			if tx.Kind == k {
				return true
			}
		}
		return false
	}
}

// BySymbol returns a predicate that filters transactions by asset or currency.
func BySymbol(symbol string) func(Transaction) bool {
	symbol = normalize(symbol)
	return func(tx Transaction) bool { return tx.Symbol == symbol }
}

// ByCounterparty returns a predicate that filters transactions by counterparty.
func ByCounterparty(name string) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Counterparty == name }
}
