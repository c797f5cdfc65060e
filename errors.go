package akka

import (
	"errors"
	"fmt"
)

// Validation failures reported by the Ledger. They are always wrapped in an
// *OpError; use errors.Is to discriminate them.
var (
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrUnknownSymbol        = errors.New("unknown symbol")
	ErrInvalidAmount        = errors.New("invalid amount")
)

// OpError describes a rejected ledger operation. A rejected operation never
// changes the ledger.
type OpError struct {
	Op     CommandType // operation that was rejected
	Symbol string      // asset or currency involved, if any
	Detail string      // human readable context
	Err    error       // one of the Err* sentinels
}

func (e *OpError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Op, e.Symbol, e.Err)
	if e.Symbol == "" {
		msg = fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *OpError) Unwrap() error { return e.Err }

func opErr(op CommandType, symbol string, err error, format string, args ...any) *OpError {
	return &OpError{Op: op, Symbol: symbol, Err: err, Detail: fmt.Sprintf(format, args...)}
}
