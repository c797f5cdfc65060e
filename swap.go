package akka

import "github.com/shopspring/decimal"

// DefaultSwapFee is the fee rate charged on the value of a swap (0.5%).
var DefaultSwapFee = decimal.RequireFromString("0.005")

// SwapReceipt is the result of a successful swap: the two recorded legs and
// the state right after both.
type SwapReceipt struct {
	Sell     Transaction
	Buy      Transaction
	Snapshot Snapshot
}

// Swap converts quantity units of from into to at the current price ratio,
// less DefaultSwapFee.
//
// It is recorded as a sell of from and a buy of to, both for the value of
// the disposed quantity, so the fiat balance is unchanged and the fee shows
// as a smaller received quantity. Both legs are validated before either is
// applied.
func (l *Ledger) Swap(from, to string, quantity Quantity) (SwapReceipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	from, to = normalize(from), normalize(to)
	if err := l.checkAsset(CmdSell, from); err != nil {
		return SwapReceipt{}, err
	}
	if err := l.checkAsset(CmdBuy, to); err != nil {
		return SwapReceipt{}, err
	}
	if from == to {
		return SwapReceipt{}, opErr(CmdBuy, to, ErrInvalidAmount, "cannot swap %s into itself", from)
	}
	if err := checkQuantity(CmdSell, from, quantity); err != nil {
		return SwapReceipt{}, err
	}
	if err := l.checkPosition(CmdSell, from, quantity); err != nil {
		return SwapReceipt{}, err
	}

	base := l.Base()
	fromPrice, ok := priceOf(l.quotes, from, base)
	if !ok || !fromPrice.IsPositive() {
		return SwapReceipt{}, opErr(CmdSell, from, ErrInvalidAmount, "no price for %s", from)
	}
	toPrice, ok := priceOf(l.quotes, to, base)
	if !ok || !toPrice.IsPositive() {
		return SwapReceipt{}, opErr(CmdBuy, to, ErrInvalidAmount, "no price for %s", to)
	}

	value, err := l.checkCounterValue(CmdSell, from, fromPrice.Mul(quantity).Round())
	if err != nil {
		return SwapReceipt{}, err
	}
	received := swapOut(value, toPrice, DefaultSwapFee)
	if err := checkQuantity(CmdBuy, to, received); err != nil {
		return SwapReceipt{}, err
	}

	l.account.dispose(from, quantity)
	l.account.acquire(to, received, value)

	at := l.now()
	sell := newTransaction(CmdSell, at, from, quantity)
	sell.CounterValue = value
	sell.Counterparty = "swap"
	buy := newTransaction(CmdBuy, at, to, received)
	buy.CounterValue = value
	buy.Counterparty = "swap"

	l.journal.record(sell)
	r := l.commit(buy)
	return SwapReceipt{Sell: sell, Buy: buy, Snapshot: r.Snapshot}, nil
}

// EstimateSwap returns the quantity of to received for quantity units of
// from at the current prices, after fee.
func EstimateSwap(quotes QuoteProvider, from, to string, quantity Quantity, base string, fee decimal.Decimal) (Quantity, bool) {
	value, ok := Estimate(quotes, from, quantity, base)
	if !ok {
		return Quantity{}, false
	}
	toPrice, ok := priceOf(quotes, normalize(to), base)
	if !ok || !toPrice.IsPositive() {
		return Quantity{}, false
	}
	return swapOut(value, toPrice, fee), true
}

// swapOut returns the quantity bought for value at price, less fee.
func swapOut(value, price Money, fee decimal.Decimal) Quantity {
	net := value.Decimal().Mul(decimal.NewFromInt(1).Sub(fee))
	return Quantity{value: net.DivRound(price.Decimal(), maxScale)}
}
