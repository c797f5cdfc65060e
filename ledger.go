package akka

import (
	"iter"
	"strings"
	"sync"
	"time"
)

// Ledger is the sole authority over the account balances and the
// transaction journal.
//
// Every operation validates its inputs against the current state first and
// only then applies its mutation and records its transaction, all under one
// lock: an operation is either fully applied and logged, or rejected with an
// *OpError and the ledger left untouched.
type Ledger struct {
	mu       sync.Mutex
	registry *Registry
	account  *account
	journal  *Journal
	quotes   QuoteProvider
	now      func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithQuotes sets the quote provider used for valuations.
func WithQuotes(q QuoteProvider) Option {
	return func(l *Ledger) { l.quotes = q }
}

// WithClock sets the clock used to timestamp transactions.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// NewLedger creates a ledger with an empty account in the registry's base
// currency.
func NewLedger(registry *Registry, opts ...Option) *Ledger {
	l := &Ledger{
		registry: registry,
		account:  newAccount(registry.Base()),
		journal:  &Journal{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Receipt is the result of a successful operation: the transaction that was
// recorded and the state right after it.
type Receipt struct {
	Transaction Transaction
	Snapshot    Snapshot
}

// Registry returns the ledger's asset registry.
func (l *Ledger) Registry() *Registry { return l.registry }

// Base returns the ledger's base currency.
func (l *Ledger) Base() string { return l.registry.Base() }

// Buy acquires quantity units of symbol for counterValue in base currency.
// counterValue already includes any fee.
func (l *Ledger) Buy(symbol string, quantity Quantity, counterValue Money) (Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	symbol = normalize(symbol)
	if err := l.checkAsset(CmdBuy, symbol); err != nil {
		return Receipt{}, err
	}
	if err := checkQuantity(CmdBuy, symbol, quantity); err != nil {
		return Receipt{}, err
	}
	cost, err := l.checkCounterValue(CmdBuy, symbol, counterValue)
	if err != nil {
		return Receipt{}, err
	}
	if cash := l.account.fiat; cash.LessThan(cost) {
		return Receipt{}, opErr(CmdBuy, symbol, ErrInsufficientFunds, "cannot buy for %s, balance is %s", cost, cash)
	}

	l.account.fiat = l.account.fiat.Sub(cost)
	l.account.acquire(symbol, quantity, cost)

	tx := newTransaction(CmdBuy, l.now(), symbol, quantity)
	tx.CounterValue = cost
	return l.commit(tx), nil
}

// Sell disposes of quantity units of symbol for counterValue proceeds in base
// currency. Selling the whole position removes the holding.
func (l *Ledger) Sell(symbol string, quantity Quantity, counterValue Money) (Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	symbol = normalize(symbol)
	if err := checkQuantity(CmdSell, symbol, quantity); err != nil {
		return Receipt{}, err
	}
	proceeds, err := l.checkCounterValue(CmdSell, symbol, counterValue)
	if err != nil {
		return Receipt{}, err
	}
	if err := l.checkPosition(CmdSell, symbol, quantity); err != nil {
		return Receipt{}, err
	}

	l.account.dispose(symbol, quantity)
	l.account.fiat = l.account.fiat.Add(proceeds)

	tx := newTransaction(CmdSell, l.now(), symbol, quantity)
	tx.CounterValue = proceeds
	return l.commit(tx), nil
}

// Send moves quantity of symbol out of the account to counterparty. symbol is
// either the base currency or a held asset. Nothing is credited in return.
func (l *Ledger) Send(symbol string, quantity Quantity, counterparty string) (Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	symbol = normalize(symbol)
	if err := checkQuantity(CmdSend, symbol, quantity); err != nil {
		return Receipt{}, err
	}

	if l.registry.IsBase(symbol) {
		amount := quantity.Money(symbol)
		if cash := l.account.fiat; cash.LessThan(amount) {
			return Receipt{}, opErr(CmdSend, symbol, ErrInsufficientFunds, "cannot send %s, balance is %s", amount, cash)
		}
		l.account.fiat = l.account.fiat.Sub(amount)
	} else {
		if err := l.checkPosition(CmdSend, symbol, quantity); err != nil {
			return Receipt{}, err
		}
		l.account.dispose(symbol, quantity)
	}

	tx := newTransaction(CmdSend, l.now(), symbol, quantity)
	tx.Counterparty = strings.TrimSpace(counterparty)
	return l.commit(tx), nil
}

// Receive credits quantity of symbol, the base currency or a registered
// asset, from counterparty. A received asset carries no cost basis.
func (l *Ledger) Receive(symbol string, quantity Quantity, counterparty string) (Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	symbol = normalize(symbol)
	if !l.registry.IsBase(symbol) {
		if err := l.checkAsset(CmdReceive, symbol); err != nil {
			return Receipt{}, err
		}
	}
	if err := checkQuantity(CmdReceive, symbol, quantity); err != nil {
		return Receipt{}, err
	}

	if l.registry.IsBase(symbol) {
		l.account.fiat = l.account.fiat.Add(quantity.Money(symbol))
	} else {
		l.account.acquire(symbol, quantity, M(0, l.Base()))
	}

	tx := newTransaction(CmdReceive, l.now(), symbol, quantity)
	tx.Counterparty = strings.TrimSpace(counterparty)
	return l.commit(tx), nil
}

// Deposit tops up the fiat balance with amount, e.g. from a bank transfer
// identified by counterparty.
func (l *Ledger) Deposit(amount Money, counterparty string) (Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	base := l.Base()
	amount, err := l.checkCounterValue(CmdDeposit, base, amount)
	if err != nil {
		return Receipt{}, err
	}

	l.account.fiat = l.account.fiat.Add(amount)

	tx := newTransaction(CmdDeposit, l.now(), base, amount.Quantity())
	tx.CounterValue = amount
	tx.Counterparty = strings.TrimSpace(counterparty)
	return l.commit(tx), nil
}

// commit records tx and returns the receipt. Must be called with the lock
// held, after the account has been mutated.
func (l *Ledger) commit(tx Transaction) Receipt {
	l.journal.record(tx)
	return Receipt{Transaction: tx, Snapshot: l.snapshot()}
}

// Snapshot returns a consistent read-only copy of the ledger state.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *Ledger) snapshot() Snapshot {
	return Snapshot{
		base:    l.Base(),
		account: l.account.clone(),
		journal: l.journal.clone(),
		quotes:  l.quotes,
	}
}

// ValueOf returns the current value of the holding in symbol, zero when the
// symbol is not held or has no known price.
func (l *Ledger) ValueOf(symbol string) Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	h, ok := l.account.holdings[normalize(symbol)]
	if !ok {
		return M(0, l.Base())
	}
	return ValueOf(h, l.quotes, l.Base())
}

// TotalPortfolioValue returns the sum of ValueOf over all holdings.
func (l *Ledger) TotalPortfolioValue() Money {
	return l.Snapshot().TotalPortfolioValue()
}

// NetWorth returns the fiat balance plus the total portfolio value.
func (l *Ledger) NetWorth() Money {
	return l.Snapshot().NetWorth()
}

// Transactions returns the transactions accepted by all filters, newest
// first. The sequence reads a copy taken at call time.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq[Transaction] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.journal.clone().Matching(filters...)
}

// --- validation helpers, called with the lock held ---

func (l *Ledger) checkAsset(op CommandType, symbol string) error {
	if symbol == "" {
		return opErr(op, symbol, ErrUnknownSymbol, "symbol is missing")
	}
	if _, ok := l.registry.Asset(symbol); !ok {
		return opErr(op, symbol, ErrUnknownSymbol, "%q is not a tradable asset", symbol)
	}
	return nil
}

func (l *Ledger) checkPosition(op CommandType, symbol string, quantity Quantity) error {
	h, held := l.account.holdings[symbol]
	if !held {
		if _, ok := l.registry.Asset(symbol); !ok {
			return opErr(op, symbol, ErrUnknownSymbol, "%q is not a tradable asset", symbol)
		}
		return opErr(op, symbol, ErrInsufficientHoldings, "no %s held", symbol)
	}
	if h.Quantity.LessThan(quantity) {
		return opErr(op, symbol, ErrInsufficientHoldings, "cannot dispose of %s, position is only %s", quantity, h.Quantity)
	}
	return nil
}

// checkCounterValue ensures amount is a positive base currency amount. A
// missing currency is fixed to the base currency.
func (l *Ledger) checkCounterValue(op CommandType, symbol string, amount Money) (Money, error) {
	base := l.Base()
	switch amount.Currency() {
	case "":
		amount = M(amount.Decimal(), base)
	case base:
	default:
		return Money{}, opErr(op, symbol, ErrInvalidAmount, "amount must be in %s, got %s", base, amount.Currency())
	}
	if err := checkBounds(amount.Decimal()); err != nil {
		return Money{}, opErr(op, symbol, ErrInvalidAmount, "amount is out of bounds")
	}
	if !amount.IsPositive() {
		return Money{}, opErr(op, symbol, ErrInvalidAmount, "amount must be positive, got %s", amount.Decimal())
	}
	return amount, nil
}

func checkQuantity(op CommandType, symbol string, quantity Quantity) error {
	if err := checkBounds(quantity.value); err != nil {
		return opErr(op, symbol, ErrInvalidAmount, "quantity is out of bounds")
	}
	if !quantity.IsPositive() {
		return opErr(op, symbol, ErrInvalidAmount, "quantity must be positive, got %s", quantity)
	}
	return nil
}
