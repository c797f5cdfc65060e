// Package akka implements the portfolio ledger of a crypto banking app: a
// single user's fiat balance and crypto holdings, mutated through buy, sell,
// send, receive and deposit operations.
//
// The core pieces are:
//   - Ledger: the only way to change the account. Each operation is
//     validated up front and applied atomically together with its entry in
//     the transaction journal; a rejected operation changes nothing and
//     returns an *OpError wrapping ErrInsufficientFunds,
//     ErrInsufficientHoldings, ErrUnknownSymbol or ErrInvalidAmount.
//   - Journal: the newest-first, append-only transaction history.
//   - Snapshot: a read-only view returned after every operation, answering
//     valuation queries (ValueOf, TotalPortfolioValue, NetWorth).
//   - QuoteProvider: the external source of current prices. PriceBook and
//     Refresher keep a price set up to date on a fixed cadence, independently
//     of ledger operations.
//   - State: the plain record used to persist a session.
//
// Holdings are always valued at quantity × current price. The cost basis
// recorded on each holding is reduced proportionally (average cost) when
// part of a position is sold or sent.
package akka
