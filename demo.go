package akka

import "time"

// DemoState returns the demonstration account the app starts with, kept in
// base. Holdings carry their display value at acquisition time as cost basis.
func DemoState(base string) State {
	at := func(s string) time.Time {
		t, err := time.ParseInLocation("2006-01-02 15:04", s, time.UTC)
		if err != nil {
			panic(err)
		}
		return t
	}
	return State{
		Base: base,
		Fiat: "3250.45",
		Holdings: []HoldingState{
			{Symbol: "BTC", Quantity: "0.125", CostBasis: "14865.25"},
			{Symbol: "ETH", Quantity: "2.5", CostBasis: "8350"},
			{Symbol: "ADA", Quantity: "1500", CostBasis: "1725"},
			{Symbol: "DOT", Quantity: "75", CostBasis: "525"},
			{Symbol: "SOL", Quantity: "12", CostBasis: "3168"},
		},
		Transactions: []TransactionState{
			{ID: "demo-1", Kind: "buy", Symbol: "BTC", Quantity: "0.025", CounterValue: "2970.50", Timestamp: at("2025-01-22 14:30"), Status: "completed"},
			{ID: "demo-2", Kind: "sell", Symbol: "ETH", Quantity: "0.5", CounterValue: "1670.00", Timestamp: at("2025-01-22 12:15"), Status: "completed"},
			{ID: "demo-3", Kind: "deposit", Symbol: base, Quantity: "500.00", CounterValue: "500.00", Timestamp: at("2025-01-21 18:45"), Status: "completed"},
			{ID: "demo-4", Kind: "buy", Symbol: "ADA", Quantity: "500", CounterValue: "575.00", Timestamp: at("2025-01-21 16:20"), Status: "pending"},
			{ID: "demo-5", Kind: "send", Symbol: "BTC", Quantity: "0.01", Timestamp: at("2025-01-21 10:30"), Status: "completed"},
		},
	}
}
