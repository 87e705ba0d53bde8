package journal

import "time"

// TradeRecord mirrors the trades table: one realized round trip.
type TradeRecord struct {
	TradeID    string
	Asset      string
	Side       string
	Quantity   float64
	EntryPrice float64
	ExitPrice  float64
	EntryTime  time.Time
	ExitTime   time.Time
	PnL        float64
	ReturnPct  float64
	ExitValue  float64
	Reason     string
}

// EquitySnapshot mirrors the equity table: total portfolio value after one
// processed signal.
type EquitySnapshot struct {
	Time   time.Time
	Cash   float64
	Equity float64
}

// Journal persists the rows an engine emits while it runs.
type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Nop discards everything. The engine falls back to it when no journal is
// configured.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error     { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) Close() error                      { return nil }
