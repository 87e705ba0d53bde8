package backtest

import (
	"fmt"
	"time"

	"github.com/rustyeddy/backtester/internal/id"
)

// Side labels a signal or an open position. BUY opens a long, SELL opens a
// short, CLOSE flattens whatever is open for the asset.
type Side string

const (
	Buy   Side = "BUY"
	Sell  Side = "SELL"
	Close Side = "CLOSE"
)

// Signal is a single timestamped instruction for one asset. Signals are
// immutable once created; the engine sorts them by Time before replay.
type Signal struct {
	Time  time.Time
	Side  Side
	Price float64 // reference execution price, quote currency per unit
	Asset string  // e.g. "BTC", "ETH"
}

// Position is an open exposure for one asset. Quantity is always positive;
// direction lives in Side. At most one position per asset is open at a time.
type Position struct {
	Side       Side
	EntryPrice float64 // post-slippage, post-fee
	Quantity   float64
	EntryTime  time.Time
}

// MarketValue marks the position at the given price.
func (p Position) MarketValue(price float64) float64 {
	return p.Quantity * price
}

// Close reasons recorded on a Trade.
const (
	ReasonSignal      = "Signal"
	ReasonStopLoss    = "StopLoss"
	ReasonTakeProfit  = "TakeProfit"
	ReasonEndOfReplay = "EndOfReplay"
)

// Trade is the immutable record of a completed open->close round trip.
type Trade struct {
	ID         string
	Asset      string
	Side       Side
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	Quantity   float64
	PnL        float64 // signed, quote currency
	ReturnPct  float64 // PnL over entry notional, in percent
	ExitValue  float64 // Quantity * ExitPrice
	Reason     string
}

// newTrade realizes a position into a Trade at the given exit price and time.
// The position side is only ever set by the engine's open path, so anything
// other than BUY or SELL is a contract violation.
func newTrade(asset string, pos Position, exitPrice float64, exitTime time.Time, reason string) Trade {
	var pnl float64
	switch pos.Side {
	case Buy:
		pnl = (exitPrice - pos.EntryPrice) * pos.Quantity
	case Sell:
		pnl = (pos.EntryPrice - exitPrice) * pos.Quantity
	default:
		panic(fmt.Sprintf("backtest: position for %s has invalid side %q", asset, pos.Side))
	}

	entryValue := pos.EntryPrice * pos.Quantity
	returnPct := 0.0
	if entryValue != 0 {
		returnPct = pnl / entryValue * 100
	}

	return Trade{
		ID:         id.New(),
		Asset:      asset,
		Side:       pos.Side,
		EntryTime:  pos.EntryTime,
		ExitTime:   exitTime,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  exitPrice,
		Quantity:   pos.Quantity,
		PnL:        pnl,
		ReturnPct:  returnPct,
		ExitValue:  pos.Quantity * exitPrice,
		Reason:     reason,
	}
}
