package backtest

import "time"

// AssetSnapshot is one asset's mark inside an equity snapshot. A flat asset
// records zero balance and value.
type AssetSnapshot struct {
	Balance float64 // open quantity (units held)
	Price   float64 // latest signal price at or before the snapshot time
	Value   float64 // Balance * Price
}

// Snapshot is the portfolio state after processing one signal: cash plus the
// mark-to-market value of every open position.
type Snapshot struct {
	Time   time.Time
	Cash   float64
	Equity float64 // Cash + sum of open position values
	Assets map[string]AssetSnapshot
}

// Curve is the equity series, ordered by time, one entry per processed
// timestamp (a later signal at the same instant overwrites the earlier mark).
type Curve []Snapshot

// Last returns the most recent snapshot, if any.
func (c Curve) Last() (Snapshot, bool) {
	if len(c) == 0 {
		return Snapshot{}, false
	}
	return c[len(c)-1], true
}

// CashKey is the quote-currency cash entry in FinalBalances.
const CashKey = "cash_usdc"

// FinalBalances flattens the last snapshot into report-style keys:
// cash_usdc plus <asset>_balance and <asset>_value per asset.
func (c Curve) FinalBalances() map[string]float64 {
	last, ok := c.Last()
	if !ok {
		return map[string]float64{}
	}

	out := make(map[string]float64, 1+2*len(last.Assets))
	out[CashKey] = last.Cash
	for asset, snap := range last.Assets {
		out[asset+"_balance"] = snap.Balance
		out[asset+"_value"] = snap.Value
	}
	return out
}
