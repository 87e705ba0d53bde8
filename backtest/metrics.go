package backtest

import "math"

// sharpeEpsilon keeps the Sharpe ratio finite when every trade return is
// identical (including the single-trade case).
const sharpeEpsilon = 1e-6

// KPIs summarizes a completed run. The Sharpe ratio here is a per-trade
// proxy: mean over standard deviation of per-trade returns, with no
// annualization or trading-frequency adjustment.
type KPIs struct {
	TotalReturnPct float64            `json:"total_return_pct" yaml:"total_return_pct"`
	SharpeRatio    float64            `json:"sharpe_ratio" yaml:"sharpe_ratio"`
	MaxDrawdownPct float64            `json:"max_drawdown_pct" yaml:"max_drawdown_pct"`
	HitRatio       float64            `json:"hit_ratio" yaml:"hit_ratio"`
	TotalTrades    int                `json:"total_trades" yaml:"total_trades"`
	FinalBalances  map[string]float64 `json:"final_balances" yaml:"final_balances"`
	Mode           string             `json:"mode,omitempty" yaml:"mode,omitempty"`
}

// ComputeKPIs reduces the trade ledger, the initial capital and the equity
// curve into the summary report. An empty ledger yields the fixed zero
// report. The curve and config are optional; without a curve the final
// equity falls back to the sum of all exit values.
func ComputeKPIs(trades []Trade, initialCapital float64, curve Curve, cfg *Config) KPIs {
	kpis := KPIs{FinalBalances: map[string]float64{}}
	if cfg != nil {
		kpis.Mode = cfg.Mode
	}
	if len(trades) == 0 {
		return kpis
	}

	returns := make([]float64, len(trades))
	wins := 0
	for i, t := range trades {
		returns[i] = t.ReturnPct
		if t.PnL > 0 {
			wins++
		}
	}
	kpis.TotalTrades = len(trades)
	kpis.HitRatio = float64(wins) / float64(len(trades))
	kpis.SharpeRatio = mean(returns) / (stddev(returns) + sharpeEpsilon)
	kpis.MaxDrawdownPct = maxDrawdownPct(trades, initialCapital)

	finalEquity := 0.0
	if last, ok := curve.Last(); ok {
		finalEquity = last.Equity
		kpis.FinalBalances = curve.FinalBalances()
	} else {
		for _, t := range trades {
			finalEquity += t.ExitValue
		}
	}
	kpis.TotalReturnPct = (finalEquity - initialCapital) / initialCapital * 100

	return kpis
}

// maxDrawdownPct reconstructs an equity series from cumulative exit values,
// offset to start at the initial capital, and returns the most negative
// peak-to-trough drawdown in percent (always <= 0).
func maxDrawdownPct(trades []Trade, initialCapital float64) float64 {
	offset := initialCapital - trades[0].ExitValue

	sum := 0.0
	peak := math.Inf(-1)
	worst := 0.0
	for _, t := range trades {
		sum += t.ExitValue
		equity := sum + offset
		if equity > peak {
			peak = equity
		}
		if peak != 0 {
			if dd := (equity - peak) / peak; dd < worst {
				worst = dd
			}
		}
	}
	return worst * 100
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev is the sample standard deviation. Fewer than two samples have no
// measurable spread and contribute zero.
func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
