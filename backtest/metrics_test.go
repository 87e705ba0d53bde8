package backtest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeKPIsEmptyLedger(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	kpis := ComputeKPIs(nil, 1000, nil, &cfg)

	assert.Zero(t, kpis.TotalReturnPct)
	assert.Zero(t, kpis.SharpeRatio)
	assert.Zero(t, kpis.MaxDrawdownPct)
	assert.Zero(t, kpis.HitRatio)
	assert.Zero(t, kpis.TotalTrades)
	assert.Empty(t, kpis.FinalBalances)
	assert.Equal(t, ModeCompound, kpis.Mode)

	// Without a config there is no mode to echo.
	assert.Empty(t, ComputeKPIs(nil, 1000, nil, nil).Mode)
}

func TestComputeKPIsNoCurveFallback(t *testing.T) {
	t.Parallel()

	trades := []Trade{
		{PnL: 100, ReturnPct: 10, ExitValue: 1100},
		{PnL: -25, ReturnPct: -5, ExitValue: 500},
	}

	kpis := ComputeKPIs(trades, 1000, nil, nil)

	assert.Equal(t, 2, kpis.TotalTrades)
	assert.InDelta(t, 0.5, kpis.HitRatio, 1e-9)

	// Final equity falls back to the summed exit values.
	assert.InDelta(t, 60.0, kpis.TotalReturnPct, 1e-9)

	// mean([10,-5]) over sample stddev plus epsilon.
	wantSharpe := 2.5 / (math.Sqrt(112.5) + sharpeEpsilon)
	assert.InDelta(t, wantSharpe, kpis.SharpeRatio, 1e-9)

	// Cumulative exit values never decrease, so the reconstructed equity
	// series has no drawdown.
	assert.Zero(t, kpis.MaxDrawdownPct)

	assert.Empty(t, kpis.FinalBalances)
}

func TestComputeKPIsUsesCurveFinalEquity(t *testing.T) {
	t.Parallel()

	trades := []Trade{{PnL: 100, ReturnPct: 10, ExitValue: 1100}}
	curve := Curve{
		{Time: ts(0), Cash: 0, Equity: 1000, Assets: map[string]AssetSnapshot{"X": {Balance: 10, Price: 100, Value: 1000}}},
		{Time: ts(1), Cash: 234, Equity: 1234, Assets: map[string]AssetSnapshot{"X": {Balance: 2, Price: 500, Value: 1000}}},
	}

	kpis := ComputeKPIs(trades, 1000, curve, nil)

	assert.InDelta(t, 23.4, kpis.TotalReturnPct, 1e-9)

	require.Len(t, kpis.FinalBalances, 3)
	assert.InDelta(t, 234, kpis.FinalBalances[CashKey], 1e-9)
	assert.InDelta(t, 2, kpis.FinalBalances["X_balance"], 1e-9)
	assert.InDelta(t, 1000, kpis.FinalBalances["X_value"], 1e-9)
}

// A single trade has no return spread; the epsilon keeps the ratio finite.
func TestComputeKPIsSingleTradeSharpe(t *testing.T) {
	t.Parallel()

	trades := []Trade{{PnL: 100, ReturnPct: 10, ExitValue: 1100}}
	kpis := ComputeKPIs(trades, 1000, nil, nil)

	assert.InDelta(t, 10/sharpeEpsilon, kpis.SharpeRatio, 1)
}

func TestStddev(t *testing.T) {
	t.Parallel()

	assert.Zero(t, stddev(nil))
	assert.Zero(t, stddev([]float64{5}))
	assert.InDelta(t, math.Sqrt(2), stddev([]float64{1, 3}), 1e-9)
}

func TestCurveFinalBalancesEmpty(t *testing.T) {
	t.Parallel()

	var c Curve
	assert.Empty(t, c.FinalBalances())

	_, ok := c.Last()
	assert.False(t, ok)
}
