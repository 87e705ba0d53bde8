package backtest

import (
	"fmt"
	"sort"
	"time"

	"github.com/rustyeddy/backtester/journal"
)

// Result bundles everything a completed run produces.
type Result struct {
	Trades []Trade
	Curve  Curve
	KPIs   KPIs
}

// Engine replays a signal sequence against a cost model. One engine instance
// runs exactly one simulation to completion before its results are read;
// instances share no state, so concurrent backtests are just independent
// engines.
//
// Anomalies inside a run (duplicate open, close of a flat asset) are silent
// no-ops, not errors. That is deliberate idempotence: replayed or
// out-of-order instructions must not corrupt the ledger.
type Engine struct {
	cfg            Config
	initialCapital float64
	journal        journal.Journal

	cash      float64
	positions map[string]*Position // nil = flat
	balances  map[string]float64   // signed units: + long, - short, 0 flat
	lastPrice map[string]float64   // latest raw signal price per asset
	seen      []string             // assets in first-seen order
	trades    []Trade
	curve     Curve
}

// NewEngine validates the configuration and starting capital and prepares a
// single-use engine. A nil journal records nothing.
func NewEngine(cfg Config, initialCapital float64, j journal.Journal) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("backtest: invalid config: %w", err)
	}
	if initialCapital <= 0 {
		return nil, fmt.Errorf("backtest: initial capital must be positive, got %v", initialCapital)
	}
	if j == nil {
		j = journal.Nop{}
	}

	return &Engine{
		cfg:            cfg,
		initialCapital: initialCapital,
		journal:        j,
		cash:           initialCapital,
		positions:      make(map[string]*Position),
		balances:       make(map[string]float64),
		lastPrice:      make(map[string]float64),
	}, nil
}

// Run replays the signals in timestamp order and returns the trade ledger,
// the equity curve and the KPI report. The input may arrive in any order;
// the sort is stable, so same-timestamp signals keep their input order. Any
// position still open after the last signal is force-closed at the final
// signal's timestamp and price. The input slice is not modified.
func (e *Engine) Run(signals []Signal) (Result, error) {
	ordered := make([]Signal, len(signals))
	copy(ordered, signals)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Time.Before(ordered[j].Time)
	})

	assetCount := countAssets(ordered)

	for _, sig := range ordered {
		e.touch(sig.Asset)
		e.lastPrice[sig.Asset] = sig.Price

		if err := e.checkExits(sig); err != nil {
			return Result{}, err
		}

		switch sig.Side {
		case Buy, Sell:
			e.open(sig, assetCount)
		case Close:
			if err := e.close(sig, ReasonSignal); err != nil {
				return Result{}, err
			}
		}

		if err := e.snapshot(sig.Time); err != nil {
			return Result{}, err
		}
	}

	if len(ordered) > 0 {
		last := ordered[len(ordered)-1]
		forced := false
		for _, asset := range e.seen {
			if e.positions[asset] == nil {
				continue
			}
			synthetic := Signal{Time: last.Time, Side: Close, Price: last.Price, Asset: asset}
			if err := e.close(synthetic, ReasonEndOfReplay); err != nil {
				return Result{}, err
			}
			forced = true
		}
		if forced {
			// Re-mark the final timestamp so the last curve entry
			// reconciles with cash after the synthetic closes.
			if err := e.snapshot(last.Time); err != nil {
				return Result{}, err
			}
		}
	}

	kpis := ComputeKPIs(e.trades, e.initialCapital, e.curve, &e.cfg)
	return Result{Trades: e.trades, Curve: e.curve, KPIs: kpis}, nil
}

// open enters a position for the signal's asset. A duplicate open is
// ignored, as is a SELL open when shorting is disabled. The allocation is an
// equal split of available cash across every asset in the full sequence; in
// fixed mode it is additionally capped at the same split of the starting
// capital.
func (e *Engine) open(sig Signal, assetCount int) {
	if e.positions[sig.Asset] != nil {
		return // duplicate open, keep the existing position
	}
	if sig.Side == Sell && !e.cfg.AllowShort {
		return // shorting disabled
	}

	entryPrice := ApplySlippage(sig.Price, e.cfg.Slippage, sig.Side)
	entryPrice = ApplyFees(entryPrice, e.cfg.Fee, sig.Side)

	alloc := e.cash / float64(assetCount)
	if e.cfg.Mode == ModeFixed {
		if limit := e.initialCapital / float64(assetCount); alloc > limit {
			alloc = limit
		}
	}
	quantity := alloc / entryPrice

	e.positions[sig.Asset] = &Position{
		Side:       sig.Side,
		EntryPrice: entryPrice,
		Quantity:   quantity,
		EntryTime:  sig.Time,
	}
	if sig.Side == Sell {
		e.balances[sig.Asset] = -quantity
	} else {
		e.balances[sig.Asset] = quantity
	}
	e.cash -= alloc
}

// close realizes the asset's open position into a Trade. Closing a flat
// asset is ignored. The cost adjustments follow the closing signal's side,
// so a CLOSE settles at the raw signal price.
func (e *Engine) close(sig Signal, reason string) error {
	pos := e.positions[sig.Asset]
	if pos == nil {
		return nil // nothing open for this asset
	}

	exitPrice := ApplySlippage(sig.Price, e.cfg.Slippage, sig.Side)
	exitPrice = ApplyFees(exitPrice, e.cfg.Fee, sig.Side)

	trade := newTrade(sig.Asset, *pos, exitPrice, sig.Time, reason)
	e.trades = append(e.trades, trade)

	e.cash += trade.ExitValue
	e.balances[sig.Asset] = 0
	e.positions[sig.Asset] = nil

	return e.journal.RecordTrade(journal.TradeRecord{
		TradeID:    trade.ID,
		Asset:      trade.Asset,
		Side:       string(trade.Side),
		Quantity:   trade.Quantity,
		EntryPrice: trade.EntryPrice,
		ExitPrice:  trade.ExitPrice,
		EntryTime:  trade.EntryTime,
		ExitTime:   trade.ExitTime,
		PnL:        trade.PnL,
		ReturnPct:  trade.ReturnPct,
		ExitValue:  trade.ExitValue,
		Reason:     trade.Reason,
	})
}

// checkExits closes the asset's position when its fresh signal price crosses
// the configured stop-loss or take-profit threshold. Thresholds are
// fractions of the entry price; zero disables the check.
func (e *Engine) checkExits(sig Signal) error {
	pos := e.positions[sig.Asset]
	if pos == nil {
		return nil
	}

	reason := ""
	switch {
	case hitStopLoss(*pos, sig.Price, e.cfg.StopLossPct):
		reason = ReasonStopLoss
	case hitTakeProfit(*pos, sig.Price, e.cfg.TakeProfitPct):
		reason = ReasonTakeProfit
	}
	if reason == "" {
		return nil
	}

	synthetic := Signal{Time: sig.Time, Side: Close, Price: sig.Price, Asset: sig.Asset}
	return e.close(synthetic, reason)
}

func hitStopLoss(pos Position, price, pct float64) bool {
	if pct <= 0 {
		return false
	}
	if pos.Side == Buy {
		return price <= pos.EntryPrice*(1-pct)
	}
	return price >= pos.EntryPrice*(1+pct)
}

func hitTakeProfit(pos Position, price, pct float64) bool {
	if pct <= 0 {
		return false
	}
	if pos.Side == Buy {
		return price >= pos.EntryPrice*(1+pct)
	}
	return price <= pos.EntryPrice*(1-pct)
}

// snapshot marks the portfolio after processing one signal: cash plus every
// known asset, open positions valued at their latest signal price (entry
// price if none seen yet). A second signal at the same timestamp overwrites
// the earlier mark.
func (e *Engine) snapshot(ts time.Time) error {
	snap := Snapshot{
		Time:   ts,
		Cash:   e.cash,
		Assets: make(map[string]AssetSnapshot, len(e.seen)),
	}

	total := e.cash
	for _, asset := range e.seen {
		pos := e.positions[asset]
		if pos == nil {
			snap.Assets[asset] = AssetSnapshot{}
			continue
		}

		price, ok := e.lastPrice[asset]
		if !ok {
			price = pos.EntryPrice
		}
		value := pos.MarketValue(price)
		total += value
		snap.Assets[asset] = AssetSnapshot{Balance: pos.Quantity, Price: price, Value: value}
	}
	snap.Equity = total

	if n := len(e.curve); n > 0 && e.curve[n-1].Time.Equal(ts) {
		e.curve[n-1] = snap
	} else {
		e.curve = append(e.curve, snap)
	}

	return e.journal.RecordEquity(journal.EquitySnapshot{
		Time:   snap.Time,
		Cash:   snap.Cash,
		Equity: snap.Equity,
	})
}

// touch registers an asset the first time it shows up in the replay.
func (e *Engine) touch(asset string) {
	if _, ok := e.balances[asset]; ok {
		return
	}
	e.balances[asset] = 0
	e.seen = append(e.seen, asset)
}

// countAssets returns the number of distinct assets anywhere in the full
// sequence. Sizing divides by this static count rather than the number of
// currently open positions: it under-allocates, but keeps sizing
// reproducible regardless of open/close ordering.
func countAssets(signals []Signal) int {
	assets := make(map[string]struct{}, len(signals))
	for _, s := range signals {
		assets[s.Asset] = struct{}{}
	}
	return len(assets)
}
