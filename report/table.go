package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/rustyeddy/backtester/backtest"
)

// Table prints the KPI report as a two-column console table.
func Table(w io.Writer, k backtest.KPIs) {
	table := tablewriter.NewWriter(w)
	table.Header("KPI", "Value")

	table.Append("total_return_pct", fmt.Sprintf("%.4f", k.TotalReturnPct))
	table.Append("sharpe_ratio", fmt.Sprintf("%.4f", k.SharpeRatio))
	table.Append("max_drawdown_pct", fmt.Sprintf("%.4f", k.MaxDrawdownPct))
	table.Append("hit_ratio", fmt.Sprintf("%.4f", k.HitRatio))
	table.Append("total_trades", fmt.Sprintf("%d", k.TotalTrades))
	if k.Mode != "" {
		table.Append("mode", k.Mode)
	}

	run := Run{FinalBalances: k.FinalBalances}
	for _, key := range run.BalanceKeys() {
		table.Append(key, fmt.Sprintf("%.6f", k.FinalBalances[key]))
	}

	table.Render()
}

// TradesTable prints the trade ledger.
func TradesTable(w io.Writer, trades []backtest.Trade) {
	table := tablewriter.NewWriter(w)
	table.Header("Asset", "Side", "Qty", "Entry", "Exit", "PnL", "Ret%", "Reason")

	for _, t := range trades {
		table.Append(
			t.Asset,
			string(t.Side),
			fmt.Sprintf("%.6f", t.Quantity),
			fmt.Sprintf("%.4f", t.EntryPrice),
			fmt.Sprintf("%.4f", t.ExitPrice),
			fmt.Sprintf("%.4f", t.PnL),
			fmt.Sprintf("%.2f", t.ReturnPct),
			t.Reason,
		)
	}

	table.Render()
}
