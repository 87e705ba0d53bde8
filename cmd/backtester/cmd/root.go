package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "backtester",
	Short: "A signal-driven portfolio backtesting engine",
	Long: `Backtester replays a timestamped open/close signal sequence against a
configurable cost model and reports the resulting trades, equity curve and
performance KPIs.

It provides tools for:
  - Replaying signal datasets (CSV, optionally xz-compressed)
  - Slippage/fee cost modeling with compound or fixed position sizing
  - Optional stop-loss and take-profit exits
  - Journaling trades and equity curves to SQLite or CSV
  - KPI reporting (return, Sharpe, drawdown, hit ratio)`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
