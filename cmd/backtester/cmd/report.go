package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/backtester/journal"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize a SQLite journal from a previous run",
	Long: `Report reads the trades recorded in a SQLite journal and prints the
ledger plus a win/loss summary.

Example:
  backtester report --db backtest.sqlite`,
	RunE: runReport,
}

var reportDBPath string

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportDBPath, "db", "d", "./backtest.sqlite", "path to SQLite journal DB")
}

func runReport(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(reportDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	trades, err := j.ListTrades()
	if err != nil {
		return fmt.Errorf("list trades: %w", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Asset", "Side", "Qty", "Entry", "Exit", "PnL", "Ret%", "Closed", "Reason")
	for _, t := range trades {
		table.Append(
			t.Asset,
			t.Side,
			fmt.Sprintf("%.6f", t.Quantity),
			fmt.Sprintf("%.4f", t.EntryPrice),
			fmt.Sprintf("%.4f", t.ExitPrice),
			fmt.Sprintf("%.4f", t.PnL),
			fmt.Sprintf("%.2f", t.ReturnPct),
			t.ExitTime.Format("2006-01-02 15:04"),
			t.Reason,
		)
	}
	table.Render()

	sum, err := j.Summarize()
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	fmt.Printf("\nTrades: %d  Wins: %d  Losses: %d  Net PnL: %.4f\n",
		sum.Trades, sum.Wins, sum.Losses, sum.NetPnL)

	return nil
}
