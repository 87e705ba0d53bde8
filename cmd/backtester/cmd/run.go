package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/backtester/config"
	"github.com/rustyeddy/backtester/feed"
	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/report"

	"github.com/rustyeddy/backtester/backtest"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a backtest over a signal dataset",
	Long: `Run replays a CSV signal dataset (time,asset,side,price) through the
backtest engine and prints the KPI report.

Cost-model settings come from flags, or from a config file when --config is
given; flags set explicitly on the command line override the file.

Example:
  backtester run --signals data/signals.csv --capital 1000 --fee 0.001`,
	RunE: runRun,
}

var (
	runConfigPath  string
	runSignalsPath string
	runCapital     float64
	runSlippage    float64
	runFee         float64
	runStopLoss    float64
	runTakeProfit  float64
	runAllowShort  bool
	runMode        string
	runJournalType string
	runDBPath      string
	runTradesFile  string
	runEquityFile  string
	runOrgPath     string
	runShowTrades  bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
	runCmd.Flags().StringVarP(&runSignalsPath, "signals", "s", "", "path to signal CSV (time,asset,side,price), .xz supported")
	runCmd.Flags().Float64VarP(&runCapital, "capital", "c", 1000, "starting capital in quote currency")
	runCmd.Flags().Float64Var(&runSlippage, "slippage", 0.001, "slippage fraction per side")
	runCmd.Flags().Float64Var(&runFee, "fee", 0.001, "fee fraction per side")
	runCmd.Flags().Float64Var(&runStopLoss, "stop-loss", 0, "stop-loss fraction of entry price (0 disables)")
	runCmd.Flags().Float64Var(&runTakeProfit, "take-profit", 0, "take-profit fraction of entry price (0 disables)")
	runCmd.Flags().BoolVar(&runAllowShort, "allow-short", false, "accept SELL signals that open short positions")
	runCmd.Flags().StringVarP(&runMode, "mode", "m", backtest.ModeCompound, "sizing mode (compound, fixed)")
	runCmd.Flags().StringVarP(&runJournalType, "journal", "j", "none", "journal type (none, csv, sqlite)")
	runCmd.Flags().StringVarP(&runDBPath, "db", "d", "./backtest.sqlite", "path to SQLite journal DB")
	runCmd.Flags().StringVar(&runTradesFile, "trades-file", "./trades.csv", "CSV journal trades file")
	runCmd.Flags().StringVar(&runEquityFile, "equity-file", "./equity.csv", "CSV journal equity file")
	runCmd.Flags().StringVar(&runOrgPath, "org", "", "write an org-mode report to this path")
	runCmd.Flags().BoolVar(&runShowTrades, "trades", false, "print the trade ledger")
}

// buildConfig merges the optional config file with command-line flags.
// Flags set explicitly override the file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	if runConfigPath != "" {
		loaded, err := config.LoadFromFile(runConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("signals") || cfg.SignalsFile == "" {
		cfg.SignalsFile = runSignalsPath
	}
	if flags.Changed("capital") {
		cfg.Capital = runCapital
	}
	if flags.Changed("slippage") {
		cfg.Backtest.Slippage = runSlippage
	}
	if flags.Changed("fee") {
		cfg.Backtest.Fee = runFee
	}
	if flags.Changed("stop-loss") {
		cfg.Backtest.StopLossPct = runStopLoss
	}
	if flags.Changed("take-profit") {
		cfg.Backtest.TakeProfitPct = runTakeProfit
	}
	if flags.Changed("allow-short") {
		cfg.Backtest.AllowShort = runAllowShort
	}
	if flags.Changed("mode") {
		cfg.Backtest.Mode = runMode
	}
	if flags.Changed("journal") {
		cfg.Journal.Type = runJournalType
	}
	if flags.Changed("db") {
		cfg.Journal.DBPath = runDBPath
	}
	if flags.Changed("trades-file") {
		cfg.Journal.TradesFile = runTradesFile
	}
	if flags.Changed("equity-file") {
		cfg.Journal.EquityFile = runEquityFile
	}
	if flags.Changed("org") {
		cfg.Report.OrgPath = runOrgPath
	}

	if cfg.SignalsFile == "" {
		return nil, fmt.Errorf("signal dataset required (--signals or signals_file in config)")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "", "none":
		return journal.Nop{}, nil
	case "csv":
		return journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	}
	return nil, fmt.Errorf("unknown journal type %q", cfg.Journal.Type)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	src, err := feed.OpenCSV(cfg.SignalsFile)
	if err != nil {
		return fmt.Errorf("open signals: %w", err)
	}
	signals, err := feed.ReadAll(src)
	if err != nil {
		return fmt.Errorf("read signals: %w", err)
	}

	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	engine, err := backtest.NewEngine(cfg.Backtest, cfg.Capital, j)
	if err != nil {
		return err
	}

	fmt.Printf("Running backtest over %s\n", cfg.SignalsFile)
	fmt.Printf("  Signals: %d  Capital: $%.2f  Mode: %s\n", len(signals), cfg.Capital, cfg.Backtest.Mode)
	fmt.Printf("  Slippage: %.4f  Fee: %.4f\n\n", cfg.Backtest.Slippage, cfg.Backtest.Fee)

	res, err := engine.Run(signals)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	if runShowTrades {
		report.TradesTable(os.Stdout, res.Trades)
		fmt.Println()
	}
	report.Table(os.Stdout, res.KPIs)

	if cfg.Report.OrgPath != "" {
		run := report.FromResult(cfg.SignalsFile, cfg.Capital, res)
		if err := run.WriteOrg(cfg.Report.OrgPath); err != nil {
			return fmt.Errorf("write org report: %w", err)
		}
		fmt.Printf("\nReport written to %s\n", cfg.Report.OrgPath)
	}

	return nil
}
