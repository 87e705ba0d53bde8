package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)
	assert.NoError(t, j.Close())

	tradesData, err := os.ReadFile(tradesPath)
	require.NoError(t, err)
	equityData, err := os.ReadFile(equityPath)
	require.NoError(t, err)

	tradesHeader, err := csv.NewReader(strings.NewReader(string(tradesData))).Read()
	require.NoError(t, err)
	equityHeader, err := csv.NewReader(strings.NewReader(string(equityData))).Read()
	require.NoError(t, err)

	wantTrades := []string{"trade_id", "asset", "side", "quantity", "entry_price", "exit_price", "entry_time", "exit_time", "pnl", "return_pct", "exit_value", "reason"}
	assert.Equal(t, wantTrades, tradesHeader)

	wantEquity := []string{"time", "cash", "equity"}
	assert.Equal(t, wantEquity, equityHeader)
}

func TestCSVJournalRecordTrade(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)

	entry := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	exit := time.Date(2024, 1, 2, 4, 5, 6, 0, time.UTC)

	err = j.RecordTrade(TradeRecord{
		TradeID:    "T1",
		Asset:      "BTC",
		Side:       "BUY",
		Quantity:   0.5,
		EntryPrice: 42000,
		ExitPrice:  43000,
		EntryTime:  entry,
		ExitTime:   exit,
		PnL:        500,
		ReturnPct:  2.38,
		ExitValue:  21500,
		Reason:     "Signal",
	})
	require.NoError(t, err)
	require.NoError(t, j.Close())

	data, err := os.ReadFile(tradesPath)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2) // header + one trade

	row := rows[1]
	assert.Equal(t, "T1", row[0])
	assert.Equal(t, "BTC", row[1])
	assert.Equal(t, "BUY", row[2])
	assert.Equal(t, entry.Format(time.RFC3339), row[6])
	assert.Equal(t, exit.Format(time.RFC3339), row[7])
	assert.Equal(t, "Signal", row[11])
}

func TestCSVJournalRecordEquity(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)

	t0 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordEquity(EquitySnapshot{Time: t0, Cash: 500, Equity: 1000}))
	require.NoError(t, j.Close())

	data, err := os.ReadFile(equityPath)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, t0.Format(time.RFC3339), rows[1][0])
	assert.Equal(t, "500.000000", rows[1][1])
	assert.Equal(t, "1000.000000", rows[1][2])
}

func TestNopJournal(t *testing.T) {
	t.Parallel()

	var j Journal = Nop{}
	assert.NoError(t, j.RecordTrade(TradeRecord{}))
	assert.NoError(t, j.RecordEquity(EquitySnapshot{}))
	assert.NoError(t, j.Close())
}
