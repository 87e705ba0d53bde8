package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/backtester/backtest"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, 1000.0, cfg.Capital)
	assert.Equal(t, "none", cfg.Journal.Type)
	assert.Equal(t, backtest.ModeCompound, cfg.Backtest.Mode)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero capital",
			mutate:  func(c *Config) { c.Capital = 0 },
			wantErr: true,
		},
		{
			name:    "negative capital",
			mutate:  func(c *Config) { c.Capital = -100 },
			wantErr: true,
		},
		{
			name:    "invalid backtest config",
			mutate:  func(c *Config) { c.Backtest.Slippage = 1.5 },
			wantErr: true,
		},
		{
			name:   "empty journal type",
			mutate: func(c *Config) { c.Journal.Type = "" },
		},
		{
			name: "csv journal with paths",
			mutate: func(c *Config) {
				c.Journal = JournalConfig{Type: "csv", TradesFile: "t.csv", EquityFile: "e.csv"}
			},
		},
		{
			name: "csv journal missing equity file",
			mutate: func(c *Config) {
				c.Journal = JournalConfig{Type: "csv", TradesFile: "t.csv"}
			},
			wantErr: true,
		},
		{
			name: "sqlite journal with path",
			mutate: func(c *Config) {
				c.Journal = JournalConfig{Type: "sqlite", DBPath: "run.db"}
			},
		},
		{
			name: "sqlite journal missing path",
			mutate: func(c *Config) {
				c.Journal = JournalConfig{Type: "sqlite"}
			},
			wantErr: true,
		},
		{
			name:    "unknown journal type",
			mutate:  func(c *Config) { c.Journal.Type = "postgres" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Capital = 5000
	cfg.SignalsFile = "signals.csv"
	cfg.Backtest.Fee = 0.002
	cfg.Backtest.AllowShort = true
	cfg.Journal = JournalConfig{Type: "sqlite", DBPath: "run.db"}
	cfg.Report.OrgPath = "report.org"

	require.NoError(t, cfg.SaveToFile(path))

	got, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 5000.0, got.Capital)
	assert.Equal(t, "signals.csv", got.SignalsFile)
	assert.Equal(t, 0.002, got.Backtest.Fee)
	assert.True(t, got.Backtest.AllowShort)
	assert.Equal(t, "sqlite", got.Journal.Type)
	assert.Equal(t, "run.db", got.Journal.DBPath)
	assert.Equal(t, "report.org", got.Report.OrgPath)
}

func TestSaveAndLoadJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Capital = 2500
	cfg.Backtest.Mode = backtest.ModeFixed

	require.NoError(t, cfg.SaveToFile(path))

	got, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, got.Capital)
	assert.Equal(t, backtest.ModeFixed, got.Backtest.Mode)
}

func TestLoadFromFileRejectsInvalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capital: -5\n"), 0644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestLoadFromFileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFileGarbage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "garbage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{{not valid"), 0644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}
