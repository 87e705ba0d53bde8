package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	assert.NoError(t, cfg.Validate())
	assert.InDelta(t, 0.001, cfg.Slippage, 1e-12)
	assert.InDelta(t, 0.001, cfg.Fee, 1e-12)
	assert.Zero(t, cfg.StopLossPct)
	assert.Zero(t, cfg.TakeProfitPct)
	assert.False(t, cfg.AllowShort)
	assert.Equal(t, ModeCompound, cfg.Mode)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(c *Config) {}, false},
		{"fixed mode", func(c *Config) { c.Mode = ModeFixed }, false},
		{"negative slippage", func(c *Config) { c.Slippage = -0.001 }, true},
		{"slippage at one", func(c *Config) { c.Slippage = 1 }, true},
		{"negative fee", func(c *Config) { c.Fee = -1 }, true},
		{"negative stop loss", func(c *Config) { c.StopLossPct = -0.1 }, true},
		{"negative take profit", func(c *Config) { c.TakeProfitPct = -0.1 }, true},
		{"unknown mode", func(c *Config) { c.Mode = "martingale" }, true},
		{"empty mode", func(c *Config) { c.Mode = "" }, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
