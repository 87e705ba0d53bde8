package backtest

import "fmt"

// Sizing modes. Compound lets allocations grow with accumulated profit;
// fixed caps every allocation at a share of the starting capital.
const (
	ModeCompound = "compound"
	ModeFixed    = "fixed"
)

// Config holds the immutable cost-model parameters for one simulation run.
type Config struct {
	Slippage      float64 `json:"slippage" yaml:"slippage"`               // fraction per side, e.g. 0.001
	Fee           float64 `json:"fee" yaml:"fee"`                         // fraction per side
	StopLossPct   float64 `json:"stop_loss_pct" yaml:"stop_loss_pct"`     // fraction of entry price, 0 disables
	TakeProfitPct float64 `json:"take_profit_pct" yaml:"take_profit_pct"` // fraction of entry price, 0 disables
	AllowShort    bool    `json:"allow_short" yaml:"allow_short"`
	Mode          string  `json:"mode" yaml:"mode"` // "compound" or "fixed"
}

// DefaultConfig returns the standard cost model: 0.1% slippage and fee per
// side, no stops, longs only, compound sizing.
func DefaultConfig() Config {
	return Config{
		Slippage: 0.001,
		Fee:      0.001,
		Mode:     ModeCompound,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Slippage < 0 || c.Slippage >= 1 {
		return fmt.Errorf("slippage must be in [0,1), got %v", c.Slippage)
	}
	if c.Fee < 0 || c.Fee >= 1 {
		return fmt.Errorf("fee must be in [0,1), got %v", c.Fee)
	}
	if c.StopLossPct < 0 {
		return fmt.Errorf("stop_loss_pct must be non-negative, got %v", c.StopLossPct)
	}
	if c.TakeProfitPct < 0 {
		return fmt.Errorf("take_profit_pct must be non-negative, got %v", c.TakeProfitPct)
	}
	if c.Mode != ModeCompound && c.Mode != ModeFixed {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeCompound, ModeFixed, c.Mode)
	}
	return nil
}
