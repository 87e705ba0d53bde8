package backtest

// ApplySlippage worsens the fill price to model market impact.
// - BUY: price increases (worse entry)
// - SELL: price decreases (worse proceeds)
// Any other side, including CLOSE, passes through unchanged; exits settle at
// the raw signal price.
func ApplySlippage(price, slippage float64, side Side) float64 {
	switch side {
	case Buy:
		return price * (1 + slippage)
	case Sell:
		return price * (1 - slippage)
	}
	return price
}

// ApplyFees folds the proportional trading fee into the execution price,
// same directional convention as ApplySlippage. Fees come out of value,
// not quantity.
func ApplyFees(price, fee float64, side Side) float64 {
	switch side {
	case Buy:
		return price * (1 + fee)
	case Sell:
		return price * (1 - fee)
	}
	return price
}
