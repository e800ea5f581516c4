package sim

// liquidationBuffer keeps the liquidation level slightly inside the point
// where losses fully consume isolated margin.
const liquidationBuffer = 0.95

func Notional(price, quantity float64) float64 {
	return price * quantity
}

// RequiredMargin is the isolated margin set aside for a position:
// notional divided by leverage.
func RequiredMargin(price, quantity, leverage float64) float64 {
	return Notional(price, quantity) / leverage
}

// LiquidationPrice is strictly on the losing side of entry: below for
// long, above for short.
func LiquidationPrice(dir Direction, entry, leverage float64) float64 {
	adj := (1 / leverage) * liquidationBuffer
	if dir == Short {
		return entry * (1 + adj)
	}
	return entry * (1 - adj)
}
