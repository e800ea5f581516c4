package sim

// FeeRate is the taker fee charged on notional at both entry and exit.
const FeeRate = 0.0007

// RealizedPnl is the single P&L routine shared by full close, partial
// close, and tick-triggered close so the paths cannot drift.
func RealizedPnl(dir Direction, entry, exit, quantity, leverage float64) float64 {
	return dir.Sign() * (exit - entry) * quantity * leverage
}

// Fee charges the flat rate on notional. Used for both entry and exit legs.
func Fee(price, quantity float64) float64 {
	return price * quantity * FeeRate
}
