package sim

import "time"

type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// Sign maps the direction onto the P&L formula: +1 for long, -1 for short.
func (d Direction) Sign() float64 {
	if d == Short {
		return -1
	}
	return 1
}

func (d Direction) Opposite() Direction {
	if d == Long {
		return Short
	}
	return Long
}

func (d Direction) valid() bool { return d == Long || d == Short }

type PositionStatus string

const (
	PositionOpen   PositionStatus = "open"
	PositionClosed PositionStatus = "closed"
)

type CloseReason string

const (
	CloseManual     CloseReason = "manual"
	CloseStopLoss   CloseReason = "sl"
	CloseTakeProfit CloseReason = "tp"
	CloseAdminForce CloseReason = "admin_force"
)

// Position is a simulated leveraged position. While Status is open,
// ExitPrice/ExitTime are zero; once closed the position is immutable and
// lives only in the account's closed history.
type Position struct {
	ID        string
	AccountID string
	Symbol    string
	Direction Direction

	Quantity   float64
	Leverage   float64
	EntryPrice float64
	EntryTime  time.Time

	ExitPrice float64
	ExitTime  time.Time

	LiquidationPrice float64
	Status           PositionStatus
	CloseReason      CloseReason

	IsolatedMargin float64
	RealizedPnl    float64
	TradeFees      float64 // fee paid at entry
	TotalFees      float64 // entry + close fees

	StopLoss             *float64
	TakeProfit           *float64
	TrailingStopDistance *float64
}
