package sim

import "time"

// ActivityEntry is an append-only audit record. Entries are never mutated
// after creation; the per-account log is trimmed to activityCap for display.
type ActivityEntry struct {
	Type  string
	Title string
	Sub   string
	Time  time.Time
	Pnl   *float64
}

const (
	activityOrderFilled    = "order_filled"
	activityOrderPlaced    = "order_placed"
	activityOrderCancelled = "order_cancelled"
	activityPositionClosed = "position_closed"
	activityPartialClose   = "partial_close"
)
