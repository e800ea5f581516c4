package sim

import "time"

// Caps on the per-account history collections. Display-only: the journal
// keeps the full record.
const (
	closedCap   = 200
	activityCap = 200
)

// Ledger is the authoritative in-memory state for one account: open and
// closed positions, resting orders, the activity log, and running totals.
// It carries no locking of its own; the owning Engine serializes every
// mutation and bumps stateVersion through it.
type Ledger struct {
	AccountID       string
	StartingBalance float64

	// Cumulative totals, only ever appended to by close paths.
	RealizedPnl   float64
	TotalFeesPaid float64

	positions map[string]*Position // open only
	closed    []*Position          // most recent last
	orders    map[string]*Order
	activity  []ActivityEntry

	// Margin reserved by pending non-market orders.
	reservedMargin float64

	// stateVersion increments on every committed mutation and keys the
	// cached snapshot.
	stateVersion uint64
	snap         *AccountSnapshot
	snapVersion  uint64
	recomputes   uint64 // snapshot recompute count, observable in tests
}

func NewLedger(accountID string, startingBalance float64) *Ledger {
	return &Ledger{
		AccountID:       accountID,
		StartingBalance: startingBalance,
		positions:       make(map[string]*Position),
		orders:          make(map[string]*Order),
	}
}

func (l *Ledger) bump() {
	l.stateVersion++
}

// StateVersion reports the current mutation counter.
func (l *Ledger) StateVersion() uint64 { return l.stateVersion }

func (l *Ledger) appendActivity(typ, title, sub string, t time.Time, pnl *float64) {
	l.activity = append(l.activity, ActivityEntry{
		Type:  typ,
		Title: title,
		Sub:   sub,
		Time:  t,
		Pnl:   pnl,
	})
	if len(l.activity) > activityCap {
		l.activity = l.activity[len(l.activity)-activityCap:]
	}
}

func (l *Ledger) retire(p *Position) {
	delete(l.positions, p.ID)
	l.closed = append(l.closed, p)
	if len(l.closed) > closedCap {
		l.closed = l.closed[len(l.closed)-closedCap:]
	}
}
