package sim

// AccountSnapshot is the derived read model for one account. It is cached
// on the ledger and keyed by the state version, so repeated polls between
// mutations return the cached value without recomputation.
type AccountSnapshot struct {
	AccountID       string
	StartingBalance float64

	RealizedPnl   float64
	UnrealizedPnl float64
	TotalFeesPaid float64

	NetWorth        float64
	MarginUsed      float64
	ReservedMargin  float64
	AvailableMargin float64

	OpenPositions int
	StateVersion  uint64
}

// snapshotLocked recomputes the snapshot if the cached one is stale.
// Caller holds the engine lock.
func (e *Engine) snapshotLocked(l *Ledger) AccountSnapshot {
	if l.snap != nil && l.snapVersion == l.stateVersion {
		return *l.snap
	}

	var marginUsed, unrealized float64
	for _, p := range l.positions {
		marginUsed += p.IsolatedMargin

		q := e.prices.GetQuote(p.Symbol)
		mark := q.Bid
		if p.Direction == Short {
			mark = q.Ask
		}
		unrealized += RealizedPnl(p.Direction, p.EntryPrice, mark, p.Quantity, p.Leverage)
	}

	netWorth := l.StartingBalance + l.RealizedPnl + unrealized - l.TotalFeesPaid
	available := netWorth - marginUsed - l.reservedMargin
	if available < 0 {
		available = 0
	}

	snap := AccountSnapshot{
		AccountID:       l.AccountID,
		StartingBalance: l.StartingBalance,
		RealizedPnl:     l.RealizedPnl,
		UnrealizedPnl:   unrealized,
		TotalFeesPaid:   l.TotalFeesPaid,
		NetWorth:        netWorth,
		MarginUsed:      marginUsed,
		ReservedMargin:  l.reservedMargin,
		AvailableMargin: available,
		OpenPositions:   len(l.positions),
		StateVersion:    l.stateVersion,
	}

	l.snap = &snap
	l.snapVersion = l.stateVersion
	l.recomputes++
	return snap
}
