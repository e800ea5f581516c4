// journal/journal.go
package journal

import "time"

// TradeRecord is one realized close: a full close, a partial close, or a
// tick-triggered stop/take close.
type TradeRecord struct {
	PositionID string
	AccountID  string
	Symbol     string
	Direction  string
	Quantity   float64
	Leverage   float64
	EntryPrice float64
	ExitPrice  float64
	OpenTime   time.Time
	CloseTime  time.Time
	RealizedPL float64
	Fees       float64
	Reason     string
}

// EquitySnapshot is the account state recorded alongside each close.
type EquitySnapshot struct {
	Time            time.Time
	AccountID       string
	NetWorth        float64
	MarginUsed      float64
	AvailableMargin float64
	UnrealizedPL    float64
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

type nop struct{}

// Nop returns a journal that discards everything. Used by tests and
// journal-less runs.
func Nop() Journal { return nop{} }

func (nop) RecordTrade(TradeRecord) error     { return nil }
func (nop) RecordEquity(EquitySnapshot) error { return nil }
func (nop) Close() error                      { return nil }
