package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTrades(t *testing.T, j *SQLite) {
	t.Helper()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	recs := []TradeRecord{
		{PositionID: "P1", AccountID: "A", Symbol: "BTC_USD", Direction: "long", Quantity: 1, Leverage: 10, EntryPrice: 95000, ExitPrice: 95500, OpenTime: base, CloseTime: base.Add(time.Hour), RealizedPL: 5000, Fees: 133.5, Reason: "manual"},
		{PositionID: "P2", AccountID: "A", Symbol: "BTC_USD", Direction: "long", Quantity: 1, Leverage: 10, EntryPrice: 95000, ExitPrice: 94000, OpenTime: base, CloseTime: base.Add(2 * time.Hour), RealizedPL: -10000, Fees: 131.6, Reason: "sl"},
		{PositionID: "P3", AccountID: "A", Symbol: "ETH_USD", Direction: "short", Quantity: 2, Leverage: 5, EntryPrice: 3300, ExitPrice: 3250, OpenTime: base, CloseTime: base.Add(3 * time.Hour), RealizedPL: 500, Fees: 4.55, Reason: "tp"},
		{PositionID: "P4", AccountID: "B", Symbol: "SOL_USD", Direction: "long", Quantity: 10, Leverage: 2, EntryPrice: 214, ExitPrice: 215, OpenTime: base, CloseTime: base.Add(4 * time.Hour), RealizedPL: 20, Fees: 3.01, Reason: "manual"},
	}
	for _, r := range recs {
		require.NoError(t, j.RecordTrade(r))
	}
}

func TestListTradesByAccount(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })
	seedTrades(t, j)

	trades, err := j.ListTradesByAccount("A")
	require.NoError(t, err)
	require.Len(t, trades, 3)

	// Ordered by close_time ascending.
	assert.Equal(t, "P1", trades[0].PositionID)
	assert.Equal(t, "P2", trades[1].PositionID)
	assert.Equal(t, "P3", trades[2].PositionID)

	other, err := j.ListTradesByAccount("B")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "P4", other[0].PositionID)

	none, err := j.ListTradesByAccount("C")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListTradesClosedBetween(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })
	seedTrades(t, j)

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	trades, err := j.ListTradesClosedBetween(base.Add(90*time.Minute), base.Add(4*time.Hour))
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "P2", trades[0].PositionID)
	assert.Equal(t, "P3", trades[1].PositionID)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })
	seedTrades(t, j)

	s, err := j.Summarize("A")
	require.NoError(t, err)

	assert.Equal(t, 3, s.Trades)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.InDelta(t, -4500, s.NetPL, 1e-6)
	assert.InDelta(t, 269.65, s.Fees, 1e-6)
	assert.Equal(t, map[string]int{"manual": 1, "sl": 1, "tp": 1}, s.ByReason)
}

func TestSummarizeEmptyAccount(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	s, err := j.Summarize("nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, s.Trades)
	assert.Zero(t, s.NetPL)
	assert.Empty(t, s.ByReason)
}
