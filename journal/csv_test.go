package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCSV(t *testing.T) (*CSVJournal, string, string) {
	t.Helper()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)

	return j, tradesPath, equityPath
}

func readAll(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVHeadersWritten(t *testing.T) {
	t.Parallel()

	j, tradesPath, equityPath := newTestCSV(t)
	require.NoError(t, j.Close())

	trades := readAll(t, tradesPath)
	require.Len(t, trades, 1)
	assert.Equal(t, "position_id", trades[0][0])
	assert.Equal(t, "reason", trades[0][len(trades[0])-1])

	equity := readAll(t, equityPath)
	require.Len(t, equity, 1)
	assert.Equal(t, "time", equity[0][0])
	assert.Equal(t, "unrealized_pl", equity[0][len(equity[0])-1])
}

func TestCSVRecordTrade(t *testing.T) {
	t.Parallel()

	j, tradesPath, _ := newTestCSV(t)

	open := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	closeT := open.Add(time.Hour)

	require.NoError(t, j.RecordTrade(TradeRecord{
		PositionID: "P1",
		AccountID:  "A",
		Symbol:     "BTC_USD",
		Direction:  "short",
		Quantity:   0.25,
		Leverage:   5,
		EntryPrice: 95000,
		ExitPrice:  94000,
		OpenTime:   open,
		CloseTime:  closeT,
		RealizedPL: 1250,
		Fees:       16.45,
		Reason:     "manual",
	}))
	require.NoError(t, j.Close())

	rows := readAll(t, tradesPath)
	require.Len(t, rows, 2)

	row := rows[1]
	assert.Equal(t, "P1", row[0])
	assert.Equal(t, "A", row[1])
	assert.Equal(t, "BTC_USD", row[2])
	assert.Equal(t, "short", row[3])
	assert.Equal(t, "0.250000", row[4])
	assert.Equal(t, open.Format(time.RFC3339), row[8])
	assert.Equal(t, closeT.Format(time.RFC3339), row[9])
	assert.Equal(t, "manual", row[12])
}

func TestCSVRecordEquity(t *testing.T) {
	t.Parallel()

	j, _, equityPath := newTestCSV(t)

	ts := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	require.NoError(t, j.RecordEquity(EquitySnapshot{
		Time:            ts,
		AccountID:       "A",
		NetWorth:        100000,
		MarginUsed:      500,
		AvailableMargin: 99500,
		UnrealizedPL:    -25,
	}))
	require.NoError(t, j.Close())

	rows := readAll(t, equityPath)
	require.Len(t, rows, 2)
	assert.Equal(t, ts.Format(time.RFC3339), rows[1][0])
	assert.Equal(t, "A", rows[1][1])
	assert.Equal(t, "100000.000000", rows[1][2])
}

func TestNopJournalDiscards(t *testing.T) {
	t.Parallel()

	j := Nop()
	assert.NoError(t, j.RecordTrade(TradeRecord{}))
	assert.NoError(t, j.RecordEquity(EquitySnapshot{}))
	assert.NoError(t, j.Close())
}
