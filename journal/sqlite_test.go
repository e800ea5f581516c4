package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	assert.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','equity')`)
	assert.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["trades"])
	assert.True(t, found["equity"])
}

func TestSQLiteRecordTrade(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	open := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	closeT := time.Date(2025, 1, 2, 4, 5, 6, 0, time.UTC)

	rec := TradeRecord{
		PositionID: "P1",
		AccountID:  "ACCT-1",
		Symbol:     "BTC_USD",
		Direction:  "long",
		Quantity:   0.5,
		Leverage:   10,
		EntryPrice: 95420.50,
		ExitPrice:  96010.25,
		OpenTime:   open,
		CloseTime:  closeT,
		RealizedPL: 2948.75,
		Fees:       33.60,
		Reason:     "tp",
	}

	assert.NoError(t, j.RecordTrade(rec))
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var got TradeRecord
	err = db.QueryRow(`
        SELECT position_id, account_id, symbol, direction, quantity, leverage, entry_price, exit_price, open_time, close_time, realized_pl, fees, reason
        FROM trades LIMIT 1`).Scan(
		&got.PositionID, &got.AccountID, &got.Symbol, &got.Direction,
		&got.Quantity, &got.Leverage, &got.EntryPrice, &got.ExitPrice,
		&got.OpenTime, &got.CloseTime, &got.RealizedPL, &got.Fees, &got.Reason,
	)
	assert.NoError(t, err)

	assert.Equal(t, rec.PositionID, got.PositionID)
	assert.Equal(t, rec.AccountID, got.AccountID)
	assert.Equal(t, rec.Symbol, got.Symbol)
	assert.Equal(t, rec.Direction, got.Direction)
	assert.InDelta(t, rec.Quantity, got.Quantity, 1e-9)
	assert.InDelta(t, rec.Leverage, got.Leverage, 1e-9)
	assert.InDelta(t, rec.EntryPrice, got.EntryPrice, 1e-9)
	assert.InDelta(t, rec.ExitPrice, got.ExitPrice, 1e-9)
	assert.True(t, got.OpenTime.Equal(rec.OpenTime))
	assert.True(t, got.CloseTime.Equal(rec.CloseTime))
	assert.InDelta(t, rec.RealizedPL, got.RealizedPL, 1e-6)
	assert.InDelta(t, rec.Fees, got.Fees, 1e-6)
	assert.Equal(t, rec.Reason, got.Reason)
}

func TestSQLiteRecordEquity(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	ts := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	rec := EquitySnapshot{
		Time:            ts,
		AccountID:       "ACCT-1",
		NetWorth:        99866.42,
		MarginUsed:      9542.05,
		AvailableMargin: 90324.37,
		UnrealizedPL:    -12.5,
	}

	assert.NoError(t, j.RecordEquity(rec))
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var got EquitySnapshot
	err = db.QueryRow(`
        SELECT time, account_id, net_worth, margin_used, available_margin, unrealized_pl
        FROM equity LIMIT 1`).Scan(
		&got.Time, &got.AccountID, &got.NetWorth, &got.MarginUsed, &got.AvailableMargin, &got.UnrealizedPL,
	)
	assert.NoError(t, err)

	assert.True(t, got.Time.Equal(rec.Time))
	assert.Equal(t, rec.AccountID, got.AccountID)
	assert.InDelta(t, rec.NetWorth, got.NetWorth, 1e-6)
	assert.InDelta(t, rec.MarginUsed, got.MarginUsed, 1e-6)
	assert.InDelta(t, rec.AvailableMargin, got.AvailableMargin, 1e-6)
	assert.InDelta(t, rec.UnrealizedPL, got.UnrealizedPL, 1e-6)
}
