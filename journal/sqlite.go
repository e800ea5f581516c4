package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(position_id, account_id, symbol, direction, quantity, leverage, entry_price, exit_price, open_time, close_time, realized_pl, fees, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.PositionID, t.AccountID, t.Symbol, t.Direction, t.Quantity, t.Leverage,
		t.EntryPrice, t.ExitPrice, t.OpenTime, t.CloseTime, t.RealizedPL, t.Fees, t.Reason,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, account_id, net_worth, margin_used, available_margin, unrealized_pl)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.Time, e.AccountID, e.NetWorth, e.MarginUsed, e.AvailableMargin, e.UnrealizedPL,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
