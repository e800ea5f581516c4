package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// Summary aggregates the recorded closes for reporting.
type Summary struct {
	Trades   int
	Wins     int
	Losses   int
	NetPL    float64
	Fees     float64
	ByReason map[string]int
}

// ListTradesClosedBetween returns trades whose close_time is within [start, end).
func (j *SQLite) ListTradesClosedBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT position_id, account_id, symbol, direction, quantity, leverage, entry_price, exit_price, open_time, close_time, realized_pl, fees, reason
		FROM trades
		WHERE close_time >= ? AND close_time < ?
		ORDER BY close_time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := rows.Scan(
			&rec.PositionID,
			&rec.AccountID,
			&rec.Symbol,
			&rec.Direction,
			&rec.Quantity,
			&rec.Leverage,
			&rec.EntryPrice,
			&rec.ExitPrice,
			&rec.OpenTime,
			&rec.CloseTime,
			&rec.RealizedPL,
			&rec.Fees,
			&rec.Reason,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTradesByAccount returns every recorded close for one account.
func (j *SQLite) ListTradesByAccount(accountID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT position_id, account_id, symbol, direction, quantity, leverage, entry_price, exit_price, open_time, close_time, realized_pl, fees, reason
		FROM trades
		WHERE account_id = ?
		ORDER BY close_time ASC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := rows.Scan(
			&rec.PositionID,
			&rec.AccountID,
			&rec.Symbol,
			&rec.Direction,
			&rec.Quantity,
			&rec.Leverage,
			&rec.EntryPrice,
			&rec.ExitPrice,
			&rec.OpenTime,
			&rec.CloseTime,
			&rec.RealizedPL,
			&rec.Fees,
			&rec.Reason,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Summarize aggregates wins, losses, net P&L, fees, and per-reason counts
// for one account.
func (j *SQLite) Summarize(accountID string) (Summary, error) {
	s := Summary{ByReason: map[string]int{}}

	row := j.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN realized_pl > 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN realized_pl < 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(realized_pl), 0),
		       COALESCE(SUM(fees), 0)
		FROM trades
		WHERE account_id = ?`, accountID)
	if err := row.Scan(&s.Trades, &s.Wins, &s.Losses, &s.NetPL, &s.Fees); err != nil {
		if err == sql.ErrNoRows {
			return s, nil
		}
		return Summary{}, fmt.Errorf("summarize %q: %w", accountID, err)
	}

	rows, err := j.db.Query(`
		SELECT reason, COUNT(*)
		FROM trades
		WHERE account_id = ?
		GROUP BY reason`, accountID)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var reason string
		var n int
		if err := rows.Scan(&reason, &n); err != nil {
			return Summary{}, err
		}
		s.ByReason[reason] = n
	}
	if err := rows.Err(); err != nil {
		return Summary{}, err
	}
	return s, nil
}
