package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// Summary aggregates the trades table for reporting.
type Summary struct {
	Trades int
	Wins   int
	Losses int
	NetPnL float64
}

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	row := j.db.QueryRow(`
		SELECT trade_id, asset, side, quantity, entry_price, exit_price, entry_time, exit_time, pnl, return_pct, exit_value, reason
		FROM trades
		WHERE trade_id = ?`, tradeID)

	var rec TradeRecord
	err := scanTrade(row.Scan, &rec)
	if err != nil {
		if err == sql.ErrNoRows {
			return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTrades returns every trade ordered by exit time.
func (j *SQLite) ListTrades() ([]TradeRecord, error) {
	return j.listTrades(`
		SELECT trade_id, asset, side, quantity, entry_price, exit_price, entry_time, exit_time, pnl, return_pct, exit_value, reason
		FROM trades
		ORDER BY exit_time ASC`)
}

// ListTradesClosedBetween returns trades whose exit_time is within [start, end).
func (j *SQLite) ListTradesClosedBetween(start, end time.Time) ([]TradeRecord, error) {
	return j.listTrades(`
		SELECT trade_id, asset, side, quantity, entry_price, exit_price, entry_time, exit_time, pnl, return_pct, exit_value, reason
		FROM trades
		WHERE exit_time >= ? AND exit_time < ?
		ORDER BY exit_time ASC`, start, end)
}

// Summarize reduces the whole trades table to a win/loss tally.
func (j *SQLite) Summarize() (Summary, error) {
	row := j.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN pnl > 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN pnl < 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(pnl), 0)
		FROM trades`)

	var s Summary
	if err := row.Scan(&s.Trades, &s.Wins, &s.Losses, &s.NetPnL); err != nil {
		return Summary{}, err
	}
	return s, nil
}

// ListEquity returns the recorded equity rows ordered by time.
func (j *SQLite) ListEquity() ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`SELECT time, cash, equity FROM equity ORDER BY time ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var e EquitySnapshot
		if err := rows.Scan(&e.Time, &e.Cash, &e.Equity); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLite) listTrades(query string, args ...any) ([]TradeRecord, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := scanTrade(rows.Scan, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanTrade(scan func(...any) error, rec *TradeRecord) error {
	return scan(
		&rec.TradeID,
		&rec.Asset,
		&rec.Side,
		&rec.Quantity,
		&rec.EntryPrice,
		&rec.ExitPrice,
		&rec.EntryTime,
		&rec.ExitTime,
		&rec.PnL,
		&rec.ReturnPct,
		&rec.ExitValue,
		&rec.Reason,
	)
}
