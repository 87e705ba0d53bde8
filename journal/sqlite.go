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
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, asset, side, quantity, entry_price, exit_price, entry_time, exit_time, pnl, return_pct, exit_value, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Asset, t.Side, t.Quantity, t.EntryPrice, t.ExitPrice,
		t.EntryTime, t.ExitTime, t.PnL, t.ReturnPct, t.ExitValue, t.Reason,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, cash, equity)
		VALUES (?, ?, ?)`,
		e.Time, e.Cash, e.Equity,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
