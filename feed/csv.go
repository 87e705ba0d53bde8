package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/rustyeddy/backtester/backtest"
)

// CSV reads signals from a CSV dataset with rows of the form
//
//	time,asset,side,price
//
// Time is RFC3339, side is BUY/SELL/CLOSE (case-insensitive). A header row
// and blank or short rows are skipped. Files with an .xz suffix are
// decompressed on the fly.
type CSV struct {
	f *os.File
	r *csv.Reader
}

func OpenCSV(path string) (*CSV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var src io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		src = xr
	}

	r := csv.NewReader(src)
	r.FieldsPerRecord = -1 // row length is validated per row
	r.TrimLeadingSpace = true

	return &CSV{f: f, r: r}, nil
}

func (c *CSV) Next() (backtest.Signal, bool, error) {
	for {
		row, err := c.r.Read()
		if err == io.EOF {
			return backtest.Signal{}, false, nil
		}
		if err != nil {
			return backtest.Signal{}, false, err
		}

		sig, ok, err := parseSignalRow(row)
		if err != nil {
			return backtest.Signal{}, false, err
		}
		if !ok {
			continue
		}
		return sig, true, nil
	}
}

func (c *CSV) Close() error {
	return c.f.Close()
}

// parseSignalRow converts one CSV row into a Signal. ok=false skips rows
// that carry no data (short rows, blanks, the header); malformed timestamps,
// sides or prices are errors.
func parseSignalRow(row []string) (backtest.Signal, bool, error) {
	if len(row) < 4 {
		return backtest.Signal{}, false, nil
	}

	ts := strings.TrimSpace(row[0])
	asset := strings.TrimSpace(row[1])
	side := strings.ToUpper(strings.TrimSpace(row[2]))
	price := strings.TrimSpace(row[3])

	if ts == "" || asset == "" || side == "" || price == "" {
		return backtest.Signal{}, false, nil
	}
	if strings.EqualFold(ts, "time") {
		return backtest.Signal{}, false, nil // header row
	}

	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return backtest.Signal{}, false, fmt.Errorf("bad timestamp %q: %w", ts, err)
	}

	switch backtest.Side(side) {
	case backtest.Buy, backtest.Sell, backtest.Close:
	default:
		return backtest.Signal{}, false, fmt.Errorf("bad side %q", side)
	}

	p, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return backtest.Signal{}, false, fmt.Errorf("bad price %q: %w", price, err)
	}

	return backtest.Signal{
		Time:  t,
		Asset: asset,
		Side:  backtest.Side(side),
		Price: p,
	}, true, nil
}
