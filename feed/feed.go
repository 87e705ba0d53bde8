package feed

import "github.com/rustyeddy/backtester/backtest"

// Feed yields signals one at a time, typically from a dataset file.
// Implementations should be deterministic and return (ok=false, err=nil) at
// end of input.
type Feed interface {
	Next() (s backtest.Signal, ok bool, err error)
	Close() error
}

// Slice replays an in-memory signal slice.
type Slice struct {
	signals []backtest.Signal
	idx     int
}

func NewSlice(signals []backtest.Signal) *Slice {
	return &Slice{signals: signals}
}

func (s *Slice) Next() (backtest.Signal, bool, error) {
	if s.idx >= len(s.signals) {
		return backtest.Signal{}, false, nil
	}
	sig := s.signals[s.idx]
	s.idx++
	return sig, true, nil
}

func (s *Slice) Close() error { return nil }

// ReadAll drains a feed into a slice and closes it. The engine sorts
// internally, so the feed order does not have to be chronological.
func ReadAll(f Feed) ([]backtest.Signal, error) {
	defer f.Close()

	var out []backtest.Signal
	for {
		sig, ok, err := f.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, sig)
	}
}
