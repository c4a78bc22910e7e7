// Package series holds the immutable, time-ordered table of historical
// bars a backtest replays, plus any indicator columns aligned to it.
package series

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidBarData indicates malformed or out-of-order input bars.
	ErrInvalidBarData = errors.New("invalid bar data")

	// ErrIndexOutOfRange indicates a bar index outside [0, Len).
	ErrIndexOutOfRange = errors.New("bar index out of range")

	// ErrAlignment indicates an indicator column whose length does not
	// match the bar series.
	ErrAlignment = errors.New("indicator column not aligned to bar series")
)

// Bar is a single OHLCV observation for one time interval.
type Bar struct {
	Timestamp time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
}

// Validate checks the OHLCV invariants of a single bar.
func (b Bar) Validate() error {
	if b.Timestamp.IsZero() {
		return fmt.Errorf("%w: zero timestamp", ErrInvalidBarData)
	}
	if b.Volume.IsNegative() {
		return fmt.Errorf("%w: negative volume at %s", ErrInvalidBarData, b.Timestamp.Format(time.RFC3339))
	}
	lo := decimal.Min(b.Open, b.Close)
	hi := decimal.Max(b.Open, b.Close)
	if b.Low.GreaterThan(lo) || b.High.LessThan(hi) || b.Low.GreaterThan(b.High) {
		return fmt.Errorf("%w: OHLC range violated at %s", ErrInvalidBarData, b.Timestamp.Format(time.RFC3339))
	}
	return nil
}

// BarSeries is an ordered sequence of bars with strictly increasing
// timestamps. It is built once and read-only afterwards; attached
// indicator columns must have the same length and index alignment.
type BarSeries struct {
	bars    []Bar
	columns map[string][]float64
}

// New builds a BarSeries from already-retrieved bars, validating each
// bar and the ordering. No partial series is returned on failure.
func New(bars []Bar) (*BarSeries, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: empty series", ErrInvalidBarData)
	}

	owned := make([]Bar, len(bars))
	copy(owned, bars)

	for i, bar := range owned {
		if err := bar.Validate(); err != nil {
			return nil, err
		}
		if i > 0 && !bar.Timestamp.After(owned[i-1].Timestamp) {
			return nil, fmt.Errorf("%w: timestamp %s at index %d not after previous bar",
				ErrInvalidBarData, bar.Timestamp.Format(time.RFC3339), i)
		}
	}

	return &BarSeries{
		bars:    owned,
		columns: make(map[string][]float64),
	}, nil
}

// Len returns the number of bars in the series.
func (s *BarSeries) Len() int {
	return len(s.bars)
}

// LastIndex returns the index of the last bar.
func (s *BarSeries) LastIndex() int {
	return len(s.bars) - 1
}

// BarAt returns the bar at index i.
func (s *BarSeries) BarAt(i int) (Bar, error) {
	if i < 0 || i >= len(s.bars) {
		return Bar{}, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, i, len(s.bars))
	}
	return s.bars[i], nil
}

// Lookback returns the trailing window of bars ending at and including
// index i. Fewer than window bars are returned near the start of the
// series; window <= 0 means everything up to i. The returned slice is
// capped so it can never be grown into bars after i.
func (s *BarSeries) Lookback(i, window int) []Bar {
	if i < 0 || i >= len(s.bars) {
		return nil
	}
	start := 0
	if window > 0 && i+1 > window {
		start = i + 1 - window
	}
	return s.bars[start : i+1 : i+1]
}

// IndexAtOrAfter returns the index of the first bar whose timestamp is
// at or after t. The second return is false when no such bar exists.
func (s *BarSeries) IndexAtOrAfter(t time.Time) (int, bool) {
	for i, bar := range s.bars {
		if !bar.Timestamp.Before(t) {
			return i, true
		}
	}
	return 0, false
}

// IndexAtOrBefore returns the index of the last bar whose timestamp is
// at or before t. The second return is false when no such bar exists.
func (s *BarSeries) IndexAtOrBefore(t time.Time) (int, bool) {
	for i := len(s.bars) - 1; i >= 0; i-- {
		if !s.bars[i].Timestamp.After(t) {
			return i, true
		}
	}
	return 0, false
}

// Attach registers a named indicator column computed externally over
// this series. The column must have one value per bar.
func (s *BarSeries) Attach(name string, values []float64) error {
	if len(values) != len(s.bars) {
		return fmt.Errorf("%w: column %q has %d values for %d bars",
			ErrAlignment, name, len(values), len(s.bars))
	}
	owned := make([]float64, len(values))
	copy(owned, values)
	s.columns[name] = owned
	return nil
}

// Column returns the named indicator column, or false if absent.
func (s *BarSeries) Column(name string) ([]float64, bool) {
	col, ok := s.columns[name]
	return col, ok
}

// Closes returns the close prices as a float64 column, the shape the
// external indicator computation consumes.
func (s *BarSeries) Closes() []float64 {
	return s.floatColumn(func(b Bar) decimal.Decimal { return b.Close })
}

// Opens returns the open prices as a float64 column.
func (s *BarSeries) Opens() []float64 {
	return s.floatColumn(func(b Bar) decimal.Decimal { return b.Open })
}

// Highs returns the high prices as a float64 column.
func (s *BarSeries) Highs() []float64 {
	return s.floatColumn(func(b Bar) decimal.Decimal { return b.High })
}

// Lows returns the low prices as a float64 column.
func (s *BarSeries) Lows() []float64 {
	return s.floatColumn(func(b Bar) decimal.Decimal { return b.Low })
}

// Volumes returns the volumes as a float64 column.
func (s *BarSeries) Volumes() []float64 {
	return s.floatColumn(func(b Bar) decimal.Decimal { return b.Volume })
}

func (s *BarSeries) floatColumn(field func(Bar) decimal.Decimal) []float64 {
	out := make([]float64, len(s.bars))
	for i, bar := range s.bars {
		out[i] = field(bar).InexactFloat64()
	}
	return out
}
