package runner

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDateOutOfRange indicates a backtest window with no matching bars.
	ErrDateOutOfRange = errors.New("no bars in requested date range")

	// ErrRunConsumed indicates a second Run on the same Runner. Each
	// run needs an independently constructed Runner and Account.
	ErrRunConsumed = errors.New("runner has already been run")
)

// StrategyError is an uncaught failure inside decision logic, carrying
// the bar at which it occurred. It is fatal to the run.
type StrategyError struct {
	BarIndex  int
	Timestamp time.Time
	Err       error
}

// Error implements the error interface.
func (e *StrategyError) Error() string {
	return fmt.Sprintf("strategy logic failed at bar %d (%s): %v",
		e.BarIndex, e.Timestamp.Format(time.RFC3339), e.Err)
}

// Unwrap returns the underlying logic error.
func (e *StrategyError) Unwrap() error {
	return e.Err
}
