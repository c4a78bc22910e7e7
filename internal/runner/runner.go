// Package runner drives the simulation loop: it advances the cursor
// over a bar series in time order, syncs indicator views, invokes the
// user's decision logic against a simulated account, and hands the
// frozen ledger to the performance reporter.
//
// The loop is single-threaded and strictly sequential. One bar is fully
// processed before the cursor advances, and the cursor never rewinds.
// A Runner and its Account belong to exactly one run; parallel
// backtests each need their own series view, account, and adapters.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantfold/hindsight/internal/account"
	"github.com/quantfold/hindsight/internal/logger"
	"github.com/quantfold/hindsight/internal/report"
	"github.com/quantfold/hindsight/internal/series"
)

// State is the lifecycle of one backtest run.
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateComplete
	StateFailed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Params configures one backtest run.
type Params struct {
	// StartTime selects the first bar at or after it. Zero means the
	// first bar of the series.
	StartTime time.Time
	// EndTime selects the last bar at or before it. Zero means the
	// last bar of the series.
	EndTime time.Time

	// StartingCapital is the account's opening cash. Required.
	StartingCapital decimal.Decimal
	// Commission is the per-trade commission rate in [0,1).
	Commission decimal.Decimal

	// LookbackWindow caps the number of trailing bars passed to Logic.
	// Zero means the full history up to the cursor.
	LookbackWindow int

	// HaltOnOrderError aborts the run when Logic returns an order
	// rejection instead of continuing to the next bar.
	HaltOnOrderError bool

	// ShowTrades asks the visualization layer to overlay executed
	// trades; it has no effect on simulation results.
	ShowTrades bool
}

// Runner executes one strategy over one bar series.
type Runner struct {
	series   *series.BarSeries
	strategy Strategy
	registry *Registry

	state  State
	cursor int

	onProgress func(done, total int)
	log        *logger.Logger
}

// New creates a runner for one backtest of strat over s.
func New(s *series.BarSeries, strat Strategy) *Runner {
	return &Runner{
		series:   s,
		strategy: strat,
		registry: &Registry{},
		state:    StateNotStarted,
		log:      logger.Default().Component("runner"),
	}
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	return r.state
}

// Registry returns the indicator registry, populated by Setup. Useful
// to the visualization layer after a run.
func (r *Runner) Registry() *Registry {
	return r.registry
}

// SetOnProgress installs a per-bar progress callback.
func (r *Runner) SetOnProgress(fn func(done, total int)) {
	r.onProgress = fn
}

// Run executes the backtest and returns the performance report.
func (r *Runner) Run(ctx context.Context, p Params) (*report.Report, error) {
	if r.state != StateNotStarted {
		return nil, ErrRunConsumed
	}

	startIdx, endIdx, err := r.window(p)
	if err != nil {
		r.state = StateFailed
		return nil, err
	}

	acct, err := account.New(p.StartingCapital, p.Commission)
	if err != nil {
		r.state = StateFailed
		return nil, err
	}

	// One-time setup: the indicator set is frozen once the run starts.
	if err := r.strategy.Setup(r.registry); err != nil {
		r.state = StateFailed
		return nil, fmt.Errorf("strategy setup: %w", err)
	}
	r.registry.freeze()

	r.state = StateRunning
	r.log.Info("backtest started",
		"start", r.barTime(startIdx).Format(time.RFC3339),
		"end", r.barTime(endIdx).Format(time.RFC3339),
		"bars", endIdx-startIdx+1,
		"indicators", len(r.registry.Adapters()))

	curve := make([]report.EquityPoint, 0, endIdx-startIdx+1)
	total := endIdx - startIdx + 1

	for r.cursor = startIdx; r.cursor <= endIdx; r.cursor++ {
		// Cancellation is only honored at the bar boundary so a bar's
		// effects either commit in full or not at all.
		select {
		case <-ctx.Done():
			r.state = StateFailed
			return nil, fmt.Errorf("backtest canceled at bar %d: %w", r.cursor, ctx.Err())
		default:
		}

		bar, err := r.series.BarAt(r.cursor)
		if err != nil {
			r.state = StateFailed
			return nil, err
		}

		acct.AdvanceTo(bar.Timestamp)
		r.registry.syncAll(r.cursor)

		lookback := r.series.Lookback(r.cursor, p.LookbackWindow)

		if err := r.strategy.Logic(acct, lookback); err != nil {
			if account.IsOrderError(err) && !p.HaltOnOrderError {
				r.log.Debug("order rejected", "bar", r.cursor, "error", err.Error())
			} else {
				r.state = StateFailed
				return nil, &StrategyError{BarIndex: r.cursor, Timestamp: bar.Timestamp, Err: err}
			}
		}

		curve = append(curve, report.EquityPoint{
			Time:   bar.Timestamp,
			Equity: acct.MarkToMarket(bar.Close),
		})

		if r.onProgress != nil {
			r.onProgress(r.cursor-startIdx+1, total)
		}
	}

	acct.Freeze()
	r.state = StateComplete

	rep, err := report.Build(r.series, acct.Ledger(), curve, p.StartingCapital, startIdx, endIdx)
	if err != nil {
		return nil, err
	}
	r.log.Info("backtest complete", "summary", rep.Summary())
	return rep, nil
}

// window resolves the requested date range to bar indices.
func (r *Runner) window(p Params) (startIdx, endIdx int, err error) {
	startIdx = 0
	if !p.StartTime.IsZero() {
		i, ok := r.series.IndexAtOrAfter(p.StartTime)
		if !ok {
			return 0, 0, fmt.Errorf("%w: no bar at or after %s",
				ErrDateOutOfRange, p.StartTime.Format(time.RFC3339))
		}
		startIdx = i
	}

	endIdx = r.series.LastIndex()
	if !p.EndTime.IsZero() {
		i, ok := r.series.IndexAtOrBefore(p.EndTime)
		if !ok {
			return 0, 0, fmt.Errorf("%w: no bar at or before %s",
				ErrDateOutOfRange, p.EndTime.Format(time.RFC3339))
		}
		endIdx = i
	}

	if endIdx < startIdx {
		return 0, 0, fmt.Errorf("%w: window end precedes start", ErrDateOutOfRange)
	}
	return startIdx, endIdx, nil
}

func (r *Runner) barTime(i int) time.Time {
	bar, _ := r.series.BarAt(i)
	return bar.Timestamp
}
