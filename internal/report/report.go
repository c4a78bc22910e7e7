// Package report computes post-run performance analytics from a frozen
// trade ledger and the bar series it was produced against. Building a
// report reads its inputs and never mutates them, so reporting the same
// run twice yields identical output.
package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantfold/hindsight/internal/account"
	"github.com/quantfold/hindsight/internal/series"
	"github.com/quantfold/hindsight/pkg/quant"
)

// EquityPoint is one mark-to-market observation of account equity.
type EquityPoint struct {
	Time   time.Time
	Equity decimal.Decimal
}

// Report is the structured result of one backtest run.
type Report struct {
	StartTime time.Time
	EndTime   time.Time

	StartingCapital decimal.Decimal
	FinalEquity     decimal.Decimal
	NetProfit       decimal.Decimal
	StrategyReturn  decimal.Decimal // fraction, e.g. 0.10 for +10%

	BuyHoldReturn decimal.Decimal
	BuyHoldProfit decimal.Decimal

	RelativeReturn decimal.Decimal
	RelativeProfit decimal.Decimal

	MaxDrawdown    decimal.Decimal
	MaxDrawdownPct decimal.Decimal

	TotalCommission decimal.Decimal
	Buys            int
	Sells           int
	TotalTrades     int

	Trades      []account.Trade
	EquityCurve []EquityPoint
}

// Build computes a report over the window [startIdx, endIdx] of s from
// the ledger and the per-bar equity curve recorded during the run.
func Build(
	s *series.BarSeries,
	ledger []account.Trade,
	curve []EquityPoint,
	startingCapital decimal.Decimal,
	startIdx, endIdx int,
) (*Report, error) {
	startBar, err := s.BarAt(startIdx)
	if err != nil {
		return nil, fmt.Errorf("report window start: %w", err)
	}
	endBar, err := s.BarAt(endIdx)
	if err != nil {
		return nil, fmt.Errorf("report window end: %w", err)
	}
	if endIdx < startIdx {
		return nil, fmt.Errorf("report window end %d before start %d", endIdx, startIdx)
	}

	cash, quantity, commission, buys, sells := replayLedger(startingCapital, ledger)
	finalEquity := cash.Add(quantity.Mul(endBar.Close))

	strategyReturn := quant.PercentChange(startingCapital, finalEquity)
	buyHoldReturn := quant.PercentChange(startBar.Close, endBar.Close)
	buyHoldProfit := quant.Profit(startingCapital, buyHoldReturn)
	netProfit := finalEquity.Sub(startingCapital)

	maxDD, maxDDPct := maxDrawdown(startingCapital, curve)

	r := &Report{
		StartTime:       startBar.Timestamp,
		EndTime:         endBar.Timestamp,
		StartingCapital: startingCapital,
		FinalEquity:     finalEquity,
		NetProfit:       netProfit,
		StrategyReturn:  strategyReturn,
		BuyHoldReturn:   buyHoldReturn,
		BuyHoldProfit:   buyHoldProfit,
		RelativeReturn:  strategyReturn.Sub(buyHoldReturn),
		RelativeProfit:  netProfit.Sub(buyHoldProfit),
		MaxDrawdown:     maxDD,
		MaxDrawdownPct:  maxDDPct,
		TotalCommission: commission,
		Buys:            buys,
		Sells:           sells,
		TotalTrades:     buys + sells,
		Trades:          make([]account.Trade, len(ledger)),
		EquityCurve:     make([]EquityPoint, len(curve)),
	}
	copy(r.Trades, ledger)
	copy(r.EquityCurve, curve)
	return r, nil
}

// replayLedger reconstructs cash and open quantity from the trade
// ledger alone. A buy consumed quantity*price plus its commission; a
// sell credited quantity*price minus its commission.
func replayLedger(startingCapital decimal.Decimal, ledger []account.Trade) (cash, quantity, commission decimal.Decimal, buys, sells int) {
	cash = startingCapital
	for _, t := range ledger {
		notional := t.Quantity.Mul(t.Price)
		switch t.Side {
		case account.SideBuy:
			cash = cash.Sub(notional).Sub(t.Commission)
			quantity = quantity.Add(t.Quantity)
			buys++
		case account.SideSell:
			cash = cash.Add(notional).Sub(t.Commission)
			quantity = quantity.Sub(t.Quantity)
			sells++
		}
		commission = commission.Add(t.Commission)
	}
	return cash, quantity, commission, buys, sells
}

func maxDrawdown(startingCapital decimal.Decimal, curve []EquityPoint) (decimal.Decimal, decimal.Decimal) {
	var maxDD, maxDDPct decimal.Decimal
	peak := startingCapital

	for _, point := range curve {
		if point.Equity.GreaterThan(peak) {
			peak = point.Equity
		}
		dd := peak.Sub(point.Equity)
		if dd.GreaterThan(maxDD) {
			maxDD = dd
			if !peak.IsZero() {
				maxDDPct = dd.Div(peak)
			}
		}
	}
	return maxDD, maxDDPct
}
