package report

import (
	"fmt"
	"strings"

	"github.com/quantfold/hindsight/pkg/quant"
)

// Render formats the report as a plain-text summary.
func (r *Report) Render() string {
	var sb strings.Builder

	sb.WriteString("-------------- Results ----------------\n\n")
	sb.WriteString(fmt.Sprintf("Period:           %s to %s\n\n",
		r.StartTime.Format("2006-01-02 15:04:05"),
		r.EndTime.Format("2006-01-02 15:04:05")))

	sb.WriteString(fmt.Sprintf("Relative Returns: %s%%\n", quant.AsPercent(r.RelativeReturn).StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Relative Profit:  %s\n\n", r.RelativeProfit.StringFixed(2)))

	sb.WriteString(fmt.Sprintf("Strategy:         %s%%\n", quant.AsPercent(r.StrategyReturn).StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Net Profit:       %s\n\n", r.NetProfit.StringFixed(2)))

	sb.WriteString(fmt.Sprintf("Buy and Hold:     %s%%\n", quant.AsPercent(r.BuyHoldReturn).StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Net Profit:       %s\n\n", r.BuyHoldProfit.StringFixed(2)))

	sb.WriteString(fmt.Sprintf("Final Equity:     %s\n", r.FinalEquity.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Max Drawdown:     %s (%s%%)\n", r.MaxDrawdown.StringFixed(2), quant.AsPercent(r.MaxDrawdownPct).StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Commission Paid:  %s\n\n", r.TotalCommission.StringFixed(2)))

	sb.WriteString(fmt.Sprintf("Buys:             %d\n", r.Buys))
	sb.WriteString(fmt.Sprintf("Sells:            %d\n", r.Sells))
	sb.WriteString("--------------------\n")
	sb.WriteString(fmt.Sprintf("Total Trades:     %d\n", r.TotalTrades))
	sb.WriteString("\n---------------------------------------\n")

	return sb.String()
}

// Summary formats the report as a single line.
func (r *Report) Summary() string {
	return fmt.Sprintf("Return: %s%% | Buy & Hold: %s%% | Trades: %d | Max DD: %s%%",
		quant.AsPercent(r.StrategyReturn).StringFixed(2),
		quant.AsPercent(r.BuyHoldReturn).StringFixed(2),
		r.TotalTrades,
		quant.AsPercent(r.MaxDrawdownPct).StringFixed(2))
}
