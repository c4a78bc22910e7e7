// Package viz renders backtest results for the terminal. It only reads
// report output and the trade ledger; nothing here can influence a
// simulation.
package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/quantfold/hindsight/internal/account"
	"github.com/quantfold/hindsight/internal/report"
	"github.com/quantfold/hindsight/pkg/quant"
)

var (
	successColor = lipgloss.Color("#00FF87")
	errorColor   = lipgloss.Color("#FF5555")
	mutedColor   = lipgloss.Color("#6272A4")

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// RenderReport renders the report as a styled card with an equity
// sparkline.
func RenderReport(r *report.Report) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Backtest Results"))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("%s — %s",
		r.StartTime.Format("2006-01-02 15:04"),
		r.EndTime.Format("2006-01-02 15:04"))))
	sb.WriteString("\n\n")

	sb.WriteString(line("Strategy", signedPercent(r.StrategyReturn)))
	sb.WriteString(line("Net Profit", signedAmount(r.NetProfit)))
	sb.WriteString(line("Buy and Hold", signedPercent(r.BuyHoldReturn)))
	sb.WriteString(line("B&H Profit", signedAmount(r.BuyHoldProfit)))
	sb.WriteString(line("Relative Return", signedPercent(r.RelativeReturn)))
	sb.WriteString(line("Max Drawdown", mutedStyle.Render(
		fmt.Sprintf("%s (%s%%)", r.MaxDrawdown.StringFixed(2), quant.AsPercent(r.MaxDrawdownPct).StringFixed(2)))))
	sb.WriteString(line("Commission", mutedStyle.Render(r.TotalCommission.StringFixed(2))))
	sb.WriteString(line("Trades", fmt.Sprintf("%d buys / %d sells / %d total", r.Buys, r.Sells, r.TotalTrades)))

	if spark := Sparkline(r.EquityCurve, 48); spark != "" {
		sb.WriteString("\n")
		sb.WriteString(mutedStyle.Render("Equity"))
		sb.WriteString("\n")
		sb.WriteString(spark)
		sb.WriteString("\n")
	}

	return boxStyle.Render(sb.String())
}

// Sparkline compresses the equity curve into a fixed-width row of
// block characters.
func Sparkline(curve []report.EquityPoint, width int) string {
	if len(curve) == 0 || width <= 0 {
		return ""
	}

	sampled := resample(curve, width)

	min, max := sampled[0], sampled[0]
	for _, v := range sampled {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	var sb strings.Builder
	span := max - min
	for _, v := range sampled {
		idx := 0
		if span > 0 {
			idx = int((v - min) / span * float64(len(sparkRunes)-1))
		}
		sb.WriteRune(sparkRunes[idx])
	}
	return sb.String()
}

// RenderTrades renders the executed trades as a tape, one fill per
// line.
func RenderTrades(trades []account.Trade) string {
	if len(trades) == 0 {
		return mutedStyle.Render("no trades executed")
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Trades"))
	sb.WriteString("\n")
	for _, t := range trades {
		marker := successStyle.Render("▲ BUY ")
		if t.Side == account.SideSell {
			marker = errorStyle.Render("▼ SELL")
		}
		sb.WriteString(fmt.Sprintf("%s  %s  %s @ %s  (fee %s)\n",
			mutedStyle.Render(t.Timestamp.Format("2006-01-02 15:04")),
			marker,
			t.Quantity.StringFixed(4),
			t.Price.StringFixed(2),
			t.Commission.StringFixed(2)))
	}
	return sb.String()
}

func resample(curve []report.EquityPoint, width int) []float64 {
	if len(curve) < width {
		width = len(curve)
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		idx := i * (len(curve) - 1) / max(width-1, 1)
		out[i] = curve[idx].Equity.InexactFloat64()
	}
	return out
}

func line(label, value string) string {
	return fmt.Sprintf("%-18s %s\n", label+":", value)
}

func signedPercent(fraction decimal.Decimal) string {
	text := quant.AsPercent(fraction).StringFixed(2) + "%"
	if fraction.IsNegative() {
		return errorStyle.Render(text)
	}
	return successStyle.Render("+" + text)
}

func signedAmount(amount decimal.Decimal) string {
	text := amount.StringFixed(2)
	if amount.IsNegative() {
		return errorStyle.Render(text)
	}
	return successStyle.Render("+" + text)
}
