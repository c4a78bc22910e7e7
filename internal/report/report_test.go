package report

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantfold/hindsight/internal/account"
	"github.com/quantfold/hindsight/internal/series"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func trendBars(closes []string) []series.Bar {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]series.Bar, len(closes))
	for i, c := range closes {
		price := d(c)
		bars[i] = series.Bar{
			Timestamp: ts.Add(time.Duration(i) * time.Hour),
			Open:      price,
			High:      price,
			Low:       price,
			Close:     price,
			Volume:    decimal.NewFromInt(1000),
		}
	}
	return bars
}

func mustSeries(t *testing.T, bars []series.Bar) *series.BarSeries {
	t.Helper()
	s, err := series.New(bars)
	if err != nil {
		t.Fatalf("building series: %v", err)
	}
	return s
}

func TestBuildComputesReturns(t *testing.T) {
	s := mustSeries(t, trendBars([]string{"100", "105", "110", "120"}))
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Buy 100 units at 100, sell all at 120: 10000 -> 12000.
	ledger := []account.Trade{
		{ID: "a", Timestamp: ts, Side: account.SideBuy, Quantity: d("100"), Price: d("100"), Commission: d("0")},
		{ID: "b", Timestamp: ts.Add(3 * time.Hour), Side: account.SideSell, Quantity: d("100"), Price: d("120"), Commission: d("0")},
	}
	curve := []EquityPoint{
		{Time: ts, Equity: d("10000")},
		{Time: ts.Add(time.Hour), Equity: d("10500")},
		{Time: ts.Add(2 * time.Hour), Equity: d("11000")},
		{Time: ts.Add(3 * time.Hour), Equity: d("12000")},
	}

	rep, err := Build(s, ledger, curve, d("10000"), 0, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !rep.FinalEquity.Equal(d("12000")) {
		t.Errorf("final equity: got %s", rep.FinalEquity)
	}
	if !rep.NetProfit.Equal(d("2000")) {
		t.Errorf("net profit: got %s", rep.NetProfit)
	}
	if !rep.StrategyReturn.Equal(d("0.2")) {
		t.Errorf("strategy return: got %s", rep.StrategyReturn)
	}
	// Buy and hold over the same window: 100 -> 120.
	if !rep.BuyHoldReturn.Equal(d("0.2")) {
		t.Errorf("buy and hold return: got %s", rep.BuyHoldReturn)
	}
	if !rep.BuyHoldProfit.Equal(d("2000")) {
		t.Errorf("buy and hold profit: got %s", rep.BuyHoldProfit)
	}
	if !rep.RelativeReturn.IsZero() || !rep.RelativeProfit.IsZero() {
		t.Errorf("matching buy and hold should give zero relative figures, got %s / %s",
			rep.RelativeReturn, rep.RelativeProfit)
	}
	if rep.Buys != 1 || rep.Sells != 1 || rep.TotalTrades != 2 {
		t.Errorf("trade counts: %d/%d/%d", rep.Buys, rep.Sells, rep.TotalTrades)
	}
}

func TestBuildCountsCommission(t *testing.T) {
	s := mustSeries(t, trendBars([]string{"100", "100"}))
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ledger := []account.Trade{
		{ID: "a", Timestamp: ts, Side: account.SideBuy, Quantity: d("99"), Price: d("100"), Commission: d("100")},
		{ID: "b", Timestamp: ts.Add(time.Hour), Side: account.SideSell, Quantity: d("99"), Price: d("100"), Commission: d("99")},
	}

	rep, err := Build(s, ledger, nil, d("10000"), 0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !rep.TotalCommission.Equal(d("199")) {
		t.Errorf("total commission: got %s", rep.TotalCommission)
	}
	// 10000 - 9900 - 100 + 9900 - 99 = 9801.
	if !rep.FinalEquity.Equal(d("9801")) {
		t.Errorf("final equity: got %s", rep.FinalEquity)
	}
}

func TestBuildValuesOpenPositionAtWindowEnd(t *testing.T) {
	s := mustSeries(t, trendBars([]string{"100", "110", "125"}))
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Still holding 50 units at the end of the window.
	ledger := []account.Trade{
		{ID: "a", Timestamp: ts, Side: account.SideBuy, Quantity: d("50"), Price: d("100"), Commission: d("0")},
	}

	rep, err := Build(s, ledger, nil, d("10000"), 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 5000 cash plus 50 units at the final close of 125.
	if !rep.FinalEquity.Equal(d("11250")) {
		t.Errorf("final equity: got %s", rep.FinalEquity)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	s := mustSeries(t, trendBars([]string{"100", "90", "95", "105"}))
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ledger := []account.Trade{
		{ID: "a", Timestamp: ts, Side: account.SideBuy, Quantity: d("10"), Price: d("100"), Commission: d("1")},
	}
	curve := []EquityPoint{
		{Time: ts, Equity: d("10000")},
		{Time: ts.Add(time.Hour), Equity: d("9900")},
	}

	first, err := Build(s, ledger, curve, d("10000"), 0, 3)
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	second, err := Build(s, ledger, curve, d("10000"), 0, 3)
	if err != nil {
		t.Fatalf("second build: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("building twice from the same inputs must yield identical reports")
	}
}

func TestBuildCopiesInputs(t *testing.T) {
	s := mustSeries(t, trendBars([]string{"100", "110"}))
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ledger := []account.Trade{
		{ID: "a", Timestamp: ts, Side: account.SideBuy, Quantity: d("10"), Price: d("100"), Commission: d("0")},
	}
	curve := []EquityPoint{{Time: ts, Equity: d("10000")}}

	rep, err := Build(s, ledger, curve, d("10000"), 0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ledger[0].Quantity = d("9999")
	curve[0].Equity = d("0")

	if rep.Trades[0].Quantity.Equal(d("9999")) {
		t.Error("report must own its trade copy")
	}
	if rep.EquityCurve[0].Equity.IsZero() {
		t.Error("report must own its equity curve copy")
	}
}

func TestMaxDrawdown(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	curve := []EquityPoint{
		{Time: ts, Equity: d("10000")},
		{Time: ts.Add(1 * time.Hour), Equity: d("12000")},
		{Time: ts.Add(2 * time.Hour), Equity: d("9000")},
		{Time: ts.Add(3 * time.Hour), Equity: d("11000")},
	}

	dd, pct := maxDrawdown(d("10000"), curve)
	if !dd.Equal(d("3000")) {
		t.Errorf("max drawdown: got %s", dd)
	}
	if !pct.Equal(d("0.25")) {
		t.Errorf("max drawdown pct: got %s", pct)
	}
}

func TestRenderContainsKeyFigures(t *testing.T) {
	s := mustSeries(t, trendBars([]string{"100", "120"}))
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ledger := []account.Trade{
		{ID: "a", Timestamp: ts, Side: account.SideBuy, Quantity: d("100"), Price: d("100"), Commission: d("0")},
	}

	rep, err := Build(s, ledger, nil, d("10000"), 0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := rep.Render()
	for _, want := range []string{
		"Relative Returns",
		"Relative Profit",
		"Strategy",
		"Net Profit",
		"Buy and Hold",
		"Final Equity",
		"Max Drawdown",
		"Buys",
		"Sells",
		"Total Trades",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered report missing %q", want)
		}
	}

	if sum := rep.Summary(); sum == "" {
		t.Error("summary must not be empty")
	}
}
