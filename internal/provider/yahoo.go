package provider

import (
	"context"
	"fmt"
	"time"

	quote "github.com/markcheno/go-quote"
	"github.com/shopspring/decimal"

	"github.com/quantfold/hindsight/internal/series"
)

const dateFormat = "2006-01-02"

// YahooProvider downloads daily bar history from Yahoo Finance.
type YahooProvider struct {
	Start time.Time
	End   time.Time
}

// NewYahooProvider creates a provider for the given date range.
func NewYahooProvider(start, end time.Time) *YahooProvider {
	return &YahooProvider{Start: start, End: end}
}

// Bars implements Provider.
func (p *YahooProvider) Bars(_ context.Context, symbol string) ([]series.Bar, error) {
	q, err := quote.NewQuoteFromYahoo(symbol,
		p.Start.Format(dateFormat), p.End.Format(dateFormat),
		quote.Daily, true)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	return fromQuote(&q)
}

// fromQuote converts a go-quote column table into bars.
func fromQuote(q *quote.Quote) ([]series.Bar, error) {
	n := len(q.Date)
	if len(q.Open) != n || len(q.High) != n || len(q.Low) != n || len(q.Close) != n || len(q.Volume) != n {
		return nil, fmt.Errorf("%w: ragged quote columns for %s", series.ErrInvalidBarData, q.Symbol)
	}

	bars := make([]series.Bar, n)
	for i := 0; i < n; i++ {
		bars[i] = series.Bar{
			Timestamp: q.Date[i],
			Open:      decimal.NewFromFloat(q.Open[i]),
			High:      decimal.NewFromFloat(q.High[i]),
			Low:       decimal.NewFromFloat(q.Low[i]),
			Close:     decimal.NewFromFloat(q.Close[i]),
			Volume:    decimal.NewFromFloat(q.Volume[i]),
		}
	}
	return bars, nil
}
