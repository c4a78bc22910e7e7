package provider

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantfold/hindsight/internal/series"
	"github.com/quantfold/hindsight/pkg/quant"
)

// SampleProvider generates a deterministic synthetic price walk,
// useful for demos and tests. The same parameters always produce the
// same bars.
type SampleProvider struct {
	Start     time.Time
	Interval  time.Duration
	Count     int
	BasePrice float64
}

// NewSampleProvider creates a generator of count bars at the given
// interval starting from start.
func NewSampleProvider(start time.Time, interval time.Duration, count int, basePrice float64) *SampleProvider {
	return &SampleProvider{Start: start, Interval: interval, Count: count, BasePrice: basePrice}
}

// Bars implements Provider.
func (p *SampleProvider) Bars(_ context.Context, _ string) ([]series.Bar, error) {
	bars := make([]series.Bar, 0, p.Count)

	currentTime := p.Start
	currentPrice := decimal.NewFromFloat(p.BasePrice)

	for i := 0; i < p.Count; i++ {
		change := decimal.NewFromFloat((float64(i%10) - 5) * 0.001)
		open := currentPrice
		close := currentPrice.Add(currentPrice.Mul(change))

		high := quant.MaxDecimal(open, close).Mul(decimal.NewFromFloat(1.001))
		low := quant.MinDecimal(open, close).Mul(decimal.NewFromFloat(0.999))
		volume := decimal.NewFromFloat(1000 + float64(i%500))

		bars = append(bars, series.Bar{
			Timestamp: currentTime,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    volume,
		})

		currentTime = currentTime.Add(p.Interval)
		currentPrice = close
	}

	return bars, nil
}
