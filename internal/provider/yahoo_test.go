package provider

import (
	"errors"
	"testing"
	"time"

	quote "github.com/markcheno/go-quote"

	"github.com/quantfold/hindsight/internal/series"
)

func TestFromQuote(t *testing.T) {
	q := quote.Quote{
		Symbol: "TEST",
		Date: []time.Time{
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		Open:   []float64{100, 104},
		High:   []float64{105, 106},
		Low:    []float64{99, 103},
		Close:  []float64{104, 105},
		Volume: []float64{1500, 1600},
	}

	bars, err := fromQuote(&q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[1].Close.InexactFloat64() != 105 {
		t.Errorf("expected close 105, got %s", bars[1].Close)
	}
	if !bars[0].Timestamp.Equal(q.Date[0]) {
		t.Errorf("expected timestamp %s, got %s", q.Date[0], bars[0].Timestamp)
	}
}

func TestFromQuoteRejectsRaggedColumns(t *testing.T) {
	q := quote.Quote{
		Symbol: "TEST",
		Date: []time.Time{
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		Open:   []float64{100},
		High:   []float64{105, 106},
		Low:    []float64{99, 103},
		Close:  []float64{104, 105},
		Volume: []float64{1500, 1600},
	}

	if _, err := fromQuote(&q); !errors.Is(err, series.ErrInvalidBarData) {
		t.Errorf("expected ErrInvalidBarData, got %v", err)
	}
}
