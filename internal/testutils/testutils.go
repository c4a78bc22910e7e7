// Package testutils provides shared utilities for testing
package testutils

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantfold/hindsight/internal/provider"
	"github.com/quantfold/hindsight/internal/series"
)

// SampleBars returns n deterministic hourly bars starting from a fixed
// epoch. The same n always yields the same bars.
func SampleBars(n int) []series.Bar {
	p := provider.NewSampleProvider(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Hour, n, 100)
	bars, _ := p.Bars(context.Background(), "TEST")
	return bars
}

// FlatBars returns n hourly bars that all trade at the given price,
// handy when a test needs full control over fills.
func FlatBars(n int, price float64) []series.Bar {
	p := decimal.NewFromFloat(price)
	bars := make([]series.Bar, n)
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = series.Bar{
			Timestamp: ts.Add(time.Duration(i) * time.Hour),
			Open:      p,
			High:      p,
			Low:       p,
			Close:     p,
			Volume:    decimal.NewFromInt(1000),
		}
	}
	return bars
}

// MustSeries builds a BarSeries or fails the test.
func MustSeries(t *testing.T, bars []series.Bar) *series.BarSeries {
	t.Helper()
	s, err := series.New(bars)
	if err != nil {
		t.Fatalf("building bar series: %v", err)
	}
	return s
}

// AssertEqual fails the test when expected and actual differ.
func AssertEqual(t *testing.T, expected, actual any, message string) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Errorf("%s: expected %v, got %v", message, expected, actual)
	}
}

// AssertTrue fails the test when condition is false.
func AssertTrue(t *testing.T, condition bool, message string) {
	t.Helper()
	if !condition {
		t.Errorf("%s: expected true", message)
	}
}

// AssertFalse fails the test when condition is true.
func AssertFalse(t *testing.T, condition bool, message string) {
	t.Helper()
	if condition {
		t.Errorf("%s: expected false", message)
	}
}

// AssertNotNil fails the test when value is nil.
func AssertNotNil(t *testing.T, value any, message string) {
	t.Helper()
	if value == nil {
		t.Errorf("%s: expected non-nil value", message)
	}
}

// AssertNoError fails the test when err is non-nil.
func AssertNoError(t *testing.T, err error, message string) {
	t.Helper()
	if err != nil {
		t.Errorf("%s: unexpected error: %v", message, err)
	}
}

// AssertError fails the test when err is nil.
func AssertError(t *testing.T, err error, message string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected error", message)
	}
}

// AssertDecimalEqual fails the test when actual differs from the
// expected decimal string.
func AssertDecimalEqual(t *testing.T, expected string, actual decimal.Decimal, message string) {
	t.Helper()
	want, err := decimal.NewFromString(expected)
	if err != nil {
		t.Fatalf("%s: bad expected decimal %q: %v", message, expected, err)
	}
	if !want.Equal(actual) {
		t.Errorf("%s: expected %s, got %s", message, want, actual)
	}
}
