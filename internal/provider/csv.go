package provider

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantfold/hindsight/internal/series"
)

// CSVLoader reads historical bars from a CSV file.
// Expected format: timestamp,open,high,low,close,volume with an
// optional header row. Timestamps can be Unix seconds, Unix
// milliseconds, RFC3339, or a plain date.
type CSVLoader struct {
	Path string
}

// NewCSVLoader creates a loader for the given file.
func NewCSVLoader(path string) *CSVLoader {
	return &CSVLoader{Path: path}
}

// Bars implements Provider. Rows are sorted by timestamp; a malformed
// row is an error, not a skip, so bad input surfaces instead of
// silently thinning the data. Duplicate timestamps survive sorting and
// are rejected at series construction.
func (l *CSVLoader) Bars(_ context.Context, _ string) ([]series.Bar, error) {
	file, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.Path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	bars := make([]series.Bar, 0)
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", l.Path, err)
		}
		row++

		// Header detection: a first row whose second field is not
		// numeric is skipped.
		if row == 1 && len(record) > 1 {
			if _, err := strconv.ParseFloat(record[1], 64); err != nil {
				continue
			}
		}

		if len(record) < 6 {
			return nil, fmt.Errorf("%w: row %d has %d fields, want 6", series.ErrInvalidBarData, row, len(record))
		}

		bar, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Timestamp.Before(bars[j].Timestamp)
	})
	return bars, nil
}

func parseRecord(record []string) (series.Bar, error) {
	timestamp, err := parseTimestamp(record[0])
	if err != nil {
		return series.Bar{}, err
	}

	fields := [5]decimal.Decimal{}
	names := [5]string{"open", "high", "low", "close", "volume"}
	for i := range fields {
		d, err := decimal.NewFromString(record[i+1])
		if err != nil {
			return series.Bar{}, fmt.Errorf("%w: invalid %s %q", series.ErrInvalidBarData, names[i], record[i+1])
		}
		fields[i] = d
	}

	return series.Bar{
		Timestamp: timestamp,
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    fields[4],
	}, nil
}

// parseTimestamp accepts Unix seconds, Unix milliseconds, RFC3339, and
// a few common date layouts.
func parseTimestamp(s string) (time.Time, error) {
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ts > 10000000000 {
			return time.Unix(ts/1000, (ts%1000)*1000000).UTC(), nil
		}
		return time.Unix(ts, 0).UTC(), nil
	}

	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: unable to parse timestamp %q", series.ErrInvalidBarData, s)
}
