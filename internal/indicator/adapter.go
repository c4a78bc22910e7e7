// Package indicator adapts externally computed indicator columns to the
// simulation. The numeric formulas live in the talib port; an Adapter
// only exposes a bounded view of one named column, synced to the
// engine's current bar.
package indicator

import (
	"fmt"

	"github.com/quantfold/hindsight/internal/series"
)

// Placement declares how the visualization layer should draw a column.
// It has no effect on simulation results.
type Placement int

const (
	// Overlay draws the column on the price panel.
	Overlay Placement = iota
	// SeparatePanel draws the column on its own axis below the prices.
	SeparatePanel
)

// Adapter wraps one named indicator column aligned to a bar series.
// Values beyond the synced cursor are structurally invisible.
type Adapter struct {
	name      string
	title     string
	placement Placement
	values    []float64
	visible   int
}

// NewAdapter attaches values as a named column on s and wraps it. The
// column must have one value per bar; value i must have been computed
// from bars at index <= i only, which is the computing collaborator's
// contract, verified here by length.
func NewAdapter(s *series.BarSeries, name, title string, values []float64, placement Placement) (*Adapter, error) {
	if err := s.Attach(name, values); err != nil {
		return nil, err
	}
	col, _ := s.Column(name)
	return &Adapter{
		name:      name,
		title:     title,
		placement: placement,
		values:    col,
	}, nil
}

// Name returns the column name.
func (a *Adapter) Name() string { return a.name }

// Title returns the human-readable title used by visualization.
func (a *Adapter) Title() string { return a.title }

// Placement returns the plotting intent.
func (a *Adapter) Placement() Placement { return a.placement }

// Sync pins the visible prefix of the column to cursor index i. The
// runner calls it once per bar before invoking strategy logic.
func (a *Adapter) Sync(i int) {
	if i < 0 {
		a.visible = 0
		return
	}
	if i >= len(a.values) {
		i = len(a.values) - 1
	}
	a.visible = i + 1
}

// Values returns the column through the synced cursor. The slice is
// capped so it can never be grown into future values.
func (a *Adapter) Values() []float64 {
	return a.values[:a.visible:a.visible]
}

// Last returns the value at the synced cursor, or false before the
// first sync.
func (a *Adapter) Last() (float64, bool) {
	if a.visible == 0 {
		return 0, false
	}
	return a.values[a.visible-1], true
}

// At returns the value at offset back from the synced cursor: At(0) is
// the current value, At(1) the previous bar's.
func (a *Adapter) At(back int) (float64, bool) {
	idx := a.visible - 1 - back
	if back < 0 || idx < 0 {
		return 0, false
	}
	return a.values[idx], true
}

// Lookback returns the trailing window of values ending at and
// including index i, never reading past i. Fewer than window values
// are returned near the start; window <= 0 means everything up to i.
func (a *Adapter) Lookback(i, window int) []float64 {
	if i < 0 || i >= len(a.values) {
		return nil
	}
	start := 0
	if window > 0 && i+1 > window {
		start = i + 1 - window
	}
	return a.values[start : i+1 : i+1]
}

func (a *Adapter) String() string {
	return fmt.Sprintf("indicator %s (%d values)", a.name, len(a.values))
}
