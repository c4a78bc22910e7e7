package indicator

import (
	"errors"
	"testing"

	"github.com/quantfold/hindsight/internal/series"
	"github.com/quantfold/hindsight/internal/testutils"
)

func TestNewAdapterRequiresAlignment(t *testing.T) {
	s := testutils.MustSeries(t, testutils.SampleBars(10))

	_, err := NewAdapter(s, "bad", "Bad", []float64{1, 2, 3}, Overlay)
	if !errors.Is(err, series.ErrAlignment) {
		t.Errorf("expected ErrAlignment, got %v", err)
	}
}

func TestAdapterSyncBoundsVisibility(t *testing.T) {
	s := testutils.MustSeries(t, testutils.SampleBars(10))
	col := make([]float64, 10)
	for i := range col {
		col[i] = float64(i)
	}

	a, err := NewAdapter(s, "counter", "Counter", col, SeparatePanel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Nothing is visible before the first sync.
	if _, ok := a.Last(); ok {
		t.Error("no value should be visible before Sync")
	}
	if len(a.Values()) != 0 {
		t.Errorf("expected empty view, got %d values", len(a.Values()))
	}

	a.Sync(3)
	if got := a.Values(); len(got) != 4 {
		t.Errorf("expected 4 visible values, got %d", len(got))
	}
	if v, ok := a.Last(); !ok || v != 3 {
		t.Errorf("expected last value 3, got %v (ok=%v)", v, ok)
	}
	if v, ok := a.At(1); !ok || v != 2 {
		t.Errorf("expected previous value 2, got %v (ok=%v)", v, ok)
	}
	if _, ok := a.At(4); ok {
		t.Error("offset before the start of history should report no value")
	}
}

func TestAdapterViewCannotReachFutureValues(t *testing.T) {
	s := testutils.MustSeries(t, testutils.SampleBars(10))
	col := make([]float64, 10)
	for i := range col {
		col[i] = float64(i)
	}

	a, err := NewAdapter(s, "counter", "Counter", col, SeparatePanel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a.Sync(4)
	view := a.Values()
	if cap(view) != len(view) {
		t.Fatalf("view capacity %d exceeds length %d", cap(view), len(view))
	}

	// Growing the view must not clobber the value at the next index.
	_ = append(view, 999)
	a.Sync(5)
	if v, _ := a.Last(); v != 5 {
		t.Errorf("future value was modified through the view: %v", v)
	}
}

func TestAdapterLookback(t *testing.T) {
	s := testutils.MustSeries(t, testutils.SampleBars(10))
	col := make([]float64, 10)
	for i := range col {
		col[i] = float64(i)
	}

	a, err := NewAdapter(s, "counter", "Counter", col, SeparatePanel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	win := a.Lookback(6, 3)
	if len(win) != 3 || win[2] != 6 {
		t.Errorf("unexpected lookback: %v", win)
	}
	if cap(win) != len(win) {
		t.Error("lookback must be capped at the cursor")
	}
	if a.Lookback(10, 3) != nil {
		t.Error("out-of-range cursor should return nil")
	}
}

func TestSMAOnFlatPrices(t *testing.T) {
	s := testutils.MustSeries(t, testutils.FlatBars(20, 100))

	sma, err := SMA(s, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sma.Placement() != Overlay {
		t.Error("a moving average belongs on the price panel")
	}

	sma.Sync(19)
	if v, ok := sma.Last(); !ok || v != 100 {
		t.Errorf("SMA of a flat series must equal the price, got %v (ok=%v)", v, ok)
	}
}

func TestEMAOnFlatPrices(t *testing.T) {
	s := testutils.MustSeries(t, testutils.FlatBars(20, 100))

	ema, err := EMA(s, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ema.Sync(19)
	if v, ok := ema.Last(); !ok || v != 100 {
		t.Errorf("EMA of a flat series must equal the price, got %v (ok=%v)", v, ok)
	}
}

func TestMACDAdapters(t *testing.T) {
	s := testutils.MustSeries(t, testutils.SampleBars(120))

	line, sig, hist, err := MACD(s, 12, 26, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, a := range []*Adapter{line, sig, hist} {
		if a.Placement() != SeparatePanel {
			t.Errorf("%s should plot on its own panel", a.Name())
		}
		a.Sync(s.LastIndex())
		if len(a.Values()) != s.Len() {
			t.Errorf("%s not aligned: %d values for %d bars", a.Name(), len(a.Values()), s.Len())
		}
	}
	if line.Name() == sig.Name() || sig.Name() == hist.Name() {
		t.Error("the three MACD columns need distinct names")
	}
}

func TestBollingerBandsOrdering(t *testing.T) {
	s := testutils.MustSeries(t, testutils.SampleBars(60))

	upper, middle, lower, err := BollingerBands(s, 20, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	upper.Sync(59)
	middle.Sync(59)
	lower.Sync(59)

	u, _ := upper.Last()
	m, _ := middle.Last()
	l, _ := lower.Last()
	if !(l <= m && m <= u) {
		t.Errorf("band ordering violated: lower=%v middle=%v upper=%v", l, m, u)
	}
}

func TestRSIRegistersSeparatePanel(t *testing.T) {
	s := testutils.MustSeries(t, testutils.SampleBars(60))

	rsi, err := RSI(s, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi.Placement() != SeparatePanel {
		t.Error("RSI should plot on its own panel")
	}

	rsi.Sync(59)
	if v, ok := rsi.Last(); !ok || v < 0 || v > 100 {
		t.Errorf("RSI out of range: %v (ok=%v)", v, ok)
	}
}
