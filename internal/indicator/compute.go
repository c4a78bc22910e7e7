package indicator

import (
	"fmt"

	talib "github.com/markcheno/go-talib"

	"github.com/quantfold/hindsight/internal/series"
)

// The constructors below invoke the external numeric library over the
// full close (or OHLC) history once, then wrap each output column in an
// Adapter. talib computes value i from bars at index <= i, which is
// exactly the alignment contract the adapters enforce by length.

// SMA attaches a simple moving average of the closes.
func SMA(s *series.BarSeries, period int) (*Adapter, error) {
	return NewAdapter(s,
		fmt.Sprintf("sma_%d", period),
		fmt.Sprintf("Simple Moving Average (%d)", period),
		talib.Sma(s.Closes(), period), Overlay)
}

// EMA attaches an exponential moving average of the closes.
func EMA(s *series.BarSeries, period int) (*Adapter, error) {
	return NewAdapter(s,
		fmt.Sprintf("ema_%d", period),
		fmt.Sprintf("Exponential Moving Average (%d)", period),
		talib.Ema(s.Closes(), period), Overlay)
}

// RSI attaches a relative strength index of the closes.
func RSI(s *series.BarSeries, period int) (*Adapter, error) {
	return NewAdapter(s,
		fmt.Sprintf("rsi_%d", period),
		fmt.Sprintf("Relative Strength Index (%d)", period),
		talib.Rsi(s.Closes(), period), SeparatePanel)
}

// WilliamsR attaches a Williams %R oscillator.
func WilliamsR(s *series.BarSeries, period int) (*Adapter, error) {
	return NewAdapter(s,
		fmt.Sprintf("willr_%d", period),
		fmt.Sprintf("Williams %%R (%d)", period),
		talib.WillR(s.Highs(), s.Lows(), s.Closes(), period), SeparatePanel)
}

// MACD attaches the MACD line, signal line, and histogram as three
// named columns.
func MACD(s *series.BarSeries, fast, slow, signal int) (line, sig, hist *Adapter, err error) {
	l, sg, h := talib.Macd(s.Closes(), fast, slow, signal)

	prefix := fmt.Sprintf("macd_%d_%d_%d", fast, slow, signal)
	title := fmt.Sprintf("MACD (%d, %d, %d)", fast, slow, signal)

	if line, err = NewAdapter(s, prefix+"_line", title+" line", l, SeparatePanel); err != nil {
		return nil, nil, nil, err
	}
	if sig, err = NewAdapter(s, prefix+"_signal", title+" signal", sg, SeparatePanel); err != nil {
		return nil, nil, nil, err
	}
	if hist, err = NewAdapter(s, prefix+"_hist", title+" histogram", h, SeparatePanel); err != nil {
		return nil, nil, nil, err
	}
	return line, sig, hist, nil
}

// BollingerBands attaches the upper, middle, and lower bands.
func BollingerBands(s *series.BarSeries, period int, k float64) (upper, middle, lower *Adapter, err error) {
	up, mid, low := talib.BBands(s.Closes(), period, k, k, 0)

	prefix := fmt.Sprintf("bb_%d", period)
	title := fmt.Sprintf("Bollinger Bands (%d)", period)

	if upper, err = NewAdapter(s, prefix+"_upper", title+" upper", up, Overlay); err != nil {
		return nil, nil, nil, err
	}
	if middle, err = NewAdapter(s, prefix+"_middle", title+" middle", mid, Overlay); err != nil {
		return nil, nil, nil, err
	}
	if lower, err = NewAdapter(s, prefix+"_lower", title+" lower", low, Overlay); err != nil {
		return nil, nil, nil, err
	}
	return upper, middle, lower, nil
}

// Stochastic attaches the slow %K and %D lines of a stochastic
// oscillator.
func Stochastic(s *series.BarSeries, fastK, slowK, slowD int) (k, d *Adapter, err error) {
	slowk, slowd := talib.Stoch(s.Highs(), s.Lows(), s.Closes(), fastK, slowK, 0, slowD, 0)

	prefix := fmt.Sprintf("stoch_%d_%d_%d", fastK, slowK, slowD)
	title := fmt.Sprintf("Stochastic Oscillator (%d, %d, %d)", fastK, slowK, slowD)

	if k, err = NewAdapter(s, prefix+"_k", title+" %K", slowk, SeparatePanel); err != nil {
		return nil, nil, err
	}
	if d, err = NewAdapter(s, prefix+"_d", title+" %D", slowd, SeparatePanel); err != nil {
		return nil, nil, err
	}
	return k, d, nil
}
