package strategy

import (
	"github.com/quantfold/hindsight/internal/account"
	"github.com/quantfold/hindsight/internal/indicator"
	"github.com/quantfold/hindsight/internal/logger"
	"github.com/quantfold/hindsight/internal/runner"
	"github.com/quantfold/hindsight/internal/series"
)

// Momentum trades MACD signal-line crossovers filtered by RSI: it buys
// a bullish crossover unless RSI is already overbought, and exits on a
// bearish crossover or an overbought RSI.
type Momentum struct {
	cfg *Config
	s   *series.BarSeries

	macdLine   *indicator.Adapter
	macdSignal *indicator.Adapter
	rsi        *indicator.Adapter

	log *logger.Logger
}

// NewMomentum creates the strategy over s.
func NewMomentum(s *series.BarSeries, cfg *Config) *Momentum {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Momentum{
		cfg: cfg,
		s:   s,
		log: logger.Default().Component("strategy.momentum"),
	}
}

// Setup registers the MACD and RSI adapters.
func (m *Momentum) Setup(reg *runner.Registry) error {
	line, sig, hist, err := indicator.MACD(m.s, m.cfg.MACDFast, m.cfg.MACDSlow, m.cfg.MACDSignal)
	if err != nil {
		return err
	}
	rsi, err := indicator.RSI(m.s, m.cfg.RSIPeriod)
	if err != nil {
		return err
	}

	m.macdLine = line
	m.macdSignal = sig
	m.rsi = rsi
	return reg.Add(line, sig, hist, rsi)
}

// Logic implements runner.Strategy.
func (m *Momentum) Logic(acct *account.Account, lookback []series.Bar) error {
	linePrev, ok1 := m.macdLine.At(1)
	lineNow, ok2 := m.macdLine.At(0)
	sigPrev, ok3 := m.macdSignal.At(1)
	sigNow, ok4 := m.macdSignal.At(0)
	rsiNow, ok5 := m.rsi.Last()
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		// Warmup: not enough history for the slow components yet.
		return nil
	}

	price := lookback[len(lookback)-1].Close
	crossedUp := linePrev <= sigPrev && lineNow > sigNow
	crossedDown := linePrev >= sigPrev && lineNow < sigNow

	if acct.Position().Flat() {
		if crossedUp && rsiNow < m.cfg.RSIOverbought {
			entry := acct.Cash().Mul(m.cfg.EntryFraction)
			m.log.Debug("bullish crossover", "price", price.String(), "rsi", rsiNow)
			return acct.Buy(entry, price)
		}
		return nil
	}

	if crossedDown || rsiNow > m.cfg.RSIOverbought {
		m.log.Debug("exit signal", "price", price.String(), "rsi", rsiNow)
		return acct.Sell(m.cfg.ExitPercent, price)
	}
	return nil
}
