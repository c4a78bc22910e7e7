package strategy

import (
	"github.com/quantfold/hindsight/internal/account"
	"github.com/quantfold/hindsight/internal/indicator"
	"github.com/quantfold/hindsight/internal/runner"
	"github.com/quantfold/hindsight/internal/series"
)

// EMACross is a plain dual moving-average strategy: long when the
// short EMA crosses above the long EMA, flat when it crosses back
// below.
type EMACross struct {
	cfg *Config
	s   *series.BarSeries

	shortEMA *indicator.Adapter
	longEMA  *indicator.Adapter
}

// NewEMACross creates the strategy over s.
func NewEMACross(s *series.BarSeries, cfg *Config) *EMACross {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &EMACross{cfg: cfg, s: s}
}

// Setup registers the two EMA adapters.
func (c *EMACross) Setup(reg *runner.Registry) error {
	short, err := indicator.EMA(c.s, c.cfg.ShortEMAPeriod)
	if err != nil {
		return err
	}
	long, err := indicator.EMA(c.s, c.cfg.LongEMAPeriod)
	if err != nil {
		return err
	}

	c.shortEMA = short
	c.longEMA = long
	return reg.Add(short, long)
}

// Logic implements runner.Strategy.
func (c *EMACross) Logic(acct *account.Account, lookback []series.Bar) error {
	shortPrev, ok1 := c.shortEMA.At(1)
	shortNow, ok2 := c.shortEMA.At(0)
	longPrev, ok3 := c.longEMA.At(1)
	longNow, ok4 := c.longEMA.At(0)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil
	}

	price := lookback[len(lookback)-1].Close

	if acct.Position().Flat() {
		if shortPrev <= longPrev && shortNow > longNow {
			return acct.Buy(acct.Cash().Mul(c.cfg.EntryFraction), price)
		}
		return nil
	}

	if shortPrev >= longPrev && shortNow < longNow {
		return acct.Sell(c.cfg.ExitPercent, price)
	}
	return nil
}
