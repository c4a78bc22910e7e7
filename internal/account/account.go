// Package account emulates a brokerage account with paper money. Cash,
// the open position, and the trade ledger evolve only through Buy and
// Sell; the ledger is the single source of truth for all reporting.
package account

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side is the direction of an executed trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Trade is one executed fill. Trades are appended to the ledger at the
// moment of execution and never mutated or removed.
type Trade struct {
	ID         string
	Timestamp  time.Time
	Side       Side
	Quantity   decimal.Decimal
	Price      decimal.Decimal
	Commission decimal.Decimal
}

// Position is the open holding. Zero quantity means flat.
type Position struct {
	Quantity      decimal.Decimal
	AvgEntryPrice decimal.Decimal
}

// Flat reports whether the position is empty.
func (p Position) Flat() bool {
	return p.Quantity.IsZero()
}

// Account is simulated brokerage state. It is owned exclusively by one
// running backtest and is not safe for concurrent use.
type Account struct {
	startingCapital decimal.Decimal
	cash            decimal.Decimal
	commissionRate  decimal.Decimal
	position        Position
	ledger          []Trade
	now             time.Time
	frozen          bool
}

// New constructs a fresh account with the configured starting capital
// and commission rate in [0,1).
func New(startingCapital, commissionRate decimal.Decimal) (*Account, error) {
	if !startingCapital.IsPositive() {
		return nil, fmt.Errorf("starting capital must be positive, got %s", startingCapital)
	}
	if commissionRate.IsNegative() || commissionRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("commission rate must be in [0,1), got %s", commissionRate)
	}
	return &Account{
		startingCapital: startingCapital,
		cash:            startingCapital,
		commissionRate:  commissionRate,
		ledger:          make([]Trade, 0),
	}, nil
}

// StartingCapital returns the configured starting capital.
func (a *Account) StartingCapital() decimal.Decimal { return a.startingCapital }

// Cash returns the free cash balance.
func (a *Account) Cash() decimal.Decimal { return a.cash }

// BuyingPower equals cash: the account carries no leverage.
func (a *Account) BuyingPower() decimal.Decimal { return a.cash }

// CommissionRate returns the configured commission rate.
func (a *Account) CommissionRate() decimal.Decimal { return a.commissionRate }

// Position returns the current open position.
func (a *Account) Position() Position { return a.position }

// Ledger returns a copy of the executed trades in execution order.
func (a *Account) Ledger() []Trade {
	out := make([]Trade, len(a.ledger))
	copy(out, a.ledger)
	return out
}

// AdvanceTo sets the simulation time stamped onto subsequent trades.
// The runner calls it once per bar before invoking strategy logic.
func (a *Account) AdvanceTo(t time.Time) {
	a.now = t
}

// Freeze makes the account read-only. Called by the runner once the
// simulation completes; later orders fail with ErrAccountFrozen.
func (a *Account) Freeze() {
	a.frozen = true
}

// Buy converts entryCapital of cash into units at entryPrice. The
// commission is taken out of the entry capital, so
// quantity = entryCapital * (1 - rate) / entryPrice.
func (a *Account) Buy(entryCapital, entryPrice decimal.Decimal) error {
	if a.frozen {
		return orderErr(OpBuy, ErrAccountFrozen)
	}
	if !entryCapital.IsPositive() {
		return orderErr(OpBuy, fmt.Errorf("%w: entry capital %s must be positive", ErrInvalidOrder, entryCapital))
	}
	if !entryPrice.IsPositive() {
		return orderErr(OpBuy, fmt.Errorf("%w: entry price %s must be positive", ErrInvalidOrder, entryPrice))
	}
	if entryCapital.GreaterThan(a.cash) {
		return orderErr(OpBuy, fmt.Errorf("%w: entry capital %s exceeds buying power %s",
			ErrInsufficientFunds, entryCapital, a.cash))
	}

	commission := entryCapital.Mul(a.commissionRate)
	quantity := entryCapital.Sub(commission).Div(entryPrice)

	// Capital-weighted average of the existing and new quantity.
	total := a.position.Quantity.Add(quantity)
	cost := a.position.Quantity.Mul(a.position.AvgEntryPrice).Add(quantity.Mul(entryPrice))
	a.position = Position{
		Quantity:      total,
		AvgEntryPrice: cost.Div(total),
	}
	a.cash = a.cash.Sub(entryCapital)

	a.ledger = append(a.ledger, Trade{
		ID:         uuid.New().String(),
		Timestamp:  a.now,
		Side:       SideBuy,
		Quantity:   quantity,
		Price:      entryPrice,
		Commission: commission,
	})
	return nil
}

// Sell closes percent of the open position at currentPrice and credits
// the proceeds net of commission. percent must be in (0,1].
func (a *Account) Sell(percent, currentPrice decimal.Decimal) error {
	if a.frozen {
		return orderErr(OpSell, ErrAccountFrozen)
	}
	one := decimal.NewFromInt(1)
	if !percent.IsPositive() || percent.GreaterThan(one) {
		return orderErr(OpSell, fmt.Errorf("%w: percent %s must be in (0,1]", ErrInvalidOrder, percent))
	}
	if !currentPrice.IsPositive() {
		return orderErr(OpSell, fmt.Errorf("%w: price %s must be positive", ErrInvalidOrder, currentPrice))
	}
	if a.position.Flat() {
		return orderErr(OpSell, ErrNoPosition)
	}

	quantity := a.position.Quantity.Mul(percent)
	proceeds := quantity.Mul(currentPrice)
	commission := proceeds.Mul(a.commissionRate)

	a.cash = a.cash.Add(proceeds.Sub(commission))
	a.position.Quantity = a.position.Quantity.Sub(quantity)
	if a.position.Quantity.IsZero() {
		a.position.AvgEntryPrice = decimal.Zero
	}

	a.ledger = append(a.ledger, Trade{
		ID:         uuid.New().String(),
		Timestamp:  a.now,
		Side:       SideSell,
		Quantity:   quantity,
		Price:      currentPrice,
		Commission: commission,
	})
	return nil
}

// MarkToMarket values the account at the given price: cash plus the
// open position at price. Pure read, no side effects.
func (a *Account) MarkToMarket(price decimal.Decimal) decimal.Decimal {
	return a.cash.Add(a.position.Quantity.Mul(price))
}
