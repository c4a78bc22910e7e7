package runner

import (
	"errors"

	"github.com/quantfold/hindsight/internal/account"
	"github.com/quantfold/hindsight/internal/indicator"
	"github.com/quantfold/hindsight/internal/series"
)

// ErrRegistryFrozen indicates indicator registration after the run has
// started. The indicator set is fixed once Setup returns.
var ErrRegistryFrozen = errors.New("indicator registry is frozen once the run starts")

// Strategy is user-supplied decision logic. Setup is invoked once
// before the run starts and registers the indicators the strategy will
// read; Logic is invoked exactly once per bar with the current account
// and the price lookback ending at the current bar.
//
// Returning an order rejection from Logic is handled according to the
// run's order-error policy; any other non-nil error aborts the run.
type Strategy interface {
	Setup(reg *Registry) error
	Logic(acct *account.Account, lookback []series.Bar) error
}

// Registry collects the indicator adapters a strategy registers during
// Setup. The runner syncs every registered adapter to the cursor before
// each Logic call.
type Registry struct {
	adapters []*indicator.Adapter
	frozen   bool
}

// Add registers adapters. It fails once the run has started.
func (r *Registry) Add(adapters ...*indicator.Adapter) error {
	if r.frozen {
		return ErrRegistryFrozen
	}
	r.adapters = append(r.adapters, adapters...)
	return nil
}

// Adapters returns the registered adapters.
func (r *Registry) Adapters() []*indicator.Adapter {
	return r.adapters
}

func (r *Registry) freeze() {
	r.frozen = true
}

func (r *Registry) syncAll(i int) {
	for _, a := range r.adapters {
		a.Sync(i)
	}
}
