// Package provider supplies already-retrieved historical bars to the
// engine. Providers return plain bar slices; validation and ordering
// are enforced by series construction, so malformed input can never
// produce a partial series.
package provider

import (
	"context"

	"github.com/quantfold/hindsight/internal/series"
)

// Provider is a source of time-ordered historical bars for one symbol.
type Provider interface {
	Bars(ctx context.Context, symbol string) ([]series.Bar, error)
}
