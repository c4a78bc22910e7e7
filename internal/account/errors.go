package account

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientFunds indicates a buy larger than available cash.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNoPosition indicates a sell with no open position.
	ErrNoPosition = errors.New("no open position")

	// ErrInvalidOrder indicates an order with out-of-range parameters.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrAccountFrozen indicates an order against a completed run's account.
	ErrAccountFrozen = errors.New("account is frozen")
)

// Op identifies the account operation that generated an error.
type Op string

const (
	OpBuy  Op = "buy"
	OpSell Op = "sell"
)

// OrderError provides operation context for rejected orders.
type OrderError struct {
	Op  Op
	Err error
}

// Error implements the error interface.
func (e *OrderError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the wrapped error.
func (e *OrderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func orderErr(op Op, err error) error {
	if err == nil {
		return nil
	}
	return &OrderError{Op: op, Err: err}
}

// IsOrderError reports whether err is an order rejection the strategy
// may choose to ignore, as opposed to a failure of the run itself.
func IsOrderError(err error) bool {
	var oe *OrderError
	return errors.As(err, &oe)
}
