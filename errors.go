package folio

import (
	"errors"
	"fmt"

	"github.com/etnz/folio/date"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("invalid transaction")
	// ErrReadOnly is returned when adding transactions to an inflexible portfolio.
	ErrReadOnly = errors.New("portfolio is not modifiable")
	// ErrUnknownSymbol is returned when a symbol is not part of the source universe.
	ErrUnknownSymbol = errors.New("symbol not found")
	// ErrNegativePosition is returned when a sell exceeds the position held on its date.
	ErrNegativePosition = errors.New("sell exceeds position")
	// ErrPriceNotFound is returned by a PriceSource when there is no quote for a symbol on a
	// day, typically a week-end or a market holiday.
	ErrPriceNotFound = errors.New("price not found")
	// ErrSourceUnavailable is returned by a PriceSource that cannot be reached at all.
	ErrSourceUnavailable = errors.New("price source unavailable")
)

// ValidationError reports a transaction that cannot be accepted in a portfolio.
type ValidationError struct {
	Tx     Transaction
	Reason string
	Err    error // optional cause
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s transaction on %s for %q: %s", e.Tx.Type, e.Tx.Date, e.Tx.Symbol, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both ErrValidation and the underlying cause to errors.Is.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

func invalid(tx Transaction, err error, format string, args ...any) *ValidationError {
	return &ValidationError{Tx: tx, Reason: fmt.Sprintf(format, args...), Err: err}
}

// PriceError reports a failed quote lookup.
type PriceError struct {
	Symbol string
	Date   date.Date
	Err    error
}

func (e *PriceError) Error() string {
	return fmt.Sprintf("no price for %q on %s: %v", e.Symbol, e.Date, e.Err)
}

func (e *PriceError) Unwrap() error { return e.Err }
