package folio

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Validator checks transactions against the market: the symbol must be part of the source
// universe and traded on the transaction date.
//
// Checks happen in order: symbol existence, then date and price existence, then the transaction
// own fields. The universe is fetched again on every call.
type Validator struct {
	src PriceSource
	log *zap.SugaredLogger
}

// NewValidator creates a Validator on a price source.
func NewValidator(src PriceSource, opts ...Option) *Validator {
	o := newOptions(opts)
	return &Validator{src: o.metrics.wrap(src), log: o.log}
}

// Check validates every transaction and returns the first error.
//
// A missing symbol or price is returned as a *ValidationError. A source that cannot be reached
// aborts the check with an error matching ErrSourceUnavailable.
func (v *Validator) Check(ctx context.Context, txs []Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	universe, err := FetchUniverse(ctx, v.src)
	if err != nil {
		return err
	}
	for _, tx := range txs {
		listing, ok := universe[tx.Symbol]
		if !ok {
			return invalid(tx, ErrUnknownSymbol, "symbol [%s] not found", tx.Symbol)
		}
		if tx.Date.IsZero() {
			return invalid(tx, nil, "date is missing")
		}
		if !listing.IPODate.IsZero() && tx.Date.Before(listing.IPODate) {
			return invalid(tx, nil, "%s was not listed before %s", tx.Symbol, listing.IPODate)
		}
		if _, err := v.src.Quote(ctx, tx.Date, tx.Symbol); err != nil {
			if !isMissingPrice(err) {
				return &PriceError{Symbol: tx.Symbol, Date: tx.Date, Err: err}
			}
			return invalid(tx, err, "%s is not traded on %s", tx.Symbol, tx.Date)
		}
		if err := tx.Validate(); err != nil {
			return err
		}
	}
	v.log.Debugw("transactions validated", "count", len(txs))
	return nil
}

// IsValidation reports whether err rejects user input rather than reports a source failure.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
