package folio

import (
	"context"
	"errors"
	"fmt"

	"github.com/etnz/folio/date"
)

// Quote is the end of day market data of a symbol.
type Quote struct {
	Open   Money
	High   Money
	Low    Money
	Close  Money
	Volume int64
}

// Listing is a symbol of the source universe.
type Listing struct {
	Symbol  string
	Name    string
	IPODate date.Date // zero when unknown
}

//go:generate mockgen -source=market.go -destination=mocks/mock_price_source.go -package=mock_folio

// PriceSource provides end of day quotes and the universe of tradeable symbols.
//
// Quote returns an error matching ErrPriceNotFound when there is no quote for that day, typically
// a week-end or a market holiday. Both methods return an error matching ErrSourceUnavailable
// when the source cannot be reached.
type PriceSource interface {
	Quote(ctx context.Context, on date.Date, symbol string) (Quote, error)
	Symbols(ctx context.Context) ([]Listing, error)
}

// Prices maps a symbol to its close price.
type Prices map[string]Money

func (p Prices) allPositive() bool {
	for _, px := range p {
		if !px.IsPositive() {
			return false
		}
	}
	return true
}

// FetchPrices returns the close price of every symbol on a day.
//
// It is all or nothing: the first failure aborts the fetch and is returned as a *PriceError.
func FetchPrices(ctx context.Context, src PriceSource, on date.Date, symbols []string) (Prices, error) {
	prices := make(Prices, len(symbols))
	for _, s := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q, err := src.Quote(ctx, on, s)
		if err != nil {
			return nil, &PriceError{Symbol: s, Date: on, Err: err}
		}
		prices[s] = q.Close
	}
	return prices, nil
}

// Universe indexes a symbol listing.
type Universe map[string]Listing

// FetchUniverse queries the symbol universe of a source.
func FetchUniverse(ctx context.Context, src PriceSource) (Universe, error) {
	listings, err := src.Symbols(ctx)
	if err != nil {
		if !errors.Is(err, ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		return nil, fmt.Errorf("cannot list symbols: %w", err)
	}
	u := make(Universe, len(listings))
	for _, l := range listings {
		u[l.Symbol] = l
	}
	return u, nil
}

// isMissingPrice reports whether err is a recoverable missing quote rather than a source failure.
func isMissingPrice(err error) bool {
	return errors.Is(err, ErrPriceNotFound) && !errors.Is(err, ErrSourceUnavailable)
}
