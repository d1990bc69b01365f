package folio

import (
	"context"
	"fmt"
	"sync"

	"github.com/etnz/folio/date"
)

// fakeSource is an in memory PriceSource.
type fakeSource struct {
	mu       sync.Mutex
	listings []Listing
	closes   map[string]map[date.Date]Money
	failures map[date.Date]error // Quote fails with this error on these days
	down     bool                // every call fails with ErrSourceUnavailable
	quotes   int                 // number of Quote calls
	lists    int                 // number of Symbols calls
}

func newFakeSource() *fakeSource {
	return &fakeSource{closes: make(map[string]map[date.Date]Money)}
}

// price registers a close price and lists the symbol.
func (f *fakeSource) price(symbol, on string, px float64) *fakeSource {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.closes[symbol]; !ok {
		f.closes[symbol] = make(map[date.Date]Money)
		f.listings = append(f.listings, Listing{Symbol: symbol})
	}
	f.closes[symbol][date.MustParse(on)] = M(px)
	return f
}

// failOn makes every Quote on day fail with err.
func (f *fakeSource) failOn(on string, err error) *fakeSource {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures == nil {
		f.failures = make(map[date.Date]error)
	}
	f.failures[date.MustParse(on)] = err
	return f
}

func (f *fakeSource) Quote(ctx context.Context, on date.Date, symbol string) (Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quotes++
	if f.down {
		return Quote{}, ErrSourceUnavailable
	}
	if err, ok := f.failures[on]; ok {
		return Quote{}, err
	}
	if px, ok := f.closes[symbol][on]; ok {
		return Quote{Open: px, High: px, Low: px, Close: px}, nil
	}
	return Quote{}, fmt.Errorf("%s on %s: %w", symbol, on, ErrPriceNotFound)
}

func (f *fakeSource) Symbols(ctx context.Context) ([]Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.down {
		return nil, ErrSourceUnavailable
	}
	return append([]Listing(nil), f.listings...), nil
}

// exampleSource prices AAA and AAPL around 2022-10-10.
func exampleSource() *fakeSource {
	return newFakeSource().
		price("AAA", "2022-10-10", 4).
		price("AAA", "2022-10-11", 4).
		price("AAPL", "2022-10-10", 9).
		price("AAPL", "2022-10-11", 9.5)
}

// d is a short hand for date.MustParse.
func d(s string) date.Date { return date.MustParse(s) }

func buy(on, symbol string, q, fee float64) Transaction {
	return NewBuy(d(on), symbol, Q(q), M(fee))
}

func sell(on, symbol string, q, fee float64) Transaction {
	return NewSell(d(on), symbol, Q(q), M(fee))
}

// exampleTransactions is a flexible portfolio worth 400 on 2022-10-10 and 9900 on 2022-10-11.
func exampleTransactions() []Transaction {
	return []Transaction{
		buy("2022-10-10", "AAA", 110, 10),
		sell("2022-10-10", "AAA", 10, 20),
		buy("2022-10-11", "AAPL", 1000, 30),
	}
}

// strs renders a composition to compare it in tests.
func strs(c Composition) map[string]string {
	m := make(map[string]string, len(c))
	for s, q := range c {
		m[s] = q.String()
	}
	return m
}
