// Package pricefile implements a folio.PriceSource reading end of day quotes from a CSV file.
//
// The file has a header line and one line per symbol and trading day:
//
//	symbol,date,open,high,low,close,volume
//	AAPL,2022-10-10,140.42,141.89,138.57,140.42,74899000
//
// The symbol universe is the set of symbols in the file, the IPO date of a symbol is its first
// quoted day.
package pricefile

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/gocarina/gocsv"
)

type row struct {
	Symbol string `csv:"symbol"`
	Date   string `csv:"date"`
	Open   string `csv:"open"`
	High   string `csv:"high"`
	Low    string `csv:"low"`
	Close  string `csv:"close"`
	Volume string `csv:"volume"`
}

func (r row) quote() (date.Date, folio.Quote, error) {
	on, err := date.Parse(strings.TrimSpace(r.Date))
	if err != nil {
		return on, folio.Quote{}, err
	}
	var q folio.Quote
	for _, f := range []struct {
		dst *folio.Money
		src string
	}{{&q.Open, r.Open}, {&q.High, r.High}, {&q.Low, r.Low}, {&q.Close, r.Close}} {
		if strings.TrimSpace(f.src) == "" {
			continue
		}
		if *f.dst, err = folio.ParseMoney(strings.TrimSpace(f.src)); err != nil {
			return on, q, err
		}
	}
	if v := strings.TrimSpace(r.Volume); v != "" {
		if q.Volume, err = strconv.ParseInt(v, 10, 64); err != nil {
			return on, q, fmt.Errorf("invalid volume %q: %w", v, err)
		}
	}
	return on, q, nil
}

// Source serves quotes loaded in memory.
type Source struct {
	quotes map[string]*date.History[folio.Quote]
}

// Read loads quotes from CSV data.
func Read(r io.Reader) (*Source, error) {
	var rows []row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("cannot read quotes: %w", err)
	}
	s := &Source{quotes: make(map[string]*date.History[folio.Quote])}
	for i, r := range rows {
		symbol := strings.TrimSpace(r.Symbol)
		if symbol == "" {
			return nil, fmt.Errorf("quote line %d: missing symbol", i+2)
		}
		on, q, err := r.quote()
		if err != nil {
			return nil, fmt.Errorf("quote line %d: %w", i+2, err)
		}
		h, ok := s.quotes[symbol]
		if !ok {
			h = new(date.History[folio.Quote])
			s.quotes[symbol] = h
		}
		h.Append(on, q)
	}
	return s, nil
}

// Open loads quotes from a CSV file.
func Open(name string) (*Source, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", folio.ErrSourceUnavailable, err)
	}
	defer f.Close()
	return Read(f)
}

// Quote returns the quote of symbol on a day.
func (s *Source) Quote(ctx context.Context, on date.Date, symbol string) (folio.Quote, error) {
	if err := ctx.Err(); err != nil {
		return folio.Quote{}, err
	}
	if h, ok := s.quotes[symbol]; ok {
		if q, ok := h.Get(on); ok {
			return q, nil
		}
	}
	return folio.Quote{}, fmt.Errorf("%s on %s: %w", symbol, on, folio.ErrPriceNotFound)
}

// Symbols lists the symbols of the file with their first quoted day.
func (s *Source) Symbols(ctx context.Context) ([]folio.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	listings := make([]folio.Listing, 0, len(s.quotes))
	for symbol, h := range s.quotes {
		r, _ := h.Range()
		listings = append(listings, folio.Listing{Symbol: symbol, IPODate: r.From})
	}
	return listings, nil
}

var _ folio.PriceSource = (*Source)(nil)
