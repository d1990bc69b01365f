package folio

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/etnz/folio/date"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Entry is the value of one symbol of a portfolio on a day.
type Entry struct {
	Symbol   string
	Quantity Quantity
	Price    Money
	Value    Money
}

// PortfolioWithValue is a portfolio composition priced on a day.
type PortfolioWithValue struct {
	Date    date.Date
	Entries []Entry // sorted by symbol
	Total   Money
}

// ValueAt prices the composition of p at the end of a day.
//
// A held symbol missing from prices is listed with a zero value.
func ValueAt(p *Portfolio, on date.Date, prices Prices) PortfolioWithValue {
	comp := p.Composition(on)
	v := PortfolioWithValue{Date: on, Entries: make([]Entry, 0, len(comp))}
	for _, s := range comp.Symbols() {
		q := comp[s]
		px := prices[s]
		e := Entry{Symbol: s, Quantity: q, Price: px, Value: px.Mul(q)}
		v.Entries = append(v.Entries, e)
		v.Total = v.Total.Add(e.Value)
	}
	return v
}

// Engine values portfolios using a PriceSource.
type Engine struct {
	src     PriceSource
	log     *zap.SugaredLogger
	metrics *Metrics
	workers int
}

// NewEngine creates a valuation engine.
func NewEngine(src PriceSource, opts ...Option) *Engine {
	o := newOptions(opts)
	return &Engine{src: o.metrics.wrap(src), log: o.log, metrics: o.metrics, workers: o.workers}
}

// Value prices the portfolio on a day. Any missing price is an error.
func (e *Engine) Value(ctx context.Context, p *Portfolio, on date.Date) (PortfolioWithValue, error) {
	prices, err := FetchPrices(ctx, e.src, on, p.Symbols(on))
	if err != nil {
		return PortfolioWithValue{}, fmt.Errorf("cannot value %q on %s: %w", p.Name(), on, err)
	}
	return ValueAt(p, on, prices), nil
}

// CostBasis computes the cost basis of the portfolio on a day, pricing each buy at the close of
// its own date. Any missing price is an error.
func (e *Engine) CostBasis(ctx context.Context, p *Portfolio, on date.Date) (Money, error) {
	return p.CostBasis(on, func(day date.Date, symbol string) (Money, error) {
		q, err := e.src.Quote(ctx, day, symbol)
		if err != nil {
			return Money{}, &PriceError{Symbol: symbol, Date: day, Err: err}
		}
		return q.Close, nil
	})
}

// Values prices the portfolio on every calendar day from 'from' to 'to'.
//
// Days that cannot be priced, whatever the reason, are absent from the result. Days are priced
// concurrently by a bounded number of workers. The scan aborts only when ctx is done.
func (e *Engine) Values(ctx context.Context, p *Portfolio, from, to date.Date) (*date.History[Money], error) {
	if err := (date.Range{From: from, To: to}).Validate(); err != nil {
		return nil, err
	}
	defer e.metrics.rangeScan(time.Now())

	days := slices.Collect(date.Days(from, to))
	values := make([]Money, len(days))
	priced := make([]bool, len(days))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, on := range days {
		g.Go(func() error {
			v, err := e.Value(gctx, p, on)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				e.log.Debugw("day skipped", "portfolio", p.Name(), "date", on, "error", err)
				e.metrics.skippedDay()
				return nil
			}
			values[i], priced[i] = v.Total, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("range scan of %q aborted: %w", p.Name(), err)
	}

	series := new(date.History[Money])
	for i, on := range days {
		if priced[i] {
			series.Append(on, values[i])
		}
	}
	return series, nil
}
