// Package eodhd implements a folio.PriceSource on top of the EODHD end of day API.
package eodhd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the EODHD API root.
const DefaultBaseURL = "https://eodhd.com/api"

// Source fetches end of day quotes from EODHD.
//
// Quotes are fetched one month at a time and kept in memory, so that range scans query the API
// once per symbol and month. Requests are throttled.
type Source struct {
	apiKey   string
	exchange string
	base     string
	cacheDir string
	client   *http.Client
	limiter  *rate.Limiter
	months   *cache.Cache
	group    singleflight.Group
	log      *zap.SugaredLogger
}

// Option configures a Source.
type Option func(*Source)

// WithExchange sets the EODHD exchange code appended to symbols, "US" by default.
func WithExchange(code string) Option { return func(s *Source) { s.exchange = code } }

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option { return func(s *Source) { s.base = u } }

// WithCacheDir caches HTTP responses in dir for the day.
func WithCacheDir(dir string) Option { return func(s *Source) { s.cacheDir = dir } }

// WithRate limits the number of requests per second.
func WithRate(perSecond float64) Option {
	return func(s *Source) { s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1) }
}

// WithLogger sets the logger.
func WithLogger(log *zap.SugaredLogger) Option { return func(s *Source) { s.log = log } }

// New creates an EODHD source.
func New(apiKey string, opts ...Option) (*Source, error) {
	if apiKey == "" {
		return nil, errors.New("missing EODHD API key, get one at https://eodhd.com/")
	}
	s := &Source{
		apiKey:   apiKey,
		exchange: "US",
		base:     DefaultBaseURL,
		limiter:  rate.NewLimiter(rate.Every(100*time.Millisecond), 10),
		months:   cache.New(15*time.Minute, 30*time.Minute),
		log:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.client = newDailyCachingClient(s.cacheDir, s.log)
	return s, nil
}

// month holds the quotes of a symbol for one month.
type month map[date.Date]folio.Quote

// Quote returns the quote of symbol on a day.
func (s *Source) Quote(ctx context.Context, on date.Date, symbol string) (folio.Quote, error) {
	m, err := s.month(ctx, symbol, on)
	if err != nil {
		return folio.Quote{}, err
	}
	q, ok := m[on]
	if !ok {
		return folio.Quote{}, fmt.Errorf("%s on %s: %w", symbol, on, folio.ErrPriceNotFound)
	}
	return q, nil
}

func (s *Source) month(ctx context.Context, symbol string, on date.Date) (month, error) {
	key := fmt.Sprintf("%s|%s", symbol, on.Format("2006-01"))
	if m, ok := s.months.Get(key); ok {
		return m.(month), nil
	}
	v, err, _ := s.group.Do(key, func() (any, error) {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		from, to := on.StartOf(date.Monthly), on.EndOf(date.Monthly)
		rows, err := fetchEOD(ctx, s.client, s.base, s.apiKey, s.ticker(symbol), from, to)
		if err != nil {
			return nil, err
		}
		m := make(month, len(rows))
		for _, r := range rows {
			m[r.Date] = r.quote()
		}
		ttl := cache.DefaultExpiration
		if to.Before(date.Today()) {
			// past months are final.
			ttl = cache.NoExpiration
		}
		s.months.Set(key, m, ttl)
		s.log.Debugw("quotes fetched", "symbol", symbol, "from", from, "to", to, "days", len(rows))
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(month), nil
}

// Symbols lists the exchange symbols. The list is fetched on every call.
func (s *Source) Symbols(ctx context.Context) ([]folio.Listing, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return fetchSymbols(ctx, http.DefaultClient, s.base, s.apiKey, s.exchange)
}

func (s *Source) ticker(symbol string) string { return symbol + "." + s.exchange }

var _ folio.PriceSource = (*Source)(nil)
