package eodhd

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/eod/AAPL.US", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "secret", r.URL.Query().Get("api_token"))
		assert.Equal(t, "2022-10-01", r.URL.Query().Get("from"))
		assert.Equal(t, "2022-10-31", r.URL.Query().Get("to"))
		fmt.Fprint(w, `[
			{"date":"2022-10-07","open":142.5,"high":143.1,"low":139.4,"close":140.09,"adjusted_close":139.2,"volume":85925600},
			{"date":"2022-10-10","open":140.4,"high":141.8,"low":138.5,"close":140.42,"adjusted_close":139.5,"volume":74899000}
		]`)
	})
	mux.HandleFunc("/eod/NOPE.US", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Ticker Not Found.", http.StatusNotFound)
	})
	mux.HandleFunc("/exchange-symbol-list/US", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"Code":"AAPL","Name":"Apple Inc","Exchange":"NASDAQ","Type":"Common Stock"},
			{"Code":"MSFT","Name":"Microsoft Corporation","Exchange":"NASDAQ","Type":"Common Stock"},
			{"Name":"no code"}
		]`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSource_Quote(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, &calls)
	src, err := New("secret", WithBaseURL(srv.URL), WithRate(1000))
	require.NoError(t, err)
	ctx := context.Background()

	q, err := src.Quote(ctx, date.MustParse("2022-10-10"), "AAPL")
	require.NoError(t, err)
	assert.True(t, q.Close.Equal(folio.M(140.42)), "close = %v", q.Close)
	assert.Equal(t, int64(74899000), q.Volume)

	// week-end in the same month: served from memory.
	_, err = src.Quote(ctx, date.MustParse("2022-10-08"), "AAPL")
	assert.ErrorIs(t, err, folio.ErrPriceNotFound)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSource_UnknownTicker(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, &calls)
	src, err := New("secret", WithBaseURL(srv.URL), WithRate(1000))
	require.NoError(t, err)

	_, err = src.Quote(context.Background(), date.MustParse("2022-10-10"), "NOPE")
	assert.ErrorIs(t, err, folio.ErrPriceNotFound)
}

func TestSource_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer srv.Close()
	src, err := New("secret", WithBaseURL(srv.URL), WithRate(1000))
	require.NoError(t, err)

	_, err = src.Quote(context.Background(), date.MustParse("2022-10-10"), "AAPL")
	assert.ErrorIs(t, err, folio.ErrSourceUnavailable)
	_, err = src.Symbols(context.Background())
	assert.ErrorIs(t, err, folio.ErrSourceUnavailable)
}

func TestSource_Symbols(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, &calls)
	src, err := New("secret", WithBaseURL(srv.URL), WithRate(1000))
	require.NoError(t, err)

	got, err := src.Symbols(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []folio.Listing{
		{Symbol: "AAPL", Name: "Apple Inc"},
		{Symbol: "MSFT", Name: "Microsoft Corporation"},
	}, got)
}

func TestNew_MissingKey(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}
