package eodhd

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// This file contains functions to access the EODHD API.

// eodRow is one day of the end of day endpoint.
type eodRow struct {
	Date   date.Date       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

func (r eodRow) quote() folio.Quote {
	return folio.Quote{
		Open:   folio.M(r.Open),
		High:   folio.M(r.High),
		Low:    folio.M(r.Low),
		Close:  folio.M(r.Close),
		Volume: r.Volume,
	}
}

// fetchEOD returns the daily quotes of an EODHD ticker between two days, both included.
// The EODHD ticker format is "SYMBOL.EXCHANGECODE".
func fetchEOD(ctx context.Context, client *http.Client, base, apiKey, ticker string, from, to date.Date) ([]eodRow, error) {
	// https://eodhd.com/api/eod/MCD.US?api_token=demo&fmt=json&from=2024-02-01&to=2024-02-29
	// [
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	},
	q := url.Values{"fmt": {"json"}, "api_token": {apiKey}, "from": {from.String()}, "to": {to.String()}}
	addr := fmt.Sprintf("%s/eod/%s?%s", base, url.PathEscape(ticker), q.Encode())
	content := make([]eodRow, 0)
	if err := jwget(ctx, client, addr, &content); err != nil {
		return nil, err
	}
	return content, nil
}

// fetchSymbols returns the symbols listed on an EODHD exchange.
func fetchSymbols(ctx context.Context, client *http.Client, base, apiKey, exchange string) ([]folio.Listing, error) {
	// https://eodhd.com/api/exchange-symbol-list/US?api_token=demo&fmt=json
	// [
	//	{
	//		"Code": "AAPL",
	//		"Name": "Apple Inc",
	//		"Country": "USA",
	//		"Exchange": "NASDAQ",
	//		"Currency": "USD",
	//		"Type": "Common Stock",
	//		"Isin": "US0378331005"
	//	},
	q := url.Values{"fmt": {"json"}, "api_token": {apiKey}}
	addr := fmt.Sprintf("%s/exchange-symbol-list/%s?%s", base, url.PathEscape(exchange), q.Encode())
	var content []any
	if err := jwget(ctx, client, addr, &content); err != nil {
		return nil, err
	}
	listings := make([]folio.Listing, 0, len(content))
	for _, item := range content {
		code := str("$.Code", item)
		if code == "" {
			continue
		}
		listings = append(listings, folio.Listing{Symbol: code, Name: str("$.Name", item)})
	}
	return listings, nil
}

// str evaluates a jsonpath on a decoded JSON value and returns it as a string, or "".
func str(path string, v any) string {
	x, err := jsonpath.Get(path, v)
	if err != nil {
		return ""
	}
	s, _ := x.(string)
	return s
}
