package folio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/folio/date"
	"github.com/gocarina/gocsv"
)

// txRecord is one line of the portfolio text format: type, symbol, quantity, date, fee.
type txRecord struct {
	Type     string `csv:"type"`
	Symbol   string `csv:"symbol"`
	Quantity string `csv:"quantity"`
	Date     string `csv:"date"`
	Fee      string `csv:"fee"`
}

func (r txRecord) transaction() (Transaction, error) {
	typ, err := ParseTxType(r.Type)
	if err != nil {
		return Transaction{}, err
	}
	q, err := ParseQuantity(strings.TrimSpace(r.Quantity))
	if err != nil {
		return Transaction{}, err
	}
	on, err := date.Parse(strings.TrimSpace(r.Date))
	if err != nil {
		return Transaction{}, err
	}
	fee, err := ParseMoney(strings.TrimSpace(r.Fee))
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{Type: typ, Symbol: strings.TrimSpace(r.Symbol), Quantity: q, Date: on, Fee: fee}, nil
}

// EncodePortfolio writes the portfolio in its text format: a format marker line followed by one
// line per transaction.
func EncodePortfolio(w io.Writer, p *Portfolio) error {
	if _, err := fmt.Fprintln(w, p.Format()); err != nil {
		return err
	}
	if p.Len() == 0 {
		return nil
	}
	records := make([]txRecord, 0, p.Len())
	for _, tx := range p.All() {
		records = append(records, txRecord{
			Type:     string(tx.Type),
			Symbol:   tx.Symbol,
			Quantity: tx.Quantity.String(),
			Date:     tx.Date.String(),
			Fee:      tx.Fee.value.String(),
		})
	}
	return gocsv.MarshalWithoutHeaders(records, w)
}

// DecodeTransactions reads transactions in the text format, without format marker.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var records []txRecord
	if err := gocsv.UnmarshalWithoutHeaders(bytes.NewReader(data), &records); err != nil {
		return nil, fmt.Errorf("invalid transaction list: %w", err)
	}
	txs := make([]Transaction, 0, len(records))
	for i, rec := range records {
		tx, err := rec.transaction()
		if err != nil {
			return nil, fmt.Errorf("transaction #%d: %w", i+1, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// DecodePortfolio reads a portfolio written by EncodePortfolio.
//
// Transactions are checked for consistency, not against the market.
func DecodePortfolio(name string, r io.Reader) (*Portfolio, error) {
	br := bufio.NewReader(r)
	marker, err := br.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && marker != "") {
		return nil, fmt.Errorf("cannot read %q format: %w", name, err)
	}
	format, err := ParseFormat(marker)
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", name, err)
	}
	txs, err := DecodeTransactions(br)
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", name, err)
	}
	return NewPortfolio(name, format, txs)
}
