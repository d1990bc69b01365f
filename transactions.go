package folio

import (
	"fmt"
	"strings"

	"github.com/etnz/folio/date"
)

// TxType identifies the kind of a transaction.
type TxType string

// Transaction types.
const (
	Buy  TxType = "BUY"
	Sell TxType = "SELL"
)

// ParseTxType parses a transaction type, case insensitive.
func ParseTxType(s string) (TxType, error) {
	switch t := TxType(strings.ToUpper(strings.TrimSpace(s))); t {
	case Buy, Sell:
		return t, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Transaction is an immutable buy or sell event.
type Transaction struct {
	Type     TxType    `json:"type"`
	Symbol   string    `json:"symbol"`
	Quantity Quantity  `json:"quantity"`
	Date     date.Date `json:"date"`
	Fee      Money     `json:"fee"`
}

// NewBuy creates a buy transaction.
func NewBuy(on date.Date, symbol string, quantity Quantity, fee Money) Transaction {
	return Transaction{Type: Buy, Symbol: symbol, Quantity: quantity, Date: on, Fee: fee}
}

// NewSell creates a sell transaction.
func NewSell(on date.Date, symbol string, quantity Quantity, fee Money) Transaction {
	return Transaction{Type: Sell, Symbol: symbol, Quantity: quantity, Date: on, Fee: fee}
}

// delta returns the signed change in position this transaction brings.
func (tx Transaction) delta() Quantity {
	if tx.Type == Sell {
		return tx.Quantity.Neg()
	}
	return tx.Quantity
}

// Equal reports whether both transactions hold the same values.
func (tx Transaction) Equal(x Transaction) bool {
	return tx.Type == x.Type && tx.Symbol == x.Symbol && tx.Date == x.Date &&
		tx.Quantity.Equal(x.Quantity) && tx.Fee.Equal(x.Fee)
}

func (tx Transaction) String() string {
	return fmt.Sprintf("%s %s %s %s fee %s", tx.Date, tx.Type, tx.Quantity, tx.Symbol, tx.Fee)
}

// Validate checks the fields of the transaction on their own, without any market data.
func (tx Transaction) Validate() error {
	switch {
	case tx.Type != Buy && tx.Type != Sell:
		return invalid(tx, nil, "unknown transaction type %q", tx.Type)
	case tx.Symbol == "":
		return invalid(tx, nil, "symbol is missing")
	case tx.Date.IsZero():
		return invalid(tx, nil, "date is missing")
	case !tx.Quantity.IsPositive():
		return invalid(tx, nil, "%s transaction quantity must be positive, got %s", strings.ToLower(string(tx.Type)), tx.Quantity)
	case tx.Fee.IsNegative():
		return invalid(tx, nil, "fee must not be negative, got %s", tx.Fee)
	}
	return nil
}
