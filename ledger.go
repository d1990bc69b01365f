package folio

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/etnz/folio/date"
)

// Format is the mutation policy of a portfolio.
type Format int

const (
	// Inflexible portfolios hold a fixed set of buys supplied at creation.
	Inflexible Format = iota
	// Flexible portfolios accept buys and sells, and can be extended with new transactions.
	Flexible
)

func (f Format) String() string {
	switch f {
	case Inflexible:
		return "INFLEXIBLE"
	case Flexible:
		return "FLEXIBLE"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat parses a format marker, case insensitive.
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INFLEXIBLE":
		return Inflexible, nil
	case "FLEXIBLE":
		return Flexible, nil
	default:
		return 0, fmt.Errorf("unknown portfolio format %q", s)
	}
}

// Composition maps a symbol to the quantity held. Symbols with a zero position are absent.
type Composition map[string]Quantity

// Symbols returns the symbols of the composition in alphabetical order.
func (c Composition) Symbols() []string { return slices.Sorted(maps.Keys(c)) }

// PriceFunc returns the close price of a symbol on a day.
type PriceFunc func(on date.Date, symbol string) (Money, error)

// Portfolio is a named list of transactions.
//
// In a Portfolio transactions are always in chronological order, same day transactions keep
// their insertion order. A Portfolio is never modified, adding transactions creates a new one.
type Portfolio struct {
	name         string
	format       Format
	transactions []Transaction
}

// NewPortfolio validates the transactions and creates a portfolio.
//
// It rejects any sell in an inflexible portfolio, and any sell that leaves a negative position
// for its symbol at the end of its own day.
func NewPortfolio(name string, format Format, transactions []Transaction) (*Portfolio, error) {
	if format != Inflexible && format != Flexible {
		return nil, fmt.Errorf("unknown portfolio format %d", format)
	}
	txs := slices.Clone(transactions)
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, err
		}
		if format == Inflexible && tx.Type == Sell {
			return nil, invalid(tx, nil, "%s portfolio accepts only buys", format)
		}
	}
	stableSort(txs)
	if err := replay(txs); err != nil {
		return nil, err
	}
	return &Portfolio{name: name, format: format, transactions: txs}, nil
}

// stableSort sorts transactions by date, keeping the input order of same day transactions.
func stableSort(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })
}

// replay walks sorted transactions one day at a time and checks that no position is negative
// once all the day's transactions are applied.
func replay(txs []Transaction) error {
	pos := make(map[string]Quantity)
	for i := 0; i < len(txs); {
		j := i
		for ; j < len(txs) && txs[j].Date == txs[i].Date; j++ {
			pos[txs[j].Symbol] = pos[txs[j].Symbol].Add(txs[j].delta())
		}
		for _, tx := range txs[i:j] {
			if tx.Type == Sell && pos[tx.Symbol].IsNegative() {
				return invalid(tx, ErrNegativePosition, "on %s, cannot sell %s of %s, position would be %s", tx.Date, tx.Quantity, tx.Symbol, pos[tx.Symbol])
			}
		}
		i = j
	}
	return nil
}

// Name returns the portfolio name.
func (p *Portfolio) Name() string { return p.name }

// Format returns the portfolio format.
func (p *Portfolio) Format() Format { return p.format }

// IsReadOnly is true for inflexible portfolios.
func (p *Portfolio) IsReadOnly() bool { return p.format == Inflexible }

// Len returns the number of transactions.
func (p *Portfolio) Len() int { return len(p.transactions) }

// Transactions returns a copy of the transactions in chronological order.
func (p *Portfolio) Transactions() []Transaction { return slices.Clone(p.transactions) }

// All iterates over the transactions in chronological order.
func (p *Portfolio) All() iter.Seq2[int, Transaction] { return slices.All(p.transactions) }

// Until iterates over transactions dated on or before a day.
func (p *Portfolio) Until(on date.Date) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range p.transactions {
			if tx.Date.After(on) {
				return
			}
			if !yield(tx) {
				return
			}
		}
	}
}

// LatestDate returns the date of the last transaction, or the zero date for an empty portfolio.
func (p *Portfolio) LatestDate() date.Date {
	if len(p.transactions) == 0 {
		return date.Date{}
	}
	return p.transactions[len(p.transactions)-1].Date
}

// Composition returns the quantity held per symbol at the end of a day.
func (p *Portfolio) Composition(on date.Date) Composition {
	pos := make(map[string]Quantity)
	for tx := range p.Until(on) {
		pos[tx.Symbol] = pos[tx.Symbol].Add(tx.delta())
	}
	maps.DeleteFunc(pos, func(_ string, q Quantity) bool { return q.IsZero() })
	return pos
}

// LatestComposition returns the composition as of the last transaction date.
func (p *Portfolio) LatestComposition() Composition { return p.Composition(p.LatestDate()) }

// Symbols returns the symbols held at the end of a day, in alphabetical order.
func (p *Portfolio) Symbols(on date.Date) []string { return p.Composition(on).Symbols() }

// Position returns the quantity of a symbol held at the end of a day.
func (p *Portfolio) Position(on date.Date, symbol string) Quantity {
	var q Quantity
	for tx := range p.Until(on) {
		if tx.Symbol == symbol {
			q = q.Add(tx.delta())
		}
	}
	return q
}

// CostBasis returns the total money invested up to a day.
//
// Each buy costs its quantity at the close price of its own date plus its fee. Sells only add
// their fee, their proceeds do not reduce the cost basis.
func (p *Portfolio) CostBasis(on date.Date, price PriceFunc) (Money, error) {
	var total Money
	for tx := range p.Until(on) {
		if tx.Type == Buy {
			px, err := price(tx.Date, tx.Symbol)
			if err != nil {
				return Money{}, fmt.Errorf("cost basis on %s: %w", on, err)
			}
			total = total.Add(px.Mul(tx.Quantity))
		}
		total = total.Add(tx.Fee)
	}
	return total, nil
}

// WithTransactions returns a new portfolio holding the current transactions and the new ones.
// The receiver is unchanged.
func (p *Portfolio) WithTransactions(txs ...Transaction) (*Portfolio, error) {
	if p.IsReadOnly() {
		return nil, fmt.Errorf("cannot add %d transaction(s) to %q: %w: %w", len(txs), p.name, ErrValidation, ErrReadOnly)
	}
	all := make([]Transaction, 0, len(p.transactions)+len(txs))
	all = append(append(all, p.transactions...), txs...)
	return NewPortfolio(p.name, p.format, all)
}
