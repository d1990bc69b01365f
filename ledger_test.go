package folio

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/etnz/folio/date"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPortfolio_Composition(t *testing.T) {
	p, err := NewPortfolio("example", Flexible, exampleTransactions())
	require.NoError(t, err)

	testCases := []struct {
		on   string
		want map[string]string
	}{
		{"2022-10-09", map[string]string{}},
		{"2022-10-10", map[string]string{"AAA": "100"}},
		{"2022-10-11", map[string]string{"AAA": "100", "AAPL": "1000"}},
		{"2030-01-01", map[string]string{"AAA": "100", "AAPL": "1000"}},
	}
	for _, tc := range testCases {
		t.Run(tc.on, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, strs(p.Composition(d(tc.on)))); diff != "" {
				t.Errorf("Composition(%s) mismatch (-want +got):\n%s", tc.on, diff)
			}
		})
	}
	assert.Equal(t, map[string]string{"AAA": "100", "AAPL": "1000"}, strs(p.LatestComposition()))
	assert.Equal(t, []string{"AAA"}, p.Symbols(d("2022-10-10")))
	assert.Equal(t, "100", p.Position(d("2022-10-11"), "AAA").String())
	assert.False(t, p.IsReadOnly())
	assert.Equal(t, d("2022-10-11"), p.LatestDate())
}

func TestNewPortfolio_ZeroPositionIsOmitted(t *testing.T) {
	p, err := NewPortfolio("closed", Flexible, []Transaction{
		buy("2022-10-10", "AAA", 10, 0),
		sell("2022-10-11", "AAA", 10, 0),
	})
	require.NoError(t, err)
	assert.Empty(t, p.Composition(d("2022-10-11")))
	assert.Empty(t, p.Symbols(d("2022-10-12")))
	assert.Equal(t, 2, p.Len(), "history is kept")
}

func TestNewPortfolio_Rejects(t *testing.T) {
	testCases := []struct {
		name   string
		format Format
		txs    []Transaction
		is     error
	}{
		{
			name:   "sell in inflexible",
			format: Inflexible,
			txs:    []Transaction{buy("2022-10-10", "AAA", 10, 0), sell("2022-10-11", "AAA", 1, 0)},
		},
		{
			name:   "sell more than held",
			format: Flexible,
			txs:    []Transaction{buy("2022-10-10", "AAA", 10, 0), sell("2022-10-11", "AAA", 11, 0)},
			is:     ErrNegativePosition,
		},
		{
			name:   "sell before buy",
			format: Flexible,
			txs:    []Transaction{buy("2022-10-10", "AAA", 10, 0), sell("2022-10-09", "AAA", 5, 0)},
			is:     ErrNegativePosition,
		},
		{
			name:   "sell another symbol",
			format: Flexible,
			txs:    []Transaction{buy("2022-10-10", "AAA", 10, 0), sell("2022-10-11", "AAPL", 5, 0)},
			is:     ErrNegativePosition,
		},
		{
			name:   "zero quantity",
			format: Flexible,
			txs:    []Transaction{buy("2022-10-10", "AAA", 0, 0)},
		},
		{
			name:   "negative fee",
			format: Inflexible,
			txs:    []Transaction{buy("2022-10-10", "AAA", 1, -1)},
		},
		{
			name:   "missing symbol",
			format: Inflexible,
			txs:    []Transaction{buy("2022-10-10", "", 1, 0)},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPortfolio("p", tc.format, tc.txs)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			if tc.is != nil {
				assert.ErrorIs(t, err, tc.is)
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.NotEmpty(t, verr.Reason)
		})
	}
}

func TestNewPortfolio_SameDaySellBeforeBuy(t *testing.T) {
	// the position is checked at the end of the day, the input order does not matter.
	p, err := NewPortfolio("p", Flexible, []Transaction{
		sell("2022-10-10", "AAA", 10, 20),
		buy("2022-10-10", "AAA", 110, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, "100", p.Position(d("2022-10-10"), "AAA").String())
}

func TestNewPortfolio_OrderIndependent(t *testing.T) {
	txs := []Transaction{
		buy("2022-10-03", "AAA", 10, 1),
		buy("2022-10-04", "BBB", 5, 1),
		sell("2022-10-05", "AAA", 3, 1),
		buy("2022-10-05", "AAA", 1, 1),
		sell("2022-10-07", "BBB", 5, 1),
		buy("2022-10-10", "CCC", 2.5, 0),
		sell("2022-10-12", "AAA", 8, 1),
	}
	ref, err := NewPortfolio("ref", Flexible, txs)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]Transaction(nil), txs...)
		rnd.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		p, err := NewPortfolio("shuffled", Flexible, shuffled)
		require.NoError(t, err)
		for on := range date.Days(d("2022-10-01"), d("2022-10-13")) {
			if diff := cmp.Diff(strs(ref.Composition(on)), strs(p.Composition(on))); diff != "" {
				t.Fatalf("Composition(%s) depends on input order (-want +got):\n%s", on, diff)
			}
		}
	}
}

func TestNewPortfolio_StableSort(t *testing.T) {
	txs := []Transaction{
		buy("2022-10-11", "BBB", 1, 0),
		buy("2022-10-10", "AAA", 1, 0),
		buy("2022-10-11", "AAA", 1, 0),
	}
	p, err := NewPortfolio("p", Inflexible, txs)
	require.NoError(t, err)
	got := p.Transactions()
	assert.True(t, got[0].Equal(txs[1]))
	assert.True(t, got[1].Equal(txs[0]), "same day transactions keep their input order")
	assert.True(t, got[2].Equal(txs[2]))
}

func TestPortfolio_CostBasis(t *testing.T) {
	p, err := NewPortfolio("example", Flexible, exampleTransactions())
	require.NoError(t, err)
	closes := map[string]Money{"AAA": M(4), "AAPL": M(9.5)}
	price := func(on date.Date, symbol string) (Money, error) {
		if px, ok := closes[symbol]; ok {
			return px, nil
		}
		return Money{}, ErrPriceNotFound
	}

	got, err := p.CostBasis(d("2022-10-09"), price)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	// 110 x 4 + 10 + 20, sell proceeds are ignored.
	got, err = p.CostBasis(d("2022-10-10"), price)
	require.NoError(t, err)
	assert.True(t, got.Equal(M(470)), "got %v", got)

	got, err = p.CostBasis(d("2022-10-11"), price)
	require.NoError(t, err)
	assert.True(t, got.Equal(M(10000)), "got %v", got)

	delete(closes, "AAPL")
	_, err = p.CostBasis(d("2022-10-11"), price)
	assert.ErrorIs(t, err, ErrPriceNotFound)
}

func TestPortfolio_WithTransactions(t *testing.T) {
	p, err := NewPortfolio("example", Flexible, exampleTransactions())
	require.NoError(t, err)

	next, err := p.WithTransactions(sell("2022-10-12", "AAPL", 400, 5))
	require.NoError(t, err)
	assert.Equal(t, 3, p.Len(), "receiver is unchanged")
	assert.Equal(t, 4, next.Len())
	assert.Equal(t, "600", next.Position(d("2022-10-12"), "AAPL").String())

	_, err = p.WithTransactions(sell("2022-10-12", "AAPL", 1001, 5))
	assert.ErrorIs(t, err, ErrNegativePosition)

	ro, err := NewPortfolio("ro", Inflexible, []Transaction{buy("2022-10-10", "AAA", 1, 0)})
	require.NoError(t, err)
	assert.True(t, ro.IsReadOnly())
	_, err = ro.WithTransactions(buy("2022-10-11", "AAA", 1, 0))
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseFormat(t *testing.T) {
	for _, f := range []Format{Inflexible, Flexible} {
		got, err := ParseFormat(f.String() + "\n")
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseFormat("RIGID")
	assert.Error(t, err)
}
