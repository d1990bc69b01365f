package renderer

import (
	"io/fs"
	"strings"
	"testing"
	"text/template"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) date.Date { return date.MustParse(s) }

// TestTemplatesParse checks that every embedded template is valid on its own.
func TestTemplatesParse(t *testing.T) {
	files, err := fs.Glob(templates, "*.md")
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, file := range files {
		content, err := fs.ReadFile(templates, file)
		require.NoError(t, err)
		tmpl := template.New(file).Funcs(funcs)
		// Partials referenced by main templates are declared empty.
		for _, name := range []string{"performance_chart", "performance_summary"} {
			template.Must(tmpl.New(name).Parse(""))
		}
		_, err = tmpl.New(file).Parse(string(content))
		assert.NoError(t, err, file)
	}
}

func TestRenderCostBasis(t *testing.T) {
	got := RenderCostBasis(CostBasis{Portfolio: "demo", Date: d("2022-10-10"), Amount: folio.M(1234.5)})
	want := "# Cost basis of demo on 2022-10-10\n\nInvested: **$1,234.50**\n"
	assert.Equal(t, want, got)
}

func TestRenderHolding(t *testing.T) {
	c := folio.Composition{"AAPL": folio.Q(5.5), "AAA": folio.Q(10)}
	got := RenderHolding(NewHolding("demo", d("2022-10-10"), c))
	assert.Contains(t, got, "# Holding of demo on 2022-10-10\n")
	assert.Contains(t, got, "| AAA | 10 |\n| AAPL | 5.5 |\n")

	empty := RenderHolding(NewHolding("demo", d("2022-10-10"), nil))
	assert.Contains(t, empty, "No position.")
}

func TestRenderValue(t *testing.T) {
	v := folio.PortfolioWithValue{
		Date: d("2022-10-11"),
		Entries: []folio.Entry{
			{Symbol: "AAA", Quantity: folio.Q(100), Price: folio.M(4), Value: folio.M(400)},
		},
		Total: folio.M(400),
	}
	got := RenderValue("demo", v)
	assert.Contains(t, got, "# Value of demo on 2022-10-11\n")
	assert.Contains(t, got, "| AAA | 100 | $4.00 | $400.00 |\n")
	assert.Contains(t, got, "**$400.00**")
}

func TestRenderPerformance(t *testing.T) {
	series := new(date.History[folio.Money])
	series.Append(d("2022-10-10"), folio.M(100))
	series.Append(d("2022-10-11"), folio.M(200))
	series.Append(d("2022-10-12"), folio.M(300))
	r, err := folio.NewPerformanceReport("demo", date.Range{From: d("2022-10-10"), To: d("2022-10-12")}, series)
	require.NoError(t, err)

	got := RenderPerformance(r)
	assert.Contains(t, got, "# Performance of demo from 2022-10-10 to 2022-10-12\n")
	assert.Contains(t, got, "2022-10-10 : *\n")
	assert.Contains(t, got, "2022-10-12 : "+strings.Repeat("*", 46)+"\n")
	assert.Contains(t, got, "Scale: one asterisk is $4.44 more than a base amount of $94.56")
	assert.Contains(t, got, "| 3 | $100.00 | $300.00 | $200.00 | $200.00 | $100.00 |")
}

func TestRenderPerformance_Empty(t *testing.T) {
	r, err := folio.NewPerformanceReport("demo", date.Range{From: d("2022-10-10"), To: d("2022-10-11")}, nil)
	require.NoError(t, err)

	got := RenderPerformance(r)
	assert.Contains(t, got, "2022-10-10 :\n")
	assert.Contains(t, got, "Scale: all values are zero")
	assert.NotContains(t, got, "Median")
}

func TestRenderTransactions(t *testing.T) {
	p, err := folio.NewPortfolio("demo", folio.Flexible, []folio.Transaction{
		folio.NewBuy(d("2022-10-10"), "AAA", folio.Q(110), folio.M(10)),
		folio.NewSell(d("2022-10-11"), "AAA", folio.Q(10), folio.M(0)),
	})
	require.NoError(t, err)

	got := RenderTransactions(p)
	assert.Contains(t, got, "# Transactions of demo (FLEXIBLE)\n")
	assert.Contains(t, got, "| 2022-10-10 | BUY | AAA | 110 | $10.00 |\n| 2022-10-11 | SELL | AAA | 10 | $0.00 |\n")
}

func TestRenderPlans(t *testing.T) {
	ws, err := folio.ParseWeights("AAA:60,AAPL:40")
	require.NoError(t, err)
	plan, err := folio.NewPlan("monthly", folio.M(2000), 30, d("2022-10-10"), date.Date{}, folio.M(1.23), ws)
	require.NoError(t, err)

	got := RenderPlans("demo", []folio.Plan{plan})
	assert.Contains(t, got, "| monthly | $2,000.00 | 30 days | 2022-10-10 | open | $1.23 | never | AAA 60%, AAPL 40% |\n")

	assert.Contains(t, RenderPlans("demo", nil), "No plan.")
}

func TestRenderSymbols(t *testing.T) {
	got := RenderSymbols([]folio.Listing{{Symbol: "AAPL", Name: "Apple Inc", IPODate: d("1980-12-12")}})
	assert.Contains(t, got, "| AAPL | Apple Inc | 1980-12-12 |\n")
}

func TestTransaction(t *testing.T) {
	tx := folio.NewBuy(d("2022-10-10"), "AAPL", folio.Q(3), folio.M(1))
	assert.Equal(t, "Bought 3 of AAPL on 2022-10-10, fee $1.00", Transaction(tx))
}
