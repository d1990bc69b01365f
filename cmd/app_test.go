package cmd

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/folio"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const prices = `symbol,date,open,high,low,close,volume
AAA,2022-10-10,4,4,4,4,100
AAA,2022-10-11,4.5,4.5,4.5,4.5,100
AAA,2022-10-12,5,5,5,5,100
AAPL,2022-10-10,9,9,9,9,100
AAPL,2022-10-11,9.5,9.5,9.5,9.5,100
AAPL,2022-10-12,10,10,10,10,100
`

// setup configures a file price source and an empty data directory, and returns the data
// directory.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prices.csv"), []byte(prices), 0o644))
	data := filepath.Join(dir, "data")
	t.Setenv("FOLIO_DATA_DIR", data)
	t.Setenv("FOLIO_SOURCE", "file")
	t.Setenv("FOLIO_PRICES_FILE", filepath.Join(dir, "prices.csv"))
	return data
}

func execute(cmd subcommands.Command) subcommands.ExitStatus {
	return cmd.Execute(context.Background(), flag.NewFlagSet(cmd.Name(), flag.ContinueOnError))
}

func readFile(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(name)
	require.NoError(t, err)
	return string(b)
}

func TestCommands(t *testing.T) {
	data := setup(t)
	ledger := filepath.Join(data, "demo.csv")

	require.Equal(t, subcommands.ExitSuccess, execute(&createCmd{name: "demo"}))
	assert.Equal(t, "FLEXIBLE\n", readFile(t, ledger))
	assert.Equal(t, subcommands.ExitFailure, execute(&createCmd{name: "demo"}), "already exists")

	buy := newTradeCmd(folio.Buy)
	buy.name, buy.symbol, buy.quantity, buy.date, buy.fee = "demo", "AAA", 10, "2022-10-10", "1"
	require.Equal(t, subcommands.ExitSuccess, execute(buy))
	assert.Equal(t, "FLEXIBLE\nBUY,AAA,10,2022-10-10,1\n", readFile(t, ledger))

	sell := newTradeCmd(folio.Sell)
	sell.name, sell.symbol, sell.quantity, sell.date, sell.fee = "demo", "AAA", 20, "2022-10-11", "0"
	assert.Equal(t, subcommands.ExitFailure, execute(sell), "sell more than held")

	weekend := newTradeCmd(folio.Buy)
	weekend.name, weekend.symbol, weekend.quantity, weekend.date, weekend.fee = "demo", "AAA", 1, "2022-10-09", "0"
	assert.Equal(t, subcommands.ExitFailure, execute(weekend), "no price on sunday")
	assert.Equal(t, "FLEXIBLE\nBUY,AAA,10,2022-10-10,1\n", readFile(t, ledger))

	plan := &planCmd{name: "demo", title: "daily", amount: "100", every: 1, start: "2022-10-10", fee: "0", weights: "AAPL:100"}
	require.Equal(t, subcommands.ExitSuccess, execute(plan))
	assert.FileExists(t, filepath.Join(data, "demo.plans.jsonl"))

	require.Equal(t, subcommands.ExitSuccess, execute(&runCmd{name: "demo", today: "2022-10-12"}))
	lines := strings.Split(strings.TrimSpace(readFile(t, ledger)), "\n")
	assert.Len(t, lines, 5)
	assert.Equal(t, "BUY,AAPL,10,2022-10-12,0", lines[4])
	assert.Contains(t, readFile(t, filepath.Join(data, "demo.plans.jsonl")), `"last_run":"2022-10-12"`)

	assert.Equal(t, subcommands.ExitSuccess, execute(&valueCmd{name: "demo", date: "2022-10-12"}))
	assert.Equal(t, subcommands.ExitFailure, execute(&valueCmd{name: "demo", date: "2022-10-13"}))
	assert.Equal(t, subcommands.ExitSuccess, execute(&costCmd{name: "demo", date: "2022-10-12"}))
	assert.Equal(t, subcommands.ExitSuccess, execute(&perfCmd{name: "demo", start: "2022-10-10", end: "2022-10-12"}))
	assert.Equal(t, subcommands.ExitSuccess, execute(&holdingCmd{name: "demo", date: "2022-10-12"}))
	assert.Equal(t, subcommands.ExitSuccess, execute(&txCmd{name: "demo"}))
	assert.Equal(t, subcommands.ExitSuccess, execute(&symbolsCmd{}))
}

func TestCommands_Inflexible(t *testing.T) {
	data := setup(t)
	file := filepath.Join(t.TempDir(), "txs.csv")
	require.NoError(t, os.WriteFile(file, []byte("BUY,AAA,10,2022-10-10,0\nBUY,AAPL,5,2022-10-11,0\n"), 0o644))

	require.Equal(t, subcommands.ExitSuccess, execute(&createCmd{name: "fixed", inflexible: true, file: file}))
	assert.Equal(t, "INFLEXIBLE\nBUY,AAA,10,2022-10-10,0\nBUY,AAPL,5,2022-10-11,0\n", readFile(t, filepath.Join(data, "fixed.csv")))

	buy := newTradeCmd(folio.Buy)
	buy.name, buy.symbol, buy.quantity, buy.date, buy.fee = "fixed", "AAA", 1, "2022-10-12", "0"
	assert.Equal(t, subcommands.ExitFailure, execute(buy))
}

func TestCommands_Usage(t *testing.T) {
	setup(t)
	assert.Equal(t, subcommands.ExitUsageError, execute(&createCmd{}))
	assert.Equal(t, subcommands.ExitUsageError, execute(newTradeCmd(folio.Buy)))
	assert.Equal(t, subcommands.ExitUsageError, execute(&perfCmd{name: "demo"}))
	assert.Equal(t, subcommands.ExitUsageError, execute(&valueCmd{name: "demo", date: "someday"}))
	assert.Equal(t, subcommands.ExitFailure, execute(&txCmd{name: "missing"}))
}

func TestTopic(t *testing.T) {
	f := flag.NewFlagSet("topic", flag.ContinueOnError)
	require.NoError(t, f.Parse([]string{"plans"}))
	assert.Equal(t, subcommands.ExitSuccess, (&topicCmd{}).Execute(context.Background(), f))

	f = flag.NewFlagSet("topic", flag.ContinueOnError)
	require.NoError(t, f.Parse([]string{"nope"}))
	assert.Equal(t, subcommands.ExitFailure, (&topicCmd{}).Execute(context.Background(), f))
}
