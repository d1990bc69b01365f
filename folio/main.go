// Command folio manages stock portfolios: transactions, valuations, performance charts and
// recurring investment plans.
package main

import (
	"context"
	"flag"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/etnz/folio/cmd"
	"github.com/etnz/folio/config"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	completion(commander).Complete(path.Base(os.Args[0]))

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the commands and their flags for shell completion.
func completion(commander *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{},
	}
	flag.CommandLine.VisitAll(func(f *flag.Flag) {
		root.Flags[f.Name] = predictor(f)
	})
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		fs.VisitAll(func(f *flag.Flag) {
			sub.Flags[f.Name] = predictor(f)
		})
		root.Sub[c.Name()] = sub
	})
	return root
}

// predictor suggests values for a flag from its name.
func predictor(f *flag.Flag) complete.Predictor {
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	switch f.Name {
	case "n":
		return portfolios{}
	case "f", "config":
		return predict.Files("*")
	default:
		return predict.Something
	}
}

// portfolios predicts portfolio names from the files of the data directory.
type portfolios struct{}

func (portfolios) Predict(prefix string) []string {
	dir := os.Getenv("FOLIO_DATA_DIR")
	if dir == "" {
		dir = config.DefaultDataDir
	}
	files, _ := filepath.Glob(filepath.Join(dir, "*.csv"))
	var names []string
	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".csv")
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	return names
}
