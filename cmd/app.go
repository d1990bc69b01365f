// Package cmd implements the CLI application to manage portfolios.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/folio"
	"github.com/etnz/folio/config"
	"github.com/etnz/folio/eodhd"
	"github.com/etnz/folio/logger"
	"github.com/etnz/folio/pricefile"
	"github.com/google/subcommands"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Commands lists the subcommands by group.
var Commands = map[string][]subcommands.Command{
	"portfolios": {
		&createCmd{},
		&txCmd{},
		&holdingCmd{},
	},
	"transactions": {
		newTradeCmd(folio.Buy),
		newTradeCmd(folio.Sell),
	},
	"reports": {
		&valueCmd{},
		&costCmd{},
		&perfCmd{},
	},
	"plans": {
		&planCmd{},
		&runCmd{},
	},
	"market": {
		&symbolsCmd{},
	},
	"help": {
		&topicCmd{},
	},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for group, cmds := range Commands {
		for _, cmd := range cmds {
			c.Register(cmd, group)
		}
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to a YAML configuration file. Settings can also be set with FOLIO_* environment variables.")
var verbose = flag.Bool("v", false, "Log debug information to stderr.")

// app holds what every command needs: settings, logger, metrics and the session on the price
// source.
type app struct {
	cfg      *config.Config
	log      *zap.SugaredLogger
	registry *prometheus.Registry
	session  *folio.Session
}

// newApp loads the configuration and opens the price source.
func newApp() (*app, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Log.Dev || *verbose)

	src, err := openSource(cfg, log)
	if err != nil {
		return nil, err
	}
	registry := prometheus.NewRegistry()
	session := folio.NewSession(src,
		folio.WithLogger(log),
		folio.WithMetrics(folio.NewMetrics(registry)),
		folio.WithWorkers(cfg.Workers),
	)
	return &app{cfg: cfg, log: log, registry: registry, session: session}, nil
}

func openSource(cfg *config.Config, log *zap.SugaredLogger) (folio.PriceSource, error) {
	switch cfg.Source {
	case config.SourceEODHD:
		src, err := eodhd.New(cfg.EODHD.APIKey,
			eodhd.WithExchange(cfg.EODHD.Exchange),
			eodhd.WithCacheDir(cfg.EODHD.CacheDir),
			eodhd.WithRate(cfg.EODHD.RequestsPerSecond),
			eodhd.WithLogger(log),
		)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		src, err := pricefile.Open(cfg.PricesFile)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
}

// close flushes the logs and writes the metrics file, if any.
func (a *app) close() {
	if a.cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(a.cfg.MetricsFile, a.registry); err != nil {
			a.log.Warnw("cannot write metrics", "file", a.cfg.MetricsFile, "error", err)
		}
	}
	_ = a.log.Sync()
}

func (a *app) portfolioFile(name string) string { return filepath.Join(a.cfg.DataDir, name+".csv") }
func (a *app) plansFile(name string) string     { return filepath.Join(a.cfg.DataDir, name+".plans.jsonl") }

// exists reports whether a portfolio file exists in the data directory.
func (a *app) exists(name string) bool {
	_, err := os.Stat(a.portfolioFile(name))
	return err == nil
}

// load makes the named portfolio, and its plans, the current one.
func (a *app) load(name string) error {
	f, err := os.Open(a.portfolioFile(name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("portfolio %q does not exist, create it first", name)
	}
	if err != nil {
		return err
	}
	defer f.Close()

	var plans io.Reader
	pf, err := os.Open(a.plansFile(name))
	switch {
	case err == nil:
		defer pf.Close()
		plans = pf
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	return a.session.Load(name, f, plans)
}

// save writes the current portfolio and its plans back to the data directory.
func (a *app) save() error {
	name := a.session.Portfolio().Name()
	if err := os.MkdirAll(a.cfg.DataDir, 0o755); err != nil {
		return err
	}
	if err := writeFile(a.portfolioFile(name), a.session.Save); err != nil {
		return err
	}
	if len(a.session.Plans()) == 0 {
		return nil
	}
	return writeFile(a.plansFile(name), a.session.SavePlans)
}

// writeFile replaces a file with the content written by encode.
func writeFile(name string, encode func(io.Writer) error) error {
	f, err := os.CreateTemp(filepath.Dir(name), filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("cannot write %q: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), name)
}

// printMarkdown renders markdown for the terminal, falling back to the raw text.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

// run opens the app, runs f and reports its error.
func run(ctx context.Context, f func(ctx context.Context, a *app) error) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()
	if err := f(ctx, a); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
