package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/subcommands"

	"premarket-scan/internal/app"
	"premarket-scan/internal/model"
	"premarket-scan/internal/observability"
	"premarket-scan/internal/polygon"
	"premarket-scan/internal/report"
	"premarket-scan/internal/scan"
	"premarket-scan/internal/scoring"
	"premarket-scan/internal/tradeplan"
	"premarket-scan/internal/watchlist"
)

var errNoKey = fmt.Errorf("%w: set POLYGON_API_KEY or POLYGON_API_KEYS", polygon.ErrNoAPIKey)

// exit maps a command error onto an exit status. Cancellation is a clean stop.
func exit(err error) subcommands.ExitStatus {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return subcommands.ExitSuccess
	default:
		slog.Error("command failed", "error", err)
		return subcommands.ExitFailure
	}
}

func usage(f *flag.FlagSet, msg string) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "%s\n\n", msg)
	f.Usage()
	return subcommands.ExitUsageError
}

func badFormat(format string) string {
	if report.ValidFormat(format) {
		return ""
	}
	return fmt.Sprintf("unknown --format %q (use: markdown, plain, json)", format)
}

// resolvePolicies looks up the confidence and trade plan policies by name.
func resolvePolicies(names app.PolicyNames) (scoring.ConfidencePolicy, tradeplan.Policy, error) {
	conf, err := scoring.PolicyByName(names.Confidence)
	if err != nil {
		return nil, nil, err
	}
	plan, err := tradeplan.ByName(names.TradePlan)
	if err != nil {
		return nil, nil, err
	}
	return conf, plan, nil
}

func runner(a *App, format, saveDir string) *app.Runner {
	if saveDir == "" {
		saveDir = a.Config.SaveDir
	}
	return &app.Runner{
		Out:     os.Stdout,
		Format:  format,
		Saver:   a.Saver,
		SaveDir: saveDir,
		Metrics: a.Metrics,
	}
}

type watchlistCmd struct {
	file           string
	premarketStart string
	loop           bool
	interval       int
	strict         bool
	format         string
	saveDir        string
}

func (*watchlistCmd) Name() string     { return scan.ModeWatchlist }
func (*watchlistCmd) Synopsis() string { return "score the tickers of a watchlist file" }
func (*watchlistCmd) Usage() string {
	return `watchlist --file watch.csv [--premarket-start 04:00] [--loop] [--interval 45] [--strict] [--format markdown|plain|json] [--save-dir DIR]:
  Score every ticker of a .csv, .tsv, .txt or .json watchlist and print the table.
`
}

func (c *watchlistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "watchlist file (.csv, .tsv, .txt, .json)")
	f.StringVar(&c.premarketStart, "premarket-start", "04:00", "premarket start, New York time (HH:MM)")
	f.BoolVar(&c.loop, "loop", false, "refresh continuously")
	f.IntVar(&c.interval, "interval", 45, "refresh interval in seconds when looping (min 5)")
	f.BoolVar(&c.strict, "strict", false, "skip a ticker when any of its fetches fails")
	f.StringVar(&c.format, "format", report.FormatMarkdown, "output format: markdown, plain or json")
	f.StringVar(&c.saveDir, "save-dir", "", "write each pass to this directory (default SAVE_DIR)")
}

func (c *watchlistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		return usage(f, "--file is required")
	}
	if msg := badFormat(c.format); msg != "" {
		return usage(f, msg)
	}
	if _, err := app.ParsePremarketStart(c.premarketStart, time.Now()); err != nil {
		return usage(f, err.Error())
	}

	a, err := setup(ctx)
	if err != nil {
		return exit(err)
	}
	defer a.logKeyUsage()
	if !a.Client.HasKey() {
		if !a.Config.AllowNoKey {
			return exit(fmt.Errorf("%w (or SCAN_ALLOW_NO_KEY=true to scan offline)", errNoKey))
		}
		slog.Warn("no API key, running offline: market data fetches return empty")
	}

	conf, plan, err := resolvePolicies(a.Config.WatchlistPolicies)
	if err != nil {
		return exit(err)
	}
	tickers, err := watchlist.Load(c.file)
	if err != nil {
		return exit(err)
	}

	policies := polygon.WatchlistPolicies()
	if c.strict {
		policies = polygon.GainerPolicies()
	}
	w := scan.NewWatchlist(a.fetcher(policies), scan.WatchlistOptions{
		Workers:    a.Config.Workers,
		Confidence: conf,
		Plan:       plan,
		Observer:   a.Metrics,
	})
	r := runner(a, c.format, c.saveDir)

	pass := func(ctx context.Context) error {
		start, err := app.ParsePremarketStart(c.premarketStart, time.Now())
		if err != nil {
			return err
		}
		return r.Run(ctx, scan.ModeWatchlist, func(ctx context.Context) ([]model.Row, scan.Stats, error) {
			return w.Run(ctx, tickers, start)
		}, report.WatchlistTable)
	}
	if !c.loop {
		return exit(pass(ctx))
	}
	return exit(app.RunLoop(ctx, time.Duration(c.interval)*time.Second, pass))
}

type gainersCmd struct {
	minPrice      float64
	maxPrice      float64
	minChange     float64
	minVolume     float64
	forceFallback bool
	lookback      int
	noNews        bool
	format        string
	saveDir       string
}

func (*gainersCmd) Name() string     { return scan.ModeGainers }
func (*gainersCmd) Synopsis() string { return "score the day's top gainers" }
func (*gainersCmd) Usage() string {
	return `gainers [--min-price 1] [--max-price 20] [--min-change 10] [--min-volume 1000000] [--force-fallback] [--lookback 5] [--no-news] [--format ...] [--save-dir DIR]:
  Score the live top gainers, or the latest grouped daily session when the live list is empty.
`
}

func (c *gainersCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.minPrice, "min-price", scan.DefaultMinPrice, "minimum price")
	f.Float64Var(&c.maxPrice, "max-price", scan.DefaultMaxPrice, "maximum price (0 disables)")
	f.Float64Var(&c.minChange, "min-change", scan.DefaultMinChange, "minimum percent change")
	f.Float64Var(&c.minVolume, "min-volume", scan.DefaultMinVolume, "minimum day volume")
	f.BoolVar(&c.forceFallback, "force-fallback", false, "skip the live list and use grouped daily bars")
	f.IntVar(&c.lookback, "lookback", scan.DefaultLookbackDays, "days to walk back for the fallback session")
	f.BoolVar(&c.noNews, "no-news", false, "skip the news fetch")
	f.StringVar(&c.format, "format", report.FormatMarkdown, "output format: markdown, plain or json")
	f.StringVar(&c.saveDir, "save-dir", "", "write the pass to this directory (default SAVE_DIR)")
}

func (c *gainersCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.lookback < 1 {
		return usage(f, "--lookback must be at least 1")
	}
	if msg := badFormat(c.format); msg != "" {
		return usage(f, msg)
	}
	a, err := setup(ctx)
	if err != nil {
		return exit(err)
	}
	defer a.logKeyUsage()
	if !a.Client.HasKey() {
		return exit(errNoKey)
	}
	conf, plan, err := resolvePolicies(a.Config.GainerPolicies)
	if err != nil {
		return exit(err)
	}

	// Config file values apply to filters not given on the command line.
	set := map[string]bool{}
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	d := a.Config.Gainers
	opts := scan.DefaultGainerOptions()
	opts.MinPrice = pick(set["min-price"], c.minPrice, d.MinPrice)
	opts.MaxPrice = pick(set["max-price"], c.maxPrice, d.MaxPrice)
	opts.MinChange = pick(set["min-change"], c.minChange, d.MinChange)
	opts.MinVolume = pick(set["min-volume"], c.minVolume, d.MinVolume)
	opts.LookbackDays = pick(set["lookback"], c.lookback, d.LookbackDays)
	opts.ForceFallback = c.forceFallback
	opts.NoNews = c.noNews
	opts.Workers = a.Config.Workers
	opts.Confidence = conf
	opts.Plan = plan
	opts.Observer = a.Metrics

	g := scan.NewGainers(a.fetcher(polygon.GainerPolicies()), opts)
	r := runner(a, c.format, c.saveDir)
	return exit(r.Run(ctx, scan.ModeGainers, g.Run, report.GainersTable))
}

func pick[T any](explicit bool, flagValue, configValue T) T {
	if explicit {
		return flagValue
	}
	return configValue
}

type moversCmd struct {
	interval int
	top      int
}

func (*moversCmd) Name() string     { return scan.ModeMovers }
func (*moversCmd) Synopsis() string { return "print the top live gainers on a timer" }
func (*moversCmd) Usage() string {
	return `movers [--interval 30] [--top 10]:
  Print the top gainers with price and percent change until interrupted.
`
}

func (c *moversCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.interval, "interval", 30, "refresh interval in seconds (min 5)")
	f.IntVar(&c.top, "top", 10, "number of gainers to print")
}

func (c *moversCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.top < 1 {
		return usage(f, "--top must be at least 1")
	}
	a, err := setup(ctx)
	if err != nil {
		return exit(err)
	}
	defer a.logKeyUsage()
	if !a.Client.HasKey() {
		return exit(errNoKey)
	}

	src := a.fetcher(polygon.GainerPolicies())
	r := &app.Runner{Out: os.Stdout, Metrics: a.Metrics}
	return exit(app.RunLoop(ctx, time.Duration(c.interval)*time.Second, func(ctx context.Context) error {
		return r.Movers(ctx, src, c.top)
	}))
}

var (
	_ scan.WatchlistSource = (*polygon.Fetcher)(nil)
	_ scan.GainerSource    = (*polygon.Fetcher)(nil)
	_ scan.Observer        = (*observability.Metrics)(nil)
	_ polygon.Recorder     = (*observability.Metrics)(nil)
)
