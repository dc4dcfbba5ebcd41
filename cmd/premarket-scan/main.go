package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/google/subcommands"

	"premarket-scan/internal/app"
	"premarket-scan/internal/observability"
	"premarket-scan/internal/polygon"
	"premarket-scan/internal/saver"
	"premarket-scan/internal/slogx"
)

// App holds application dependencies built by Wire.
type App struct {
	Config  *app.Config
	Metrics *observability.Metrics
	Client  *polygon.Client
	Saver   saver.PacketSaver
}

func init() {
	slog.SetDefault(slogx.NewDefault("info", "text"))
}

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&watchlistCmd{}, "scans")
	subcommands.Register(&gainersCmd{}, "scans")
	subcommands.Register(&moversCmd{}, "scans")
	flag.Parse()

	ctx, stop := app.SignalContext(context.Background())
	code := subcommands.Execute(ctx)
	stop()
	os.Exit(int(code))
}

// setup builds the dependency graph, applies the configured logger and
// starts the metrics listener when METRICS_ADDR is set.
func setup(ctx context.Context) (*App, error) {
	a, err := InitializeApp()
	if err != nil {
		return nil, err
	}
	cfg := a.Config
	slog.SetDefault(slogx.NewDefault(cfg.LogLevel, cfg.LogFormat))
	slog.Info("config loaded",
		"keys", len(cfg.PolygonAPIKeys),
		"key_strategy", cfg.KeyStrategy,
		"workers", cfg.Workers,
		"market_index", cfg.MarketIndex,
		"watchlist_policies", cfg.WatchlistPolicies,
		"gainer_policies", cfg.GainerPolicies,
	)

	if cfg.MetricsAddr != "" {
		go func() {
			if err := a.Metrics.Serve(ctx, cfg.MetricsAddr); err != nil {
				slog.Error("metrics server stopped", "error", err)
			}
		}()
	}
	return a, nil
}

// fetcher builds a Fetcher with the configured index and keyword tiers.
func (a *App) fetcher(policies polygon.Policies) *polygon.Fetcher {
	return polygon.NewFetcher(a.Client, policies,
		polygon.WithMarketIndex(a.Config.MarketIndex),
		polygon.WithKeywordTiers(a.Config.KeywordTiers),
	)
}

func (a *App) logKeyUsage() {
	if a.Client.HasKey() {
		slog.Info("api key usage", "requests", a.Client.KeyStats())
	}
}
