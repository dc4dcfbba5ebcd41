// Package scan builds the output rows of one scan pass.
package scan

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"premarket-scan/internal/model"
)

// Scan modes.
const (
	ModeWatchlist = "watchlist"
	ModeGainers   = "gainers"
	ModeMovers    = "movers"
)

// Skip reasons reported for tickers left out of the table.
const (
	ReasonEmptySymbol = "empty_symbol"
	ReasonNoPrice     = "no_price"
	ReasonNoVolume    = "no_volume"
	ReasonNoAvgVolume = "no_avg_volume"
	ReasonNoMarketCap = "no_market_cap"
	ReasonFetchError  = "fetch_error"
)

// DefaultWorkers bounds concurrent tickers when no worker count is given.
const DefaultWorkers = 4

// WatchlistSource is the data a watchlist pass needs. *polygon.Fetcher implements it.
type WatchlistSource interface {
	Premarket(ctx context.Context, ticker string, start time.Time) (model.PremarketStats, error)
	Quote(ctx context.Context, ticker string) (model.QuoteStats, error)
	News(ctx context.Context, ticker string) (model.NewsScore, error)
	DailyHigh(ctx context.Context, ticker string) (*float64, error)
	MarketBars(ctx context.Context, start time.Time) ([]model.Bar, error)
	TickerSnapshot(ctx context.Context, ticker string) (model.Snapshot, error)
}

// MoversSource lists the live top gainers.
type MoversSource interface {
	Gainers(ctx context.Context) ([]model.Candidate, error)
}

// GainerSource is the data a gainer pass needs. *polygon.Fetcher implements it.
type GainerSource interface {
	MoversSource
	GroupedDaily(ctx context.Context, day time.Time) ([]model.GroupedBar, error)
	MarketCap(ctx context.Context, ticker string) (float64, error)
	AverageVolume(ctx context.Context, ticker string, days int, before time.Time) (float64, error)
	News(ctx context.Context, ticker string) (model.NewsScore, error)
}

// Observer is told about skipped tickers. *observability.Metrics implements it.
type Observer interface {
	TickerSkipped(mode, reason string)
}

type nopObserver struct{}

func (nopObserver) TickerSkipped(string, string) {}

// Skip is one ticker left out of the table.
type Skip struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
	Error  string `json:"error,omitempty"`
}

// Stats summarises one pass.
type Stats struct {
	Tickers  int
	Rows     int
	Skipped  map[string]int
	Failures []Skip
}

func (s *Stats) skip(ticker, reason string, err error) {
	if s.Skipped == nil {
		s.Skipped = make(map[string]int)
	}
	s.Skipped[reason]++
	sk := Skip{Ticker: ticker, Reason: reason}
	if err != nil {
		sk.Error = err.Error()
	}
	s.Failures = append(s.Failures, sk)
}

// SkippedTotal returns the number of skipped tickers.
func (s Stats) SkippedTotal() int {
	var n int
	for _, v := range s.Skipped {
		n += v
	}
	return n
}

// outcome is one ticker's result. A row is nil when the ticker was skipped.
type outcome struct {
	row    *model.Row
	reason string
	err    error
}

// forEach runs build for every index on at most workers goroutines and
// keeps results in input order. Only context errors abort the pass.
func forEach(ctx context.Context, n, workers int, build func(ctx context.Context, i int) outcome) ([]outcome, error) {
	if workers < 1 {
		workers = DefaultWorkers
	}
	out := make([]outcome, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = build(gctx, i)
			if out[i].err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// collect drops skipped outcomes, logging and counting each one.
func collect(mode string, symbols []string, outcomes []outcome, obs Observer) ([]model.Row, Stats) {
	stats := Stats{Tickers: len(outcomes)}
	rows := make([]model.Row, 0, len(outcomes))
	for i, o := range outcomes {
		if o.row != nil {
			rows = append(rows, *o.row)
			continue
		}
		reason := o.reason
		if o.err != nil {
			reason = ReasonFetchError
			slog.Warn("skipping ticker", "mode", mode, "ticker", symbols[i], "reason", reason, "error", o.err)
		} else {
			slog.Debug("skipping ticker", "mode", mode, "ticker", symbols[i], "reason", reason)
		}
		stats.skip(symbols[i], reason, o.err)
		obs.TickerSkipped(mode, reason)
	}
	stats.Rows = len(rows)
	return rows, stats
}
