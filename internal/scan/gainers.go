package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"premarket-scan/internal/model"
	"premarket-scan/internal/polygon"
	"premarket-scan/internal/scoring"
	"premarket-scan/internal/tradeplan"
)

// Gainer filter defaults.
const (
	DefaultMinPrice      = 1.0
	DefaultMaxPrice      = 20.0
	DefaultMinChange     = 10.0
	DefaultMinVolume     = 1_000_000.0
	DefaultLookbackDays  = 5
	DefaultAvgVolumeDays = 30
)

// GainerOptions configures a gainer pass. MaxPrice <= 0 disables the upper
// price bound.
type GainerOptions struct {
	MinPrice      float64
	MaxPrice      float64
	MinChange     float64
	MinVolume     float64
	ForceFallback bool
	LookbackDays  int
	AvgVolumeDays int
	NoNews        bool

	Workers    int
	Confidence scoring.ConfidencePolicy
	Plan       tradeplan.Policy
	Observer   Observer
	Now        func() time.Time
}

// DefaultGainerOptions returns the default filters with the gainer confidence
// and percent-offset trade plan.
func DefaultGainerOptions() GainerOptions {
	return GainerOptions{
		MinPrice:      DefaultMinPrice,
		MaxPrice:      DefaultMaxPrice,
		MinChange:     DefaultMinChange,
		MinVolume:     DefaultMinVolume,
		LookbackDays:  DefaultLookbackDays,
		AvgVolumeDays: DefaultAvgVolumeDays,
	}
}

// Gainers scans the day's top gainers, falling back to grouped daily bars
// when the live list is empty.
type Gainers struct {
	src  GainerSource
	opts GainerOptions
}

func NewGainers(src GainerSource, opts GainerOptions) *Gainers {
	if opts.Confidence == nil {
		opts.Confidence = scoring.Gainer{}
	}
	if opts.Plan == nil {
		opts.Plan = tradeplan.NewPercentOffset()
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.LookbackDays < 1 {
		opts.LookbackDays = DefaultLookbackDays
	}
	if opts.AvgVolumeDays < 1 {
		opts.AvgVolumeDays = DefaultAvgVolumeDays
	}
	return &Gainers{src: src, opts: opts}
}

// Run builds the universe, filters it and scores every remaining candidate.
// A failure to build the universe fails the pass.
func (g *Gainers) Run(ctx context.Context) ([]model.Row, Stats, error) {
	universe, err := g.Universe(ctx)
	if err != nil {
		return nil, Stats{}, err
	}
	outcomes, err := forEach(ctx, len(universe), g.opts.Workers, func(ctx context.Context, i int) outcome {
		return g.buildRow(ctx, universe[i])
	})
	if err != nil {
		return nil, Stats{}, err
	}
	symbols := make([]string, len(universe))
	for i, c := range universe {
		symbols[i] = c.Symbol
	}
	rows, stats := collect(ModeGainers, symbols, outcomes, g.opts.Observer)
	return rows, stats, nil
}

// Universe returns the filtered candidates, live when available.
func (g *Gainers) Universe(ctx context.Context) ([]model.Candidate, error) {
	var liveErr error
	if !g.opts.ForceFallback {
		live, err := g.src.Gainers(ctx)
		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			liveErr = err
			slog.Warn("live gainers unavailable, using grouped daily fallback", "error", err)
		case len(live) > 0:
			slog.Info("gainer universe", "source", model.SourceLive, "candidates", len(live))
			return g.Filter(live), nil
		default:
			slog.Info("live gainers empty, using grouped daily fallback")
		}
	}

	fallback, err := g.fallback(ctx)
	if err != nil {
		return nil, errors.Join(liveErr, err)
	}
	slog.Info("gainer universe", "source", model.SourceFallback, "candidates", len(fallback))
	return g.Filter(fallback), nil
}

// fallback walks back from yesterday to the latest session with grouped
// bars. Change is measured against the prior session's close when one is
// found in the same window, otherwise against the session open.
func (g *Gainers) fallback(ctx context.Context) ([]model.Candidate, error) {
	now := g.opts.Now().In(polygon.NewYork())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, polygon.NewYork())

	var session []model.GroupedBar
	var sessionDay time.Time
	var prev map[string]float64
	for d := 1; d <= g.opts.LookbackDays; d++ {
		day := today.AddDate(0, 0, -d)
		bars, err := g.src.GroupedDaily(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("grouped daily %s: %w", day.Format(time.DateOnly), err)
		}
		if len(bars) == 0 {
			continue
		}
		if session == nil {
			session, sessionDay = bars, day
			slog.Debug("fallback session", "date", day.Format(time.DateOnly), "tickers", len(bars))
			continue
		}
		prev = make(map[string]float64, len(bars))
		for _, b := range bars {
			prev[b.Ticker] = b.Close
		}
		break
	}

	out := make([]model.Candidate, 0, len(session))
	for _, b := range session {
		ref := prev[b.Ticker]
		if ref <= 0 {
			ref = b.Open
		}
		if ref <= 0 || b.Close <= 0 {
			continue
		}
		out = append(out, model.Candidate{
			Symbol:    b.Ticker,
			Price:     b.Close,
			ChangePct: (b.Close - ref) / ref * 100,
			Volume:    float64(b.Volume),
			Source:    model.SourceFallback,
			Session:   sessionDay,
		})
	}
	return out, nil
}

// Filter keeps candidates inside the price band with enough change and volume.
func (g *Gainers) Filter(cands []model.Candidate) []model.Candidate {
	out := make([]model.Candidate, 0, len(cands))
	for _, c := range cands {
		if c.Symbol == "" || c.Price < g.opts.MinPrice {
			continue
		}
		if g.opts.MaxPrice > 0 && c.Price > g.opts.MaxPrice {
			continue
		}
		if c.ChangePct < g.opts.MinChange || c.Volume < g.opts.MinVolume {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (g *Gainers) buildRow(ctx context.Context, c model.Candidate) outcome {
	if c.Price <= 0 {
		return outcome{reason: ReasonNoPrice}
	}
	if c.Volume <= 0 {
		return outcome{reason: ReasonNoVolume}
	}

	mcap, err := g.src.MarketCap(ctx, c.Symbol)
	if err != nil {
		return outcome{err: err}
	}
	if mcap <= 0 {
		return outcome{reason: ReasonNoMarketCap}
	}

	avg, err := g.src.AverageVolume(ctx, c.Symbol, g.opts.AvgVolumeDays, c.Session)
	if err != nil {
		return outcome{err: err}
	}
	if avg <= 0 {
		return outcome{reason: ReasonNoAvgVolume}
	}
	rvol := c.Volume / avg

	var news model.NewsScore
	if !g.opts.NoNews {
		news, err = g.src.News(ctx, c.Symbol)
		if err != nil {
			return outcome{err: err}
		}
	}

	confidence := g.opts.Confidence.Confidence(scoring.Inputs{
		News:      news.Score,
		ChangePct: c.ChangePct,
		RelVolume: rvol,
	})
	price := c.Price
	return outcome{row: &model.Row{
		Symbol:     c.Symbol,
		Conviction: g.opts.Confidence.Conviction(confidence),
		Confidence: confidence,
		Price:      &price,
		Plan:       g.opts.Plan.Plan(tradeplan.Inputs{Entry: decimal.NewFromFloat(price)}),
		NewsScore:  news.Score,
		HasNews:    news.HasNews,
		ChangePct:  c.ChangePct,
		RelVolume:  &rvol,
		MarketCap:  &mcap,
		DayVolume:  c.Volume,
		Source:     c.Source,
	}}
}

// TopMovers returns the first n live gainers in Polygon's order. Entries
// of those n without a symbol or price are left out, not replaced.
func TopMovers(ctx context.Context, src MoversSource, n int) ([]model.Candidate, error) {
	live, err := src.Gainers(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(live) > n {
		live = live[:n]
	}
	out := make([]model.Candidate, 0, len(live))
	for _, c := range live {
		if c.Symbol == "" || c.Price <= 0 {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
