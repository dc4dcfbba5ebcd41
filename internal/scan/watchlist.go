package scan

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"premarket-scan/internal/model"
	"premarket-scan/internal/scoring"
	"premarket-scan/internal/tradeplan"
)

// WatchlistOptions configures a watchlist pass. Zero values pick the
// composite confidence and recent-high trade plan.
type WatchlistOptions struct {
	Workers    int
	Confidence scoring.ConfidencePolicy
	Plan       tradeplan.Policy
	Observer   Observer
}

// Watchlist scores the tickers of a watchlist file.
type Watchlist struct {
	src  WatchlistSource
	opts WatchlistOptions
}

func NewWatchlist(src WatchlistSource, opts WatchlistOptions) *Watchlist {
	if opts.Confidence == nil {
		opts.Confidence = scoring.NewComposite()
	}
	if opts.Plan == nil {
		opts.Plan = tradeplan.NewRecentHigh()
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	return &Watchlist{src: src, opts: opts}
}

// Run builds one row per usable ticker. The market backdrop is fetched once
// per pass; failures of a single ticker skip it without failing the pass.
func (w *Watchlist) Run(ctx context.Context, tickers []model.Ticker, start time.Time) ([]model.Row, Stats, error) {
	market := scoring.NeutralMarket
	bars, err := w.src.MarketBars(ctx, start)
	switch {
	case ctx.Err() != nil:
		return nil, Stats{}, ctx.Err()
	case err != nil:
		slog.Warn("market backdrop unavailable, using neutral score", "error", err)
	default:
		market = scoring.MarketBackdrop(bars)
	}

	outcomes, err := forEach(ctx, len(tickers), w.opts.Workers, func(ctx context.Context, i int) outcome {
		return w.buildRow(ctx, tickers[i], start, market)
	})
	if err != nil {
		return nil, Stats{}, err
	}
	symbols := make([]string, len(tickers))
	for i, t := range tickers {
		symbols[i] = t.Symbol
	}
	rows, stats := collect(ModeWatchlist, symbols, outcomes, w.opts.Observer)
	return rows, stats, nil
}

func (w *Watchlist) buildRow(ctx context.Context, t model.Ticker, start time.Time, market float64) outcome {
	if t.Symbol == "" {
		return outcome{reason: ReasonEmptySymbol}
	}

	pm, err := w.src.Premarket(ctx, t.Symbol, start)
	if err != nil {
		return outcome{err: err}
	}
	quote, err := w.src.Quote(ctx, t.Symbol)
	if err != nil {
		return outcome{err: err}
	}
	news, err := w.src.News(ctx, t.Symbol)
	if err != nil {
		return outcome{err: err}
	}

	in := scoring.Inputs{
		News:      news.Score,
		Flow:      scoring.Flow(pm),
		Liquidity: quote.Liquidity,
		Market:    market,
	}
	if t.BaseScore != nil {
		in.Base = *t.BaseScore / 10
	}
	confidence := w.opts.Confidence.Confidence(in)

	entry, ok, err := w.resolveEntry(ctx, t, pm)
	if err != nil {
		return outcome{err: err}
	}
	if !ok {
		return outcome{reason: ReasonNoPrice}
	}

	planIn := tradeplan.Inputs{
		Entry:   entry,
		VWAP:    pm.VWAP,
		Stop:    t.Stop,
		Target1: t.Target1,
		Target2: t.Target2,
	}
	if w.opts.Plan.NeedsHigh(planIn) {
		high, err := w.src.DailyHigh(ctx, t.Symbol)
		if err != nil {
			return outcome{err: err}
		}
		planIn.High = high
	}

	price := pm.Price
	if t.Price.Valid {
		p := t.Price.Decimal.InexactFloat64()
		price = &p
	}
	if price == nil {
		p := entry.InexactFloat64()
		price = &p
	}

	return outcome{row: &model.Row{
		Symbol:     t.Symbol,
		Conviction: w.opts.Confidence.Conviction(confidence),
		Confidence: confidence,
		Price:      price,
		Plan:       w.opts.Plan.Plan(planIn),
		Premarket:  pm,
		SpreadPct:  quote.SpreadPct,
		BaseScore:  t.BaseScore,
		NewsScore:  news.Score,
		HasNews:    news.HasNews,
	}}
}

// resolveEntry picks the entry column, then px, then the premarket price,
// then the live snapshot price.
func (w *Watchlist) resolveEntry(ctx context.Context, t model.Ticker, pm model.PremarketStats) (decimal.Decimal, bool, error) {
	switch {
	case t.Entry.Valid:
		return t.Entry.Decimal, true, nil
	case t.Price.Valid:
		return t.Price.Decimal, true, nil
	case pm.Price != nil && *pm.Price > 0:
		return decimal.NewFromFloat(*pm.Price), true, nil
	}
	snap, err := w.src.TickerSnapshot(ctx, t.Symbol)
	if err != nil {
		return decimal.Decimal{}, false, err
	}
	if snap.Price == nil || *snap.Price <= 0 {
		return decimal.Decimal{}, false, nil
	}
	return decimal.NewFromFloat(*snap.Price), true, nil
}
