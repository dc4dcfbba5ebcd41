package polygon

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"premarket-scan/internal/model"
)

const (
	// only the first page of any endpoint is read
	minuteLimit = 5000
	dailyLimit  = 120
	// HighLookbackDays is the window of the recent-high target.
	HighLookbackDays = 30
)

func aggParams(sort string, limit int) url.Values {
	return url.Values{
		"adjusted": {"true"},
		"sort":     {sort},
		"limit":    {strconv.Itoa(limit)},
	}
}

func (f *Fetcher) minuteBars(ctx context.Context, ep Endpoint, ticker string, from, to time.Time) ([]model.Bar, error) {
	path := fmt.Sprintf("/v2/aggs/ticker/%s/range/1/minute/%d/%d", url.PathEscape(ticker), from.UnixMilli(), to.UnixMilli())
	var resp AggregatesResponse
	if _, err := f.get(ctx, ep, ticker, path, aggParams("asc", minuteLimit), &resp); err != nil {
		return nil, err
	}
	return resp.Bars(), nil
}

// MinuteBars returns 1-minute bars of ticker in [from, to], oldest first.
func (f *Fetcher) MinuteBars(ctx context.Context, ticker string, from, to time.Time) ([]model.Bar, error) {
	return f.minuteBars(ctx, EndpointMinuteAggs, ticker, from, to)
}

// Premarket aggregates minute bars from start until now. The last trade
// price, when available, replaces the last bar close.
func (f *Fetcher) Premarket(ctx context.Context, ticker string, start time.Time) (model.PremarketStats, error) {
	bars, err := f.MinuteBars(ctx, ticker, start, f.now())
	if err != nil {
		return model.PremarketStats{}, err
	}
	trade, err := f.LastTrade(ctx, ticker)
	if err != nil {
		return model.PremarketStats{}, err
	}
	return model.NewPremarketStats(bars, trade), nil
}

// MarketBars returns the backdrop index minute bars since start.
func (f *Fetcher) MarketBars(ctx context.Context, start time.Time) ([]model.Bar, error) {
	return f.minuteBars(ctx, EndpointMarketAggs, f.marketIndex, start, f.now())
}

// DailyBars returns daily bars of the last days calendar days, newest first.
func (f *Fetcher) DailyBars(ctx context.Context, ticker string, days int) ([]model.Bar, error) {
	end := f.now().In(NewYork())
	start := end.AddDate(0, 0, -days)
	path := fmt.Sprintf("/v2/aggs/ticker/%s/range/1/day/%s/%s",
		url.PathEscape(ticker), start.Format(time.DateOnly), end.Format(time.DateOnly))
	var resp AggregatesResponse
	if _, err := f.get(ctx, EndpointDailyAggs, ticker, path, aggParams("desc", dailyLimit), &resp); err != nil {
		return nil, err
	}
	return resp.Bars(), nil
}

// DailyHigh returns the highest daily high over the last 30 days, or nil
// when no bars are returned.
func (f *Fetcher) DailyHigh(ctx context.Context, ticker string) (*float64, error) {
	bars, err := f.DailyBars(ctx, ticker, HighLookbackDays)
	if err != nil || len(bars) == 0 {
		return nil, err
	}
	high := bars[0].High
	for _, b := range bars[1:] {
		high = max(high, b.High)
	}
	return &high, nil
}

// AverageVolume returns the mean daily volume over the last days, leaving
// out sessions on or after the day of before. A zero before means today, so
// the partial session is left out. Zero means unknown.
func (f *Fetcher) AverageVolume(ctx context.Context, ticker string, days int, before time.Time) (float64, error) {
	bars, err := f.DailyBars(ctx, ticker, days)
	if err != nil {
		return 0, err
	}
	if before.IsZero() {
		before = f.now()
	}
	before = before.In(NewYork())
	cutoff := time.Date(before.Year(), before.Month(), before.Day(), 0, 0, 0, 0, NewYork())
	var sum float64
	var n int
	for _, b := range bars {
		if !time.UnixMilli(b.Timestamp).Before(cutoff) {
			continue
		}
		sum += float64(b.Volume)
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}
