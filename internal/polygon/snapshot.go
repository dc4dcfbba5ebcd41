package polygon

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"premarket-scan/internal/model"
)

// Gainers returns the live top gainers in the order Polygon ranks them.
// Entries without a usable price keep their rank with a zero Price.
func (f *Fetcher) Gainers(ctx context.Context) ([]model.Candidate, error) {
	var resp gainersResponse
	if _, err := f.get(ctx, EndpointGainers, "", "/v2/snapshot/locale/us/markets/stocks/gainers", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]model.Candidate, 0, len(resp.Tickers))
	for _, t := range resp.Tickers {
		out = append(out, model.Candidate{
			Symbol:    t.Ticker,
			Price:     max(t.price(), 0),
			ChangePct: t.TodaysChangePerc,
			Volume:    t.Day.Volume,
			Source:    model.SourceLive,
		})
	}
	return out, nil
}

// TickerSnapshot returns the live state of one ticker.
func (f *Fetcher) TickerSnapshot(ctx context.Context, ticker string) (model.Snapshot, error) {
	var resp tickerSnapshotResponse
	path := fmt.Sprintf("/v2/snapshot/locale/us/markets/stocks/tickers/%s", url.PathEscape(ticker))
	if _, err := f.get(ctx, EndpointTickerSnapshot, ticker, path, nil, &resp); err != nil {
		return model.Snapshot{}, err
	}
	if resp.Ticker == nil {
		return model.Snapshot{}, nil
	}
	s := model.Snapshot{
		ChangePct: resp.Ticker.TodaysChangePerc,
		DayVolume: resp.Ticker.Day.Volume,
	}
	if p := resp.Ticker.price(); p > 0 {
		s.Price = &p
	}
	if pc := resp.Ticker.PrevDay.Close; pc > 0 {
		s.PrevClose = &pc
	}
	return s, nil
}

// GroupedDaily returns one daily bar per ticker for the session on day.
// Weekends and holidays return no bars.
func (f *Fetcher) GroupedDaily(ctx context.Context, day time.Time) ([]model.GroupedBar, error) {
	path := fmt.Sprintf("/v2/aggs/grouped/locale/us/market/stocks/%s", day.Format(time.DateOnly))
	var resp groupedResponse
	if _, err := f.get(ctx, EndpointGroupedDaily, "", path, url.Values{"adjusted": {"true"}}, &resp); err != nil {
		return nil, err
	}
	out := make([]model.GroupedBar, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.Ticker == "" {
			continue
		}
		out = append(out, model.GroupedBar{Ticker: r.Ticker, Bar: r.ToBar()})
	}
	return out, nil
}

// MarketCap returns the reference market cap. Zero means unknown.
func (f *Fetcher) MarketCap(ctx context.Context, ticker string) (float64, error) {
	var resp tickerDetailsResponse
	path := fmt.Sprintf("/v3/reference/tickers/%s", url.PathEscape(ticker))
	if _, err := f.get(ctx, EndpointTickerDetails, ticker, path, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Results.MarketCap, nil
}
