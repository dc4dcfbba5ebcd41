package polygon

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"premarket-scan/internal/model"
	"premarket-scan/internal/scoring"
)

const (
	newsWindow = 36 * time.Hour
	newsLimit  = 50
)

// NewsTitles returns headlines published in the last 36 hours, newest first.
func (f *Fetcher) NewsTitles(ctx context.Context, ticker string) ([]string, error) {
	params := url.Values{
		"ticker":            {ticker},
		"published_utc.gte": {f.now().UTC().Add(-newsWindow).Format(time.RFC3339)},
		"order":             {"desc"},
		"limit":             {strconv.Itoa(newsLimit)},
	}
	var resp newsResponse
	if _, err := f.get(ctx, EndpointNews, ticker, "/v2/reference/news", params, &resp); err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(resp.Results))
	for _, a := range resp.Results {
		titles = append(titles, a.Title)
	}
	return titles, nil
}

// News scores recent headlines against the catalyst keyword tiers.
func (f *Fetcher) News(ctx context.Context, ticker string) (model.NewsScore, error) {
	titles, err := f.NewsTitles(ctx, ticker)
	if err != nil {
		return model.NewsScore{}, err
	}
	return model.NewsScore{
		Score:    scoring.NewsScore(titles, f.tiers),
		HasNews:  len(titles) > 0,
		Articles: len(titles),
	}, nil
}
