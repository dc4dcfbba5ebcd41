package polygon

import (
	"context"
	"fmt"
	"net/url"

	"premarket-scan/internal/model"
	"premarket-scan/internal/scoring"
)

// LastTrade returns the last trade price, or nil when none is reported.
func (f *Fetcher) LastTrade(ctx context.Context, ticker string) (*float64, error) {
	var resp lastTradeResponse
	path := fmt.Sprintf("/v3/trades/%s/last", url.PathEscape(ticker))
	if _, err := f.get(ctx, EndpointLastTrade, ticker, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil || resp.Results.Price == nil || *resp.Results.Price <= 0 {
		return nil, nil
	}
	return resp.Results.Price, nil
}

// Quote returns the last NBBO quote with spread and liquidity score.
func (f *Fetcher) Quote(ctx context.Context, ticker string) (model.QuoteStats, error) {
	var resp lastQuoteResponse
	path := fmt.Sprintf("/v3/quotes/%s/last", url.PathEscape(ticker))
	if _, err := f.get(ctx, EndpointLastQuote, ticker, path, nil, &resp); err != nil {
		return model.QuoteStats{}, err
	}
	var q model.QuoteStats
	if r := resp.Results; r != nil {
		q.Bid, q.Ask = r.BidPrice, r.AskPrice
		q.BidSize, q.AskSize = r.BidSize, r.AskSize
	}
	q.SpreadPct = scoring.SpreadPct(q.Bid, q.Ask)
	q.Liquidity = scoring.Liquidity(q)
	return q, nil
}
