package polygon

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"
	"time"
	_ "time/tzdata"

	"premarket-scan/internal/scoring"
)

// DefaultMarketIndex is the symbol used for the market backdrop.
const DefaultMarketIndex = "SPY"

var (
	nyOnce sync.Once
	nyLoc  *time.Location
)

// NewYork returns the exchange timezone.
func NewYork() *time.Location {
	nyOnce.Do(func() {
		loc, err := time.LoadLocation("America/New_York")
		if err != nil {
			// tzdata is embedded, so this only happens on a broken build
			panic(err)
		}
		nyLoc = loc
	})
	return nyLoc
}

// Getter is the request surface the fetchers depend on. *Client implements it.
type Getter interface {
	Get(ctx context.Context, ep Endpoint, path string, params url.Values, out any) error
}

// Fetcher maps Polygon endpoints onto typed records. The failure policy of
// every endpoint is fixed when the Fetcher is built.
type Fetcher struct {
	client      Getter
	policies    Policies
	marketIndex string
	tiers       []scoring.KeywordTier
	now         func() time.Time
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithMarketIndex sets the backdrop symbol.
func WithMarketIndex(symbol string) FetcherOption {
	return func(f *Fetcher) {
		if symbol != "" {
			f.marketIndex = symbol
		}
	}
}

// WithKeywordTiers overrides the news catalyst tiers.
func WithKeywordTiers(tiers []scoring.KeywordTier) FetcherOption {
	return func(f *Fetcher) {
		if len(tiers) > 0 {
			f.tiers = tiers
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) FetcherOption {
	return func(f *Fetcher) { f.now = now }
}

func NewFetcher(client Getter, policies Policies, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      client,
		policies:    policies,
		marketIndex: DefaultMarketIndex,
		tiers:       scoring.DefaultTiers(),
		now:         time.Now,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// get runs one request and applies the endpoint policy. A nil return with a
// tolerant failure leaves out untouched, so callers read the zero record.
func (f *Fetcher) get(ctx context.Context, ep Endpoint, ticker, path string, params url.Values, out any) (bool, error) {
	err := f.client.Get(ctx, ep, path, params, out)
	if err == nil {
		return true, nil
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false, err
	}
	if f.policies.For(ep) == Tolerant {
		slog.Debug("fetch failed, using empty record", "endpoint", ep, "ticker", ticker, "error", err)
		return false, nil
	}
	return false, err
}
