package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"premarket-scan/internal/model"
)

func f(v float64) *float64 { return &v }

func TestNewsScore(t *testing.T) {
	tiers := DefaultTiers()

	assert.Equal(t, 0.0, NewsScore(nil, tiers))
	assert.Equal(t, 0.0, NewsScore([]string{"Company holds annual meeting"}, tiers))
	assert.InDelta(t, 0.5, NewsScore([]string{"Analyst UPGRADE to buy"}, tiers), 1e-9)
	assert.InDelta(t, 0.6, NewsScore([]string{"Q3 earnings beat"}, tiers), 1e-9)
	// one title hitting two tiers adds both weights, clamped
	assert.Equal(t, 1.0, NewsScore([]string{"FDA approval lifts guidance"}, tiers))
	// sums across titles
	assert.Equal(t, 1.0, NewsScore([]string{"contract win", "initiation at outperform"}, tiers))
	// several words of one tier count once per title
	assert.Equal(t, 1.0, NewsScore([]string{"merger and acquisition"}, tiers))
	assert.InDelta(t, 0.6, NewsScore([]string{"earnings and guidance"}, tiers), 1e-9)
}

func TestLiquidity(t *testing.T) {
	q := model.QuoteStats{SpreadPct: f(0), BidSize: f(1000), AskSize: f(1000)}
	assert.Equal(t, 1.0, Liquidity(q))

	q = model.QuoteStats{SpreadPct: f(5), BidSize: f(500), AskSize: f(500)}
	assert.InDelta(t, 0.25, Liquidity(q), 1e-9)

	q = model.QuoteStats{SpreadPct: f(12)}
	assert.Equal(t, 0.0, Liquidity(q))

	assert.Equal(t, 0.0, Liquidity(model.QuoteStats{}))
}

func TestSpreadPct(t *testing.T) {
	s := SpreadPct(f(10), f(10.1))
	require.NotNil(t, s)
	assert.InDelta(t, 1.0, *s, 1e-9)
	assert.Nil(t, SpreadPct(f(0), f(1)))
	assert.Nil(t, SpreadPct(nil, f(1)))
}

func TestFlow(t *testing.T) {
	assert.Equal(t, 0.0, Flow(model.PremarketStats{}))
	assert.InDelta(t, 0.5, Flow(model.PremarketStats{Volume: 2_500_000}), 1e-9)
	assert.InDelta(t, 0.6, Flow(model.PremarketStats{Volume: 2_500_000, Price: f(10), VWAP: f(9.5)}), 1e-9)
	assert.Equal(t, 1.0, Flow(model.PremarketStats{Volume: 9_000_000, Price: f(10), VWAP: f(9.5)}))
	assert.InDelta(t, 0.5, Flow(model.PremarketStats{Volume: 2_500_000, Price: f(9), VWAP: f(9.5)}), 1e-9)
}

func TestMarketBackdrop(t *testing.T) {
	assert.Equal(t, NeutralMarket, MarketBackdrop(nil))
	assert.Equal(t, 0.5, MarketBackdrop([]model.Bar{{Open: 100, Close: 100}}))
	assert.InDelta(t, 0.75, MarketBackdrop([]model.Bar{{Open: 100}, {Close: 100.25}}), 1e-9)
	assert.Equal(t, 1.0, MarketBackdrop([]model.Bar{{Open: 100}, {Close: 101}}))
	assert.Equal(t, 0.0, MarketBackdrop([]model.Bar{{Open: 100}, {Close: 99}}))
	// open missing falls back to the first close
	assert.InDelta(t, 0.75, MarketBackdrop([]model.Bar{{Close: 100}, {Close: 100.25}}), 1e-9)
	assert.Equal(t, NeutralMarket, MarketBackdrop([]model.Bar{{Open: 100}, {Close: 0}}))
}

func TestCompositeConfidence_Bounds(t *testing.T) {
	c := NewComposite()
	grid := []float64{-0.5, 0, 0.25, 0.5, 0.75, 1, 1.5}
	for _, b := range grid {
		for _, n := range grid {
			for _, fl := range grid {
				for _, l := range grid {
					for _, m := range grid {
						conf := c.Confidence(Inputs{Base: b, News: n, Flow: fl, Liquidity: l, Market: m})
						require.GreaterOrEqual(t, conf, 0.0)
						require.LessOrEqual(t, conf, 100.0+1e-9)
					}
				}
			}
		}
	}
	assert.InDelta(t, 100.0, c.Confidence(Inputs{Base: 1, News: 1, Flow: 1, Liquidity: 1, Market: 1}), 1e-9)
	assert.InDelta(t, 35.0, c.Confidence(Inputs{Base: 1}), 1e-9)
}

func TestConvictionFor_Bands(t *testing.T) {
	assert.Equal(t, model.ConvictionLow, ConvictionFor(0))
	assert.Equal(t, model.ConvictionLow, ConvictionFor(54.999))
	assert.Equal(t, model.ConvictionMedium, ConvictionFor(55))
	assert.Equal(t, model.ConvictionMedium, ConvictionFor(74.999))
	assert.Equal(t, model.ConvictionHigh, ConvictionFor(75))
	assert.Equal(t, model.ConvictionHigh, ConvictionFor(100))

	prev := ConvictionFor(0).Rank()
	for c := 0.0; c <= 100; c += 0.5 {
		r := ConvictionFor(c).Rank()
		require.GreaterOrEqual(t, r, prev, "conviction must not decrease at %v", c)
		prev = r
	}
}

func TestGainerConfidence(t *testing.T) {
	g := Gainer{}
	assert.Equal(t, 5.0, g.Confidence(Inputs{ChangePct: 10, RelVolume: 3}))
	assert.Equal(t, 7.0, g.Confidence(Inputs{ChangePct: 30, RelVolume: 3}))
	assert.Equal(t, 10.0, g.Confidence(Inputs{ChangePct: 200, RelVolume: 20}))
	assert.Equal(t, 1.0, g.Confidence(Inputs{ChangePct: -50, RelVolume: 0}))

	assert.Equal(t, model.ConvictionHigh, g.Conviction(8))
	assert.Equal(t, model.ConvictionMedium, g.Conviction(6))
	assert.Equal(t, model.ConvictionLow, g.Conviction(5))
}

func TestPolicyByName(t *testing.T) {
	p, err := PolicyByName("composite")
	require.NoError(t, err)
	assert.Equal(t, "composite", p.Name())

	p, err = PolicyByName("gainer")
	require.NoError(t, err)
	assert.Equal(t, "gainer", p.Name())

	_, err = PolicyByName("other")
	assert.Error(t, err)
}
