package scoring

import (
	"premarket-scan/internal/model"
)

const (
	// spread at or above this percent scores zero
	maxSpreadPct = 5.0
	// combined bid+ask size that scores one
	fullDepthSize = 2000.0
	// premarket volume that saturates the flow score
	fullFlowVolume = 5_000_000.0
	// bonus for trading at or above VWAP
	vwapBonus = 0.1
	// index move mapped onto [0,1] is -0.5%..+0.5%
	marketBandPct = 0.5
	// NeutralMarket is returned when the index has no data.
	NeutralMarket = 0.5
)

// Clamp01 limits v to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SpreadPct returns (ask-bid)/bid*100 when both sides are positive.
func SpreadPct(bid, ask *float64) *float64 {
	if bid == nil || ask == nil || *bid <= 0 || *ask <= 0 {
		return nil
	}
	s := (*ask - *bid) / *bid * 100
	return &s
}

// Liquidity averages a spread component and a depth component.
func Liquidity(q model.QuoteStats) float64 {
	var spreadScore, sizeScore float64
	if q.SpreadPct != nil {
		spreadScore = max(0, 1-*q.SpreadPct/maxSpreadPct)
	}
	if q.BidSize != nil || q.AskSize != nil {
		var total float64
		if q.BidSize != nil {
			total += *q.BidSize
		}
		if q.AskSize != nil {
			total += *q.AskSize
		}
		sizeScore = min(total/fullDepthSize, 1)
	}
	return Clamp01((spreadScore + sizeScore) / 2)
}

// Flow scores premarket volume, with a bonus when price holds VWAP.
func Flow(pm model.PremarketStats) float64 {
	var score float64
	if pm.Volume > 0 {
		score = min(pm.Volume/fullFlowVolume, 1)
	}
	if pm.Price != nil && pm.VWAP != nil && *pm.Price > 0 && *pm.VWAP > 0 && *pm.Price >= *pm.VWAP {
		score = min(score+vwapBonus, 1)
	}
	return score
}

// MarketBackdrop maps the index change since the first bar onto [0,1].
func MarketBackdrop(bars []model.Bar) float64 {
	if len(bars) == 0 {
		return NeutralMarket
	}
	first := bars[0].Open
	if first == 0 {
		first = bars[0].Close
	}
	last := bars[len(bars)-1].Close
	if first == 0 || last == 0 {
		return NeutralMarket
	}
	pct := (last - first) / first * 100
	return Clamp01((pct + marketBandPct) / (2 * marketBandPct))
}
