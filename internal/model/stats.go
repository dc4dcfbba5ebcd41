package model

// AliveVolume is the premarket volume a ticker must exceed to count as alive.
const AliveVolume = 10_000

// PremarketStats summarises minute bars from the premarket start until now.
type PremarketStats struct {
	Price  *float64
	VWAP   *float64
	Volume float64
	Alive  bool
}

// NewPremarketStats derives VWAP, last close and liveness from minute bars.
// A last trade price, when known, replaces the last close.
func NewPremarketStats(bars []Bar, lastTrade *float64) PremarketStats {
	var vol, pv float64
	for _, b := range bars {
		v := float64(b.Volume)
		vol += v
		pv += b.Close * v
	}
	st := PremarketStats{Volume: vol, Alive: vol > AliveVolume}
	if vol > 0 {
		vwap := pv / vol
		st.VWAP = &vwap
	}
	if len(bars) > 0 {
		last := bars[len(bars)-1].Close
		st.Price = &last
	}
	if lastTrade != nil {
		p := *lastTrade
		st.Price = &p
	}
	return st
}

// QuoteStats is the last NBBO quote with its derived spread and liquidity.
type QuoteStats struct {
	Bid       *float64
	Ask       *float64
	BidSize   *float64
	AskSize   *float64
	SpreadPct *float64
	Liquidity float64
}

// NewsScore is the catalyst weight of recent headlines.
type NewsScore struct {
	Score    float64
	HasNews  bool
	Articles int
}

// Snapshot is the live state of one ticker.
type Snapshot struct {
	Price     *float64
	ChangePct float64
	DayVolume float64
	PrevClose *float64
}
