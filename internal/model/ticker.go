package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ticker is one watchlist entry. Optional columns stay invalid when the
// file leaves them blank or unparseable.
type Ticker struct {
	Symbol    string
	Price     decimal.NullDecimal // px column
	Entry     decimal.NullDecimal
	Stop      decimal.NullDecimal
	Target1   decimal.NullDecimal
	Target2   decimal.NullDecimal
	BaseScore *float64 // 0..10
}

// Candidate is an entry of the gainer universe.
type Candidate struct {
	Symbol    string
	Price     float64
	ChangePct float64
	Volume    float64
	Source    string // live | fallback
	// Session is the trading day of a fallback candidate; zero for live.
	Session time.Time
}

// Candidate sources.
const (
	SourceLive     = "live"
	SourceFallback = "fallback"
)
