package model

import "github.com/shopspring/decimal"

// Conviction is the three-level label derived from confidence.
type Conviction string

const (
	ConvictionHigh   Conviction = "High"
	ConvictionMedium Conviction = "Medium"
	ConvictionLow    Conviction = "Low"
)

// Rank orders convictions for sorting: High=2, Medium=1, Low=0.
func (c Conviction) Rank() int {
	switch c {
	case ConvictionHigh:
		return 2
	case ConvictionMedium:
		return 1
	default:
		return 0
	}
}

// EntryZone is the price band a trade may be entered in.
type EntryZone struct {
	Low  decimal.NullDecimal
	High decimal.NullDecimal
}

// TradePlan holds stop, targets and risk/reward for one row.
type TradePlan struct {
	Entry      decimal.NullDecimal
	Stop       decimal.NullDecimal
	Target1    decimal.NullDecimal
	Target2    decimal.NullDecimal
	Zone       EntryZone
	RiskReward *float64
}

// Row is one line of the output table. It lives for a single scan pass.
type Row struct {
	Symbol     string
	Conviction Conviction
	Confidence float64
	Price      *float64
	Plan       TradePlan
	Premarket  PremarketStats
	SpreadPct  *float64
	BaseScore  *float64
	NewsScore  float64
	HasNews    bool

	// gainer scan only
	ChangePct float64
	RelVolume *float64
	MarketCap *float64
	DayVolume float64
	Source    string
}
