// Package tradeplan derives stop, targets, entry zone and risk/reward from
// an entry price.
package tradeplan

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"premarket-scan/internal/model"
)

var (
	defaultStop      = decimal.RequireFromString("0.97")
	defaultTarget1   = decimal.RequireFromString("1.05")
	defaultTarget2   = decimal.RequireFromString("1.10")
	defaultExtension = decimal.RequireFromString("1.05")
)

// Inputs are everything a policy may use. Entry must be positive.
type Inputs struct {
	Entry   decimal.Decimal
	VWAP    *float64
	Stop    decimal.NullDecimal
	Target1 decimal.NullDecimal
	Target2 decimal.NullDecimal
	// High is the recent high, read by RecentHigh only.
	High *float64
}

// Policy is a named trade-plan rule.
type Policy interface {
	Name() string
	// NeedsHigh reports whether Plan would read Inputs.High.
	NeedsHigh(in Inputs) bool
	Plan(in Inputs) model.TradePlan
}

// PercentOffset sets stop and targets at fixed multiples of entry.
type PercentOffset struct {
	Stop    decimal.Decimal
	Target1 decimal.Decimal
	Target2 decimal.Decimal
}

// NewPercentOffset returns the -3% / +5% / +10% policy.
func NewPercentOffset() PercentOffset {
	return PercentOffset{Stop: defaultStop, Target1: defaultTarget1, Target2: defaultTarget2}
}

func (PercentOffset) Name() string { return "percent-offset" }

func (PercentOffset) NeedsHigh(Inputs) bool { return false }

func (p PercentOffset) Plan(in Inputs) model.TradePlan {
	return finish(in,
		valid(in.Entry.Mul(p.Stop).Round(2)),
		valid(in.Entry.Mul(p.Target1).Round(2)),
		valid(in.Entry.Mul(p.Target2).Round(2)),
	)
}

// RecentHigh keeps explicit levels and fills the missing ones: the stop at
// a fixed fraction of entry, T1 at the recent high and T2 above it.
type RecentHigh struct {
	Stop      decimal.Decimal
	Extension decimal.Decimal
}

// NewRecentHigh returns the -3% stop, high and high*1.05 policy.
func NewRecentHigh() RecentHigh {
	return RecentHigh{Stop: defaultStop, Extension: defaultExtension}
}

func (RecentHigh) Name() string { return "recent-high" }

func (RecentHigh) NeedsHigh(in Inputs) bool {
	return !in.Target1.Valid || !in.Target2.Valid
}

func (p RecentHigh) Plan(in Inputs) model.TradePlan {
	stop, t1, t2 := in.Stop, in.Target1, in.Target2
	if !stop.Valid {
		stop = valid(in.Entry.Mul(p.Stop).Round(2))
	}
	if in.High != nil && *in.High > 0 {
		high := decimal.NewFromFloat(*in.High)
		if !t1.Valid {
			t1 = valid(high.Round(2))
		}
		if !t2.Valid {
			t2 = valid(high.Mul(p.Extension).Round(2))
		}
	}
	return finish(in, stop, t1, t2)
}

// finish fills entry, zone and risk/reward.
func finish(in Inputs, stop, t1, t2 decimal.NullDecimal) model.TradePlan {
	plan := model.TradePlan{
		Entry:   valid(in.Entry.Round(2)),
		Stop:    stop,
		Target1: t1,
		Target2: t2,
		Zone:    Zone(in.Entry, in.VWAP),
	}
	plan.RiskReward = RiskReward(in.Entry, stop, t1)
	return plan
}

// Zone is [min(entry, vwap), max(entry, vwap)], or [entry, entry] without VWAP.
func Zone(entry decimal.Decimal, vwap *float64) model.EntryZone {
	lo, hi := entry.Round(2), entry.Round(2)
	if vwap != nil && *vwap > 0 {
		v := decimal.NewFromFloat(*vwap).Round(2)
		lo, hi = decimal.Min(lo, v), decimal.Max(hi, v)
	}
	return model.EntryZone{Low: valid(lo), High: valid(hi)}
}

// RiskReward is (t1-entry)/(entry-stop) rounded to 2 places. It is nil
// unless entry sits above the stop and T1 is known.
func RiskReward(entry decimal.Decimal, stop, t1 decimal.NullDecimal) *float64 {
	if !stop.Valid || !t1.Valid || !entry.GreaterThan(stop.Decimal) {
		return nil
	}
	rr := t1.Decimal.Sub(entry).Div(entry.Sub(stop.Decimal)).InexactFloat64()
	rr = math.Round(rr*100) / 100
	return &rr
}

// ByName returns the policy registered under name.
func ByName(name string) (Policy, error) {
	switch name {
	case "percent-offset":
		return NewPercentOffset(), nil
	case "recent-high":
		return NewRecentHigh(), nil
	default:
		return nil, fmt.Errorf("unknown trade plan policy %q (use: percent-offset, recent-high)", name)
	}
}

func valid(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
