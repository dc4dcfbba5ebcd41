package saver

import (
	"time"

	"github.com/shopspring/decimal"

	"premarket-scan/internal/model"
)

// Record is the flat DTO written by every saver (CSV/Parquet/JSON).
// Optional columns are pointers.
type Record struct {
	RunID           string   `json:"run_id" parquet:"run_id"`
	Mode            string   `json:"mode" parquet:"mode"`
	ScannedAt       int64    `json:"scanned_at" parquet:"scanned_at"`
	Symbol          string   `json:"symbol" parquet:"symbol"`
	Conviction      string   `json:"conviction" parquet:"conviction"`
	Confidence      float64  `json:"confidence" parquet:"confidence"`
	Price           *float64 `json:"price,omitempty" parquet:"price"`
	Entry           *float64 `json:"entry,omitempty" parquet:"entry"`
	Stop            *float64 `json:"stop,omitempty" parquet:"stop"`
	Target1         *float64 `json:"t1,omitempty" parquet:"t1"`
	Target2         *float64 `json:"t2,omitempty" parquet:"t2"`
	ZoneLow         *float64 `json:"zone_low,omitempty" parquet:"zone_low"`
	ZoneHigh        *float64 `json:"zone_high,omitempty" parquet:"zone_high"`
	RiskReward      *float64 `json:"rr,omitempty" parquet:"rr"`
	PremarketPrice  *float64 `json:"pm_price,omitempty" parquet:"pm_price"`
	PremarketVWAP   *float64 `json:"pm_vwap,omitempty" parquet:"pm_vwap"`
	PremarketVolume float64  `json:"pm_volume" parquet:"pm_volume"`
	SpreadPct       *float64 `json:"spread_pct,omitempty" parquet:"spread_pct"`
	BaseScore       *float64 `json:"score_10,omitempty" parquet:"score_10"`
	NewsScore       float64  `json:"news_score" parquet:"news_score"`
	HasNews         bool     `json:"has_news" parquet:"has_news"`
	ChangePct       float64  `json:"change_pct" parquet:"change_pct"`
	RelVolume       *float64 `json:"rvol,omitempty" parquet:"rvol"`
	MarketCap       *float64 `json:"market_cap,omitempty" parquet:"market_cap"`
	DayVolume       float64  `json:"day_volume" parquet:"day_volume"`
	Source          string   `json:"source,omitempty" parquet:"source,optional"`
}

// NewRecords flattens the rows of one pass. ScannedAt is unix milliseconds.
func NewRecords(runID, mode string, at time.Time, rows []model.Row) []Record {
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, Record{
			RunID:           runID,
			Mode:            mode,
			ScannedAt:       at.UnixMilli(),
			Symbol:          r.Symbol,
			Conviction:      string(r.Conviction),
			Confidence:      r.Confidence,
			Price:           copyFloat(r.Price),
			Entry:           nullFloat(r.Plan.Entry),
			Stop:            nullFloat(r.Plan.Stop),
			Target1:         nullFloat(r.Plan.Target1),
			Target2:         nullFloat(r.Plan.Target2),
			ZoneLow:         nullFloat(r.Plan.Zone.Low),
			ZoneHigh:        nullFloat(r.Plan.Zone.High),
			RiskReward:      copyFloat(r.Plan.RiskReward),
			PremarketPrice:  copyFloat(r.Premarket.Price),
			PremarketVWAP:   copyFloat(r.Premarket.VWAP),
			PremarketVolume: r.Premarket.Volume,
			SpreadPct:       copyFloat(r.SpreadPct),
			BaseScore:       copyFloat(r.BaseScore),
			NewsScore:       r.NewsScore,
			HasNews:         r.HasNews,
			ChangePct:       r.ChangePct,
			RelVolume:       copyFloat(r.RelVolume),
			MarketCap:       copyFloat(r.MarketCap),
			DayVolume:       r.DayVolume,
			Source:          r.Source,
		})
	}
	return out
}

func nullFloat(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
