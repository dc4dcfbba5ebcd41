package saver

import (
	"encoding/csv"
	"os"
	"strconv"
)

var csvHeader = []string{
	"run_id", "mode", "scanned_at", "symbol", "conviction", "confidence", "price",
	"entry", "stop", "t1", "t2", "zone_low", "zone_high", "rr",
	"pm_price", "pm_vwap", "pm_volume", "spread_pct", "score_10", "news_score", "has_news",
	"change_pct", "rvol", "market_cap", "day_volume", "source",
}

// CSVSaver writes records as CSV with a header row. Absent values are empty cells.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(records []Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)

	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write([]string{
			r.RunID,
			r.Mode,
			strconv.FormatInt(r.ScannedAt, 10),
			r.Symbol,
			r.Conviction,
			floatStr(r.Confidence),
			optStr(r.Price),
			optStr(r.Entry),
			optStr(r.Stop),
			optStr(r.Target1),
			optStr(r.Target2),
			optStr(r.ZoneLow),
			optStr(r.ZoneHigh),
			optStr(r.RiskReward),
			optStr(r.PremarketPrice),
			optStr(r.PremarketVWAP),
			floatStr(r.PremarketVolume),
			optStr(r.SpreadPct),
			optStr(r.BaseScore),
			floatStr(r.NewsScore),
			strconv.FormatBool(r.HasNews),
			floatStr(r.ChangePct),
			optStr(r.RelVolume),
			optStr(r.MarketCap),
			floatStr(r.DayVolume),
			r.Source,
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func optStr(f *float64) string {
	if f == nil {
		return ""
	}
	return floatStr(*f)
}
