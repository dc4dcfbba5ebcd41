package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"premarket-scan/internal/model"
)

// Table is a header row plus formatted cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

var watchlistHeaders = []string{
	"cv", "conf", "sym", "px", "entry", "stop", "T1", "T2", "zone", "rr",
	"pm_px", "pm_vwap", "pm_vol", "spread%", "score", "news",
}

// WatchlistTable sorts rows and formats them as the watchlist table.
func WatchlistTable(rows []model.Row) Table {
	SortWatchlist(rows)
	t := Table{Headers: watchlistHeaders, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			string(r.Conviction),
			strconv.FormatFloat(r.Confidence, 'f', 0, 64),
			r.Symbol,
			formatFloat(r.Price, 2),
			formatDecimal(r.Plan.Entry),
			formatDecimal(r.Plan.Stop),
			formatDecimal(r.Plan.Target1),
			formatDecimal(r.Plan.Target2),
			formatZone(r.Plan.Zone.Low, r.Plan.Zone.High),
			formatFloat(r.Plan.RiskReward, 2),
			formatFloat(r.Premarket.Price, 2),
			formatFloat(r.Premarket.VWAP, 2),
			FormatVolume(r.Premarket.Volume),
			formatFloat(r.SpreadPct, 2),
			formatFloat(r.BaseScore, 1),
			strconv.FormatBool(r.HasNews),
		})
	}
	return t
}

var gainerHeaders = []string{
	"sym", "cv", "conf", "px", "chg%", "rvol", "vol", "mcap", "news",
	"entry", "stop", "T1", "T2", "rr", "src",
}

// GainersTable sorts rows and formats them as the gainer table.
func GainersTable(rows []model.Row) Table {
	SortGainers(rows)
	t := Table{Headers: gainerHeaders, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Symbol,
			string(r.Conviction),
			strconv.FormatFloat(r.Confidence, 'f', 0, 64),
			formatFloat(r.Price, 2),
			strconv.FormatFloat(r.ChangePct, 'f', 2, 64),
			formatFloat(r.RelVolume, 2),
			FormatVolume(r.DayVolume),
			formatVolumePtr(r.MarketCap),
			strconv.FormatBool(r.HasNews),
			formatDecimal(r.Plan.Entry),
			formatDecimal(r.Plan.Stop),
			formatDecimal(r.Plan.Target1),
			formatDecimal(r.Plan.Target2),
			formatFloat(r.Plan.RiskReward, 2),
			r.Source,
		})
	}
	return t
}

// WriteMovers prints a UTC timestamp, one line per gainer and a dashed
// separator.
func WriteMovers(w io.Writer, now time.Time, movers []model.Candidate) error {
	if _, err := fmt.Fprintf(w, "\n%s UTC\n%6s %8s %6s\n", now.UTC().Format(time.DateTime), "TICKER", "PRICE", "%CHG"); err != nil {
		return err
	}
	for _, m := range movers {
		if _, err := fmt.Fprintf(w, "%6s %8.2f %6.2f\n", m.Symbol, m.Price, m.ChangePct); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "------------------------")
	return err
}
