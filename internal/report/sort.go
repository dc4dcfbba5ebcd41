// Package report sorts scan rows and renders them as a table.
package report

import (
	"math"
	"sort"

	"premarket-scan/internal/model"
)

// SortWatchlist orders rows by conviction, then confidence as printed (whole
// points), then premarket volume, all descending. Ties keep their input order.
func SortWatchlist(rows []model.Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if ra, rb := a.Conviction.Rank(), b.Conviction.Rank(); ra != rb {
			return ra > rb
		}
		if ca, cb := math.Round(a.Confidence), math.Round(b.Confidence); ca != cb {
			return ca > cb
		}
		return a.Premarket.Volume > b.Premarket.Volume
	})
}

// SortGainers orders rows by percent change, descending.
func SortGainers(rows []model.Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ChangePct > rows[j].ChangePct
	})
}
