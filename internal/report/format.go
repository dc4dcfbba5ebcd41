package report

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

var volumeUnits = []struct {
	suffix string
	div    float64
}{
	{"B", 1e9},
	{"M", 1e6},
	{"K", 1e3},
}

// FormatVolume abbreviates v with a B, M or K suffix and one decimal.
// Values under a thousand print as a plain integer.
func FormatVolume(v float64) string {
	for _, u := range volumeUnits {
		if v >= u.div {
			return fmt.Sprintf("%.1f%s", v/u.div, u.suffix)
		}
	}
	return fmt.Sprintf("%.0f", v)
}

func formatFloat(v *float64, prec int) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

func formatDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}

func formatVolumePtr(v *float64) string {
	if v == nil {
		return ""
	}
	return FormatVolume(*v)
}

func formatZone(lo, hi decimal.NullDecimal) string {
	if !lo.Valid || !hi.Valid {
		return ""
	}
	if lo.Decimal.Equal(hi.Decimal) {
		return lo.Decimal.StringFixed(2)
	}
	return lo.Decimal.StringFixed(2) + "-" + hi.Decimal.StringFixed(2)
}
