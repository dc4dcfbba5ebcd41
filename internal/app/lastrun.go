package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"premarket-scan/internal/model"
	"premarket-scan/internal/scan"
)

// writeRunReport writes .lastrun.{mode}.success.json (tickers with a row) and
// .lastrun.{mode}.skipped.json next to the snapshots. Each pass overwrites them.
func writeRunReport(saveDir, mode string, rows []model.Row, skipped []scan.Skip) error {
	if err := os.MkdirAll(saveDir, 0755); err != nil {
		return err
	}
	success := make([]string, 0, len(rows))
	for _, r := range rows {
		success = appendSuccess(success, r.Symbol)
	}
	if err := writeJSON(filepath.Join(saveDir, ".lastrun."+mode+".success.json"), success); err != nil {
		return err
	}
	if skipped == nil {
		skipped = []scan.Skip{}
	}
	p := filepath.Join(saveDir, ".lastrun."+mode+".skipped.json")
	if err := writeJSON(p, skipped); err != nil {
		return err
	}
	slog.Debug("report wrote", "path", p, "skipped", len(skipped))
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func appendSuccess(list []string, ticker string) []string {
	for _, t := range list {
		if t == ticker {
			return list
		}
	}
	return append(list, ticker)
}

// joinSkipReasons shortens the skip list for a log line: the first five
// entries, then a count of the rest.
func joinSkipReasons(skipped []scan.Skip) string {
	if len(skipped) == 0 {
		return ""
	}
	var b strings.Builder
	for i, s := range skipped {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(s.Ticker)
		b.WriteString(": ")
		b.WriteString(s.Reason)
		if i >= 4 && len(skipped) > 6 {
			b.WriteString(fmt.Sprintf(" (+%d more)", len(skipped)-5))
			break
		}
	}
	return b.String()
}
