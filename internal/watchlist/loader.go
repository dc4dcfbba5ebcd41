// Package watchlist loads the tickers of a watchlist scan.
package watchlist

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"premarket-scan/internal/model"
)

// symbolAliases are accepted in place of a symbol column, in priority order.
var symbolAliases = []string{"symbol", "sym", "ticker"}

// Load reads a watchlist file.
// Supported formats:
//   - .csv / .tsv : header row; columns symbol (or sym, ticker), entry, px, stop, t1, t2, score_10
//   - .txt        : one ticker per line, '#' lines are treated as comments
//   - .json       : JSON array of strings
//
// Symbols are trimmed and uppercased. Duplicates keep their first row.
// Rows with an empty symbol are kept so callers can count and skip them.
func Load(path string) ([]model.Ticker, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", path, err)
	}
	defer file.Close()

	var tickers []model.Ticker
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		tickers, err = parseDelimited(file, ',')
	case ".tsv":
		tickers, err = parseDelimited(file, '\t')
	case ".txt":
		tickers, err = parseText(file)
	case ".json":
		tickers, err = parseJSON(file)
	default:
		return nil, fmt.Errorf("unsupported watchlist extension %q (use .csv, .tsv, .txt or .json)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	tickers = dedupe(tickers)
	slog.Info("loaded watchlist", "count", len(tickers), "path", path)
	return tickers, nil
}

// parseDelimited reads a header row, lowercases it and maps the recognised
// columns onto Ticker fields.
func parseDelimited(r io.Reader, sep rune) ([]model.Ticker, error) {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	symCol := -1
	for _, alias := range symbolAliases {
		if i, ok := cols[alias]; ok {
			symCol = i
			break
		}
	}
	if symCol < 0 {
		return nil, fmt.Errorf("no symbol column (accepted: %s)", strings.Join(symbolAliases, ", "))
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []model.Ticker
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		var sym string
		if symCol < len(rec) {
			sym = rec[symCol]
		}
		out = append(out, model.Ticker{
			Symbol:    normalize(sym),
			Price:     parseDecimal(field(rec, "px")),
			Entry:     parseDecimal(field(rec, "entry")),
			Stop:      parseDecimal(field(rec, "stop")),
			Target1:   parseDecimal(field(rec, "t1")),
			Target2:   parseDecimal(field(rec, "t2")),
			BaseScore: parseFloat(field(rec, "score_10")),
		})
	}
	return out, nil
}

func parseText(r io.Reader) ([]model.Ticker, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var out []model.Ticker
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			out = append(out, model.Ticker{Symbol: normalize(line)})
		}
	}
	return out, nil
}

func parseJSON(r io.Reader) ([]model.Ticker, error) {
	var symbols []string
	if err := json.NewDecoder(r).Decode(&symbols); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	out := make([]model.Ticker, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, model.Ticker{Symbol: normalize(s)})
	}
	return out, nil
}

func normalize(sym string) string {
	return strings.ToUpper(strings.TrimSpace(sym))
}

func dedupe(in []model.Ticker) []model.Ticker {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, t := range in {
		if t.Symbol != "" {
			if seen[t.Symbol] {
				continue
			}
			seen[t.Symbol] = true
		}
		out = append(out, t)
	}
	return out
}

// parseDecimal treats blank and unparseable cells as absent. Non-positive
// prices are absent too.
func parseDecimal(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(s, "$"))
	if err != nil || !d.IsPositive() {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
