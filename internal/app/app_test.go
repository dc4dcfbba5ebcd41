package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"premarket-scan/internal/model"
	"premarket-scan/internal/observability"
	"premarket-scan/internal/polygon"
	"premarket-scan/internal/report"
	"premarket-scan/internal/saver"
	"premarket-scan/internal/scan"
)

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("POLYGON_API_KEYS", " k1 , ,k2")
	t.Setenv("POLYGON_MIN_INTERVAL", "12")
	t.Setenv("HTTP_TIMEOUT", "1500ms")
	t.Setenv("WORKERS", "8")
	t.Setenv("SCAN_ALLOW_NO_KEY", "true")
	t.Setenv("SAVE_FORMAT", "")
	t.Setenv("PROFILE", "dev")
	t.Setenv("SCAN_CONFIG", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k2"}, cfg.PolygonAPIKeys)
	assert.Equal(t, 12*time.Second, cfg.MinRequestInterval)
	assert.Equal(t, 1500*time.Millisecond, cfg.HTTPTimeout)
	assert.Equal(t, 8, cfg.Workers)
	assert.True(t, cfg.AllowNoKey)
	assert.Equal(t, "csv", cfg.SaveFormat)

	pc := cfg.PolygonConfig()
	assert.Equal(t, cfg.PolygonAPIKeys, pc.APIKeys)
	assert.Equal(t, 8, pc.Workers)
}

func TestLoadConfig_SingleKeyFallback(t *testing.T) {
	t.Setenv("POLYGON_API_KEYS", "")
	t.Setenv("POLYGON_API_KEY", "solo")
	t.Setenv("SCAN_CONFIG", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"solo"}, cfg.PolygonAPIKeys)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("SCAN_CONFIG", "")
	t.Setenv("WORKERS", "many")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "WORKERS")

	t.Setenv("WORKERS", "")
	t.Setenv("HTTP_TIMEOUT", "soon")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "HTTP_TIMEOUT")
}

func TestLoadConfig_YAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
market_index: qqq
keywords:
  - weight: 1.0
    words: [" FDA ", offering]
gainers:
  min_price: 2
  lookback_days: 7
`), 0644))
	t.Setenv("SCAN_CONFIG", path)
	t.Setenv("MARKET_INDEX", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "QQQ", cfg.MarketIndex)
	require.Len(t, cfg.KeywordTiers, 1)
	assert.Equal(t, []string{"fda", "offering"}, cfg.KeywordTiers[0].Words)
	assert.Equal(t, 2.0, cfg.Gainers.MinPrice)
	assert.Equal(t, scan.DefaultMaxPrice, cfg.Gainers.MaxPrice)
	assert.Equal(t, 7, cfg.Gainers.LookbackDays)
	assert.Equal(t, PolicyNames{Confidence: "composite", TradePlan: "recent-high"}, cfg.WatchlistPolicies)
	assert.Equal(t, PolicyNames{Confidence: "gainer", TradePlan: "percent-offset"}, cfg.GainerPolicies)
}

func TestLoadConfig_YAMLExplicitZeroAndPolicies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
watchlist:
  trade_plan: Percent-Offset
gainers:
  confidence: composite
  trade_plan: recent-high
  max_price: 0
  min_change: 0
`), 0644))
	t.Setenv("SCAN_CONFIG", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Zero(t, cfg.Gainers.MaxPrice)
	assert.Zero(t, cfg.Gainers.MinChange)
	assert.Equal(t, scan.DefaultMinPrice, cfg.Gainers.MinPrice)
	assert.Equal(t, PolicyNames{Confidence: "composite", TradePlan: "percent-offset"}, cfg.WatchlistPolicies)
	assert.Equal(t, PolicyNames{Confidence: "composite", TradePlan: "recent-high"}, cfg.GainerPolicies)
}

func TestLoadConfig_YAMLInvalidLookback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gainers:\n  lookback_days: 0\n"), 0644))
	t.Setenv("SCAN_CONFIG", path)

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "lookback_days")
}

func TestProvidePacketSaver(t *testing.T) {
	ps, err := ProvidePacketSaver(&Config{SaveFormat: "json"})
	require.NoError(t, err)
	assert.Equal(t, "json", ps.Extension())

	_, err = ProvidePacketSaver(&Config{SaveFormat: "xlsx"})
	assert.Error(t, err)
}

func TestEffectiveInterval(t *testing.T) {
	assert.Equal(t, MinLoopInterval, EffectiveInterval(0))
	assert.Equal(t, MinLoopInterval, EffectiveInterval(2*time.Second))
	assert.Equal(t, 45*time.Second, EffectiveInterval(45*time.Second))
}

func TestParsePremarketStart(t *testing.T) {
	// 2024-03-14 01:00 UTC is still 03-13 in New York.
	now := time.Date(2024, 3, 14, 1, 0, 0, 0, time.UTC)
	got, err := ParsePremarketStart("04:00", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 13, 8, 0, 0, 0, time.UTC), got.UTC())

	_, err = ParsePremarketStart("4am", now)
	assert.Error(t, err)
}

func TestRunLoop_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	err := RunLoop(ctx, time.Minute, func(context.Context) error {
		calls++
		cancel()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRunLoop_PassError(t *testing.T) {
	boom := errors.New("boom")
	err := RunLoop(context.Background(), time.Minute, func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	err = RunLoop(ctx, time.Minute, func(context.Context) error {
		cancel()
		return context.Canceled
	})
	assert.NoError(t, err)
}

func TestRunner_RunPrintsAndSaves(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	r := &Runner{
		Out:     &out,
		Format:  report.FormatPlain,
		Saver:   saver.JSONSaver{},
		SaveDir: dir,
		Metrics: observability.NewMetrics(""),
	}
	price := 5.0
	pass := func(context.Context) ([]model.Row, scan.Stats, error) {
		return []model.Row{{Symbol: "ABC", Conviction: model.ConvictionLow, Price: &price}}, scan.Stats{Tickers: 1, Rows: 1}, nil
	}
	require.NoError(t, r.Run(context.Background(), scan.ModeWatchlist, pass, report.WatchlistTable))
	assert.Contains(t, out.String(), "ABC")

	files, err := filepath.Glob(filepath.Join(dir, "watchlist_*.json"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestRunner_RunEmpty(t *testing.T) {
	var out bytes.Buffer
	r := &Runner{Out: &out, Format: report.FormatMarkdown, SaveDir: t.TempDir(), Saver: saver.CSVSaver{}}
	pass := func(context.Context) ([]model.Row, scan.Stats, error) { return nil, scan.Stats{}, nil }
	require.NoError(t, r.Run(context.Background(), scan.ModeGainers, pass, report.GainersTable))
	assert.Equal(t, report.EmptyMessage+"\n", out.String())
}

func TestRunner_RunError(t *testing.T) {
	r := &Runner{Out: &bytes.Buffer{}}
	boom := errors.New("boom")
	pass := func(context.Context) ([]model.Row, scan.Stats, error) { return nil, scan.Stats{}, boom }
	err := r.Run(context.Background(), scan.ModeGainers, pass, report.GainersTable)
	assert.ErrorIs(t, err, boom)
}

type moversFunc func(ctx context.Context) ([]model.Candidate, error)

func (f moversFunc) Gainers(ctx context.Context) ([]model.Candidate, error) { return f(ctx) }

func TestRunner_Movers(t *testing.T) {
	var out bytes.Buffer
	r := &Runner{Out: &out, Now: func() time.Time { return time.Date(2024, 3, 14, 13, 30, 0, 0, time.UTC) }}

	ok := moversFunc(func(context.Context) ([]model.Candidate, error) {
		return []model.Candidate{{Symbol: "ABC", Price: 2, ChangePct: 50}}, nil
	})
	require.NoError(t, r.Movers(context.Background(), ok, 10))
	assert.Contains(t, out.String(), "2024-03-14 13:30:00 UTC")
	assert.Contains(t, out.String(), "ABC")

	out.Reset()
	failing := moversFunc(func(context.Context) ([]model.Candidate, error) {
		return nil, &polygon.FetchError{Endpoint: polygon.EndpointGainers, Kind: polygon.KindStatus, StatusCode: 500}
	})
	require.NoError(t, r.Movers(context.Background(), failing, 10))
	assert.Contains(t, out.String(), "Error fetching data: ")
}

func TestWriteRunReport(t *testing.T) {
	dir := t.TempDir()
	rows := []model.Row{{Symbol: "ABC"}, {Symbol: "ABC"}, {Symbol: "XYZ"}}
	skipped := []scan.Skip{{Ticker: "BAD", Reason: scan.ReasonFetchError, Error: "boom"}}
	require.NoError(t, writeRunReport(dir, scan.ModeWatchlist, rows, skipped))

	data, err := os.ReadFile(filepath.Join(dir, ".lastrun.watchlist.success.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `["ABC","XYZ"]`, string(data))

	data, err = os.ReadFile(filepath.Join(dir, ".lastrun.watchlist.skipped.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"ticker":"BAD","reason":"fetch_error","error":"boom"}]`, string(data))
}

func TestJoinSkipReasons(t *testing.T) {
	assert.Equal(t, "", joinSkipReasons(nil))
	assert.Equal(t, "A: no_price; B: fetch_error", joinSkipReasons([]scan.Skip{
		{Ticker: "A", Reason: scan.ReasonNoPrice},
		{Ticker: "B", Reason: scan.ReasonFetchError},
	}))

	var many []scan.Skip
	for _, s := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		many = append(many, scan.Skip{Ticker: s, Reason: "x"})
	}
	assert.Equal(t, "A: x; B: x; C: x; D: x; E: x (+2 more)", joinSkipReasons(many))
}
