package observability

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := NewMetrics("")

	m.ObserveRequest("last_quote", 200, 20*time.Millisecond)
	m.ObserveRequest("last_quote", 429, 5*time.Millisecond)
	m.ObserveRetry("last_quote")
	m.TickerSkipped("watchlist", "no_price")
	m.TickerSkipped("watchlist", "no_price")
	m.PassCompleted("watchlist", 7, time.Second, nil)
	m.PassCompleted("watchlist", 0, time.Second, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("last_quote", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("last_quote", "429")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRetries.WithLabelValues("last_quote")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.TickersSkipped.WithLabelValues("watchlist", "no_price")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PassesTotal.WithLabelValues("watchlist", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PassesTotal.WithLabelValues("watchlist", "error")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.RowsEmitted.WithLabelValues("watchlist")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("news", 200, time.Millisecond)
		m.ObserveRetry("news")
		m.TickerSkipped("gainers", "fetch_error")
		m.PassCompleted("gainers", 1, time.Second, nil)
	})
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	a, b := NewMetrics(""), NewMetrics("")
	a.ObserveRetry("news")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.HTTPRetries.WithLabelValues("news")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("")
	m.TickerSkipped("gainers", "no_market_cap")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `premarket_scan_tickers_skipped_total{mode="gainers",reason="no_market_cap"} 1`)
}
