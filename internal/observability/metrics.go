// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "premarket_scan"

// Metrics holds all Prometheus metrics for the scanner. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRetries         *prometheus.CounterVec

	// Scan metrics
	TickersSkipped *prometheus.CounterVec
	PassesTotal    *prometheus.CounterVec
	PassDuration   *prometheus.HistogramVec
	RowsEmitted    *prometheus.GaugeVec

	// Health metrics
	LastSuccessfulPass *prometheus.GaugeVec
}

// NewMetrics creates a Metrics instance on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = defaultNamespace
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of Polygon requests by endpoint and status code",
		}, []string{"endpoint", "code"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Polygon request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		HTTPRetries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "retries_total",
			Help:      "Total number of retries after HTTP 429",
		}, []string{"endpoint"}),

		TickersSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickers_skipped_total",
			Help:      "Total number of tickers left out of the table by reason",
		}, []string{"mode", "reason"}),
		PassesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "passes_total",
			Help:      "Total number of scan passes by status",
		}, []string{"mode", "status"}),
		PassDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "pass_duration_seconds",
			Help:      "Scan pass duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}, []string{"mode"}),
		RowsEmitted: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "rows",
			Help:      "Rows printed by the last pass",
		}, []string{"mode"}),

		LastSuccessfulPass: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_pass_timestamp",
			Help:      "Unix timestamp of the last successful scan pass",
		}, []string{"mode"}),
	}
}

// Registry exposes the registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveRequest records one finished HTTP request. Code 0 means no response.
func (m *Metrics) ObserveRequest(endpoint string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
	m.HTTPRequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// ObserveRetry records a 429 backoff.
func (m *Metrics) ObserveRetry(endpoint string) {
	if m == nil {
		return
	}
	m.HTTPRetries.WithLabelValues(endpoint).Inc()
}

// TickerSkipped records a ticker dropped from a pass.
func (m *Metrics) TickerSkipped(mode, reason string) {
	if m == nil {
		return
	}
	m.TickersSkipped.WithLabelValues(mode, reason).Inc()
}

// PassCompleted records a finished pass. A nil err counts as success.
func (m *Metrics) PassCompleted(mode string, rows int, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.PassesTotal.WithLabelValues(mode, status).Inc()
	m.PassDuration.WithLabelValues(mode).Observe(d.Seconds())
	if err == nil {
		m.RowsEmitted.WithLabelValues(mode).Set(float64(rows))
		m.LastSuccessfulPass.WithLabelValues(mode).SetToCurrentTime()
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
