package app

import (
	"fmt"

	"premarket-scan/internal/observability"
	"premarket-scan/internal/polygon"
	"premarket-scan/internal/saver"
)

// ProvideConfig loads config from environment (for Wire).
func ProvideConfig() (*Config, error) {
	return LoadConfig()
}

// ProvideMetrics creates the metrics registry (for Wire).
func ProvideMetrics() *observability.Metrics {
	return observability.NewMetrics("")
}

// ProvidePacketSaver creates PacketSaver from config (for Wire).
// Returns error if SaveFormat is not supported.
func ProvidePacketSaver(cfg *Config) (saver.PacketSaver, error) {
	ps := saver.NewPacketSaver(cfg.SaveFormat)
	if ps == nil {
		return nil, fmt.Errorf("unsupported SAVE_FORMAT %q (use: csv, parquet, json)", cfg.SaveFormat)
	}
	return ps, nil
}

// ProvidePolygonClient creates the shared Polygon client with request metrics (for Wire).
// A client without keys is returned as is; commands decide whether that is fatal.
func ProvidePolygonClient(cfg *Config, m *observability.Metrics) *polygon.Client {
	return polygon.NewClient(cfg.PolygonConfig(), polygon.WithRecorder(m))
}
