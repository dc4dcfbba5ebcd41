//go:build wireinject
// +build wireinject

package main

import (
	"premarket-scan/internal/app"

	"github.com/google/wire"
)

// InitializeApp builds App (Config, Metrics, Polygon client, PacketSaver) via Wire.
func InitializeApp() (*App, error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvideMetrics,
		app.ProvidePolygonClient,
		app.ProvidePacketSaver,
		wire.Struct(new(App), "*"),
	)
	return nil, nil
}
