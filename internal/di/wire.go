//go:build wireinject
// +build wireinject

package di

import (
	"TrendPull/pkg/config"
	"TrendPull/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideGuard,

		// Outbound services
		ProvideCandleSource,
		ProvideNotifier,
		ProvideHub,
		ProvideKafkaSink,
		ProvideEventSinks,

		// Use cases
		ProvideMonitor,

		// HTTP surface
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
