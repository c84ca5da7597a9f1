//go:build wireinject
// +build wireinject

package di

import (
	"MarketAtlas/pkg/config"
	"MarketAtlas/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideHTTPClient,

		// Provider adapters
		ProvideBinanceClient,
		ProvideBybitClient,
		ProvideCoinMarketCapClient,
		ProvideNewsRegistry,
		ProvideFeedFetcher,

		// Infrastructure
		ProvideReportPublisher,
		ProvideBytesCache,
		ProvideResponseCache,

		// Use cases
		ProvideMarketDataUseCase,
		ProvideMarketSnapshotUseCase,
		ProvideNewsUseCase,

		// HTTP
		ProvideHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}
