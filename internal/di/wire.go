//go:build wireinject
// +build wireinject

package di

import (
	"SentimentPulse/pkg/config"
	"SentimentPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// The cleanup func releases the cache and the run publisher; call it after Run returns.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideBytesCache,
		ProvideRunPublisher,
		ProvideRateLimiter,

		// Use cases
		ProvideResultProvider,
		ProvideDisplayTrigger,

		// Transport
		ProvideAnalysisHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}
