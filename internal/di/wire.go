//go:build wireinject
// +build wireinject

package di

import (
	"baratcx/pkg/config"
	"baratcx/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Session state
		ProvideKV,
		ProvideSessionStore,

		// Remote sources
		ProvideMarketSource,
		ProvideExchange,
		ProvideGenerator,

		// Use cases
		ProvideAdapter,
		ProvideRegistry,
		ProvideAuth,

		// Fan-out
		ProvidePublisher,
		ProvideHub,

		// HTTP
		ProvideHandler,
		ProvideApp,
	)
	return nil, nil
}
