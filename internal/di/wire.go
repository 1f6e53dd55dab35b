//go:build wireinject
// +build wireinject

package di

import (
	"ShelfWatch/pkg/config"
	"ShelfWatch/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Infrastructure
		ProvideMetrics,
		ProvideEventPublisher,
		ProvideLogger,
		ProvideCache,

		// Store and stats core
		ProvideFileStore,
		ProvideWatcher,
		ProvideSlot,
		ProvideRefresher,

		// Use cases and transport
		ProvideItemsUsecase,
		ProvideStreamHub,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
