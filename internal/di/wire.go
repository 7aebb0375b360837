//go:build wireinject
// +build wireinject

package di

import (
	"FedPulse/pkg/config"
	"FedPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideRedisCache,
		ProvideSnapshotCache,
		ProvideBytesCache,

		// Repositories
		ProvideSeriesSource,
		ProvideTriggerPublisher,
		ProvideTriggerLog,
		ProvideAlertStore,

		// Use cases
		ProvideSeriesUseCase,
		ProvideSignalUseCase,
		ProvideTriggerPipeline,
		ProvideHub,
		ProvideNotifyQueue,
		ProvideAlertUseCase,
		ProvideAlertPoller,
		ProvideKafkaTriggersHandler,

		// HTTP handler and application server
		ProvideAPIHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
