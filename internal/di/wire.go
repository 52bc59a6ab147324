//go:build wireinject
// +build wireinject

package di

import (
	"RentRate/pkg/config"
	"RentRate/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Domain services
		ProvideCatalog,
		ProvideClassifier,
		ProvideRulesEngine,
		ProvideDemandPredictor,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaConsumer,
		ProvideKafkaProducer,
		ProvideCache,

		// Repositories
		ProvideDemandHistory,
		ProvideCompetitorStore,
		ProvideAggregator,
		ProvideDecisionPublisher,

		// Use cases
		ProvidePriceCalculator,
		ProvideQuoteIngestHandler,

		// HTTP + application server
		ProvidePricingHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
