//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"TruthSource/internal/domain/repository"
	"TruthSource/internal/handler/api"
	internalrepo "TruthSource/internal/repository"
	"TruthSource/internal/usecase"
	"TruthSource/pkg/config"
	"TruthSource/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideRedisClient,
		ProvideLogger,
		ProvideRegisterer,
		ProvideMetrics,
		ProvideEndpointMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideClickHouseRecords,
		wire.Bind(new(repository.RecordSource), new(*internalrepo.ClickHouseRecords)),
		ProvideRecordFetcher,
		ProvideWarehouses,
		ProvideEvents,
		ProvideOracle,

		// Use cases
		ProvideDeps,
		usecase.NewDemandForecaster,
		usecase.NewDeliveryPredictor,
		usecase.NewAnomalyDetector,
		usecase.NewHealthReporter,
		ProvideAnomalyCheckHandler,

		// Transport
		ProvideRateLimiter,
		api.NewAnalysisEchoHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
