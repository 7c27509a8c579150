package fx

import (
	"tft-wrapped/internal/api"
	"tft-wrapped/internal/cards"
	"tft-wrapped/internal/config"
	"tft-wrapped/internal/database"
	"tft-wrapped/internal/dataset"
	"tft-wrapped/internal/job"
	"tft-wrapped/internal/logger"
	"tft-wrapped/internal/repository"
	"tft-wrapped/internal/server"
	"tft-wrapped/internal/service"

	"go.uber.org/fx"
)

// ProvideLookups exposes the dataset cache as the card builder's icon source.
func ProvideLookups(svc *dataset.Service) cards.Lookups {
	return svc
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewDatasetRepository),
	// api clients
	fx.Provide(api.NewBackendClient),
	fx.Provide(api.NewDDragonClient),
	// svc
	fx.Provide(dataset.NewService),
	fx.Provide(ProvideLookups),
	fx.Provide(cards.NewBuilder),
	fx.Provide(job.NewOrchestrator),
	fx.Provide(service.NewWrappedService),
	// server
	fx.Provide(server.NewWrappedServer),
	fx.Provide(server.NewTrackSocket),
	fx.Provide(server.NewHealthHandler),
)
