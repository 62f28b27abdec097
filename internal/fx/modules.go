package fx

import (
	"database/sql"

	"edh-elo/internal/api"
	"edh-elo/internal/config"
	"edh-elo/internal/database"
	"edh-elo/internal/db"
	"edh-elo/internal/logger"
	"edh-elo/internal/rating"
	"edh-elo/internal/repository"
	"edh-elo/internal/server"
	"edh-elo/internal/service"

	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

func ProvideEngine(cfg *config.Config) (*rating.Engine, error) {
	return rating.NewEngine(rating.Config{
		StartingElo: cfg.StartingElo,
		KFactor:     cfg.KFactor,
	})
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	fx.Provide(ProvideEngine),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewDeckRepository),
	fx.Provide(repository.NewGameRepository),
	fx.Provide(repository.NewEloScoreRepository),
	// feed client
	fx.Provide(api.NewSheetFeedClient),
	// svc
	fx.Provide(service.NewRatingService),
	fx.Provide(service.NewGameService),
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewDeckService),
	fx.Provide(service.NewImportService),
	fx.Provide(service.NewStatsService),
	// server
	fx.Provide(server.New),
)
