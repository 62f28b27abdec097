package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"edh-elo/internal/database"
	"edh-elo/internal/db"
	"edh-elo/internal/domain"
	"edh-elo/internal/rating"
	"edh-elo/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db         *sql.DB
	playerRepo *repository.PlayerRepository
	deckRepo   *repository.DeckRepository
	gameRepo   *repository.GameRepository
	scoreRepo  *repository.EloScoreRepository
	ratingSvc  *RatingService
	gameSvc    *GameService
	playerSvc  *PlayerService
	deckSvc    *DeckService
	importSvc  *ImportService
	statsSvc   *StatsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	// a single connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	_, err = sqlDB.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	logger := zerolog.Nop()
	require.NoError(t, database.Migrate(sqlDB, logger))

	queries := db.New(sqlDB)
	playerRepo := repository.NewPlayerRepository(sqlDB, queries, logger)
	deckRepo := repository.NewDeckRepository(sqlDB, queries, logger)
	gameRepo := repository.NewGameRepository(sqlDB, queries, logger)
	scoreRepo := repository.NewEloScoreRepository(sqlDB, queries, logger)

	engine, err := rating.NewEngine(rating.Config{StartingElo: 1000, KFactor: 24})
	require.NoError(t, err)

	ratingSvc := NewRatingService(engine, gameRepo, scoreRepo, logger)
	gameSvc := NewGameService(gameRepo, deckRepo, ratingSvc, logger)
	playerSvc := NewPlayerService(playerRepo, deckRepo, logger)
	deckSvc := NewDeckService(deckRepo, playerRepo, ratingSvc, logger)
	importSvc := NewImportService(nil, playerRepo, deckRepo, gameRepo, gameSvc, ratingSvc, logger)
	statsSvc := NewStatsService(playerRepo, deckRepo, gameRepo, scoreRepo, ratingSvc, logger)

	return &testEnv{
		db:         sqlDB,
		playerRepo: playerRepo,
		deckRepo:   deckRepo,
		gameRepo:   gameRepo,
		scoreRepo:  scoreRepo,
		ratingSvc:  ratingSvc,
		gameSvc:    gameSvc,
		playerSvc:  playerSvc,
		deckSvc:    deckSvc,
		importSvc:  importSvc,
		statsSvc:   statsSvc,
	}
}

// newDeck registers a player and one deck for them, returning the deck id.
func (e *testEnv) newDeck(t *testing.T, playerName, deckName string) string {
	t.Helper()
	ctx := context.Background()

	player, err := e.playerRepo.GetOrCreate(ctx, playerName)
	require.NoError(t, err)

	deck, err := e.deckRepo.GetOrCreate(ctx, deckName, player.ID)
	require.NoError(t, err)
	return deck.ID
}

func day(n int) time.Time {
	return time.Date(2024, time.March, n, 0, 0, 0, 0, time.UTC)
}

// scoreValues flattens rating history into comparable (game, score) pairs.
func scoreValues(history []domain.EloScore) [][2]int64 {
	values := make([][2]int64, len(history))
	for i, h := range history {
		values[i] = [2]int64{h.GameID, int64(h.Score)}
	}
	return values
}
